package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type Finder interface {
	Get(ctx context.Context, id int64) (Room, error)
}

// Handler serves the single inventory endpoint the booking service depends on.
type Handler struct {
	Rooms Finder
	Log   *slog.Logger
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/rooms/{id}", h.getRoom)
}

func (h *Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid room id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	room, err := h.Rooms.Get(ctx, id)
	switch {
	case errors.Is(err, ErrRoomNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
	case err != nil:
		if h.Log != nil {
			h.Log.Error("get room", "room_id", id, "err", err)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	default:
		writeJSON(w, http.StatusOK, room)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
