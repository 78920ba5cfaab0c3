package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type Lister interface {
	Latest(ctx context.Context) ([]Notification, error)
}

type Handler struct{ Feed Lister }

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/users/notifications", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	ns, err := h.Feed.Latest(ctx)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(ns)
}
