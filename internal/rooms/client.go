package rooms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

// Client fetches room prices from the inventory service over HTTP.
// It does not retry and does not cache; a missing room is ErrRoomNotFound,
// everything else (transport, status, decode, open breaker) is returned as is.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Breaker *gobreaker.CircuitBreaker
}

type roomDTO struct {
	ID            int64               `json:"id"`
	RoomNumber    string              `json:"roomNumber"`
	Type          string              `json:"type"`
	PricePerNight decimal.NullDecimal `json:"pricePerNight"`
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		Breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "room-price-lookup",
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
			// a missing room is a valid answer, not a sick dependency
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrRoomNotFound)
			},
		}),
	}
}

func (c *Client) RoomPrice(ctx context.Context, roomID int64) (PriceView, error) {
	out, err := c.Breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, roomID)
	})
	if err != nil {
		return PriceView{}, err
	}
	dto := out.(roomDTO)
	return PriceView{RoomID: roomID, NightlyPrice: dto.PricePerNight}, nil
}

func (c *Client) fetch(ctx context.Context, roomID int64) (roomDTO, error) {
	url := c.BaseURL + "/api/rooms/" + strconv.FormatInt(roomID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return roomDTO{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return roomDTO{}, fmt.Errorf("room %d: %w", roomID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return roomDTO{}, fmt.Errorf("room %d: %w", roomID, ErrRoomNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return roomDTO{}, fmt.Errorf("room %d: inventory returned %d: %s", roomID, resp.StatusCode, body)
	}

	var dto roomDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return roomDTO{}, fmt.Errorf("room %d: decode: %w", roomID, err)
	}
	return dto, nil
}
