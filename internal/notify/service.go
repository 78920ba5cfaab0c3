package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ariefcatur/go-hotel-reservations/internal/booking"
	kafkago "github.com/segmentio/kafka-go"
)

// Feed stores rendered notifications and remembers processed event ids.
type Feed interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkSeen(ctx context.Context, eventID string) error
	Push(ctx context.Context, n Notification) error
}

type Service struct {
	Feed Feed
	Log  *slog.Logger
}

// HandleEvent is installed as the consumer handler. Returning nil commits the offset.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env booking.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message: log and commit so the partition keeps moving
		s.logger().Error("drop undecodable event", "topic", m.Topic, "offset", m.Offset, "err", err)
		return nil
	}

	seen, err := s.Feed.Seen(ctx, env.EventID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	n, ok, err := Render(env)
	if err != nil {
		s.logger().Error("drop malformed payload", "event_id", env.EventID, "event_type", env.EventType, "err", err)
		return nil
	}
	if ok {
		if err := s.Feed.Push(ctx, n); err != nil {
			return err
		}
		s.logger().Debug("notification pushed", "event_id", env.EventID, "type", n.Type)
	}
	return s.Feed.MarkSeen(ctx, env.EventID)
}

func (s *Service) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
