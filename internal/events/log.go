package events

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogPublisher writes events to the log instead of a broker. It is used when
// no broker is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

var _ Publisher = (*LogPublisher)(nil)

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "event-log").Logger()}
}

func (p *LogPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	env := newEnvelope(routingKey, payload, time.Now())
	p.logger.Info().
		Str("routing_key", routingKey).
		Str("event_id", env.ID.String()).
		Interface("data", payload).
		Msg("event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
