// Package sink delivers confirmed strings to the outside world.
//
// A Sink receives one Confirmation per string the tracker confirmed. The
// session publishes after it has released its lock, so a slow sink delays
// only the caller that triggered the confirmation.
package sink

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/number-reader-mcp/internal/logging"
)

// Confirmation is a string that stayed stable long enough to be reported.
type Confirmation struct {
	ID          string    `json:"id"`
	Region      string    `json:"region"`
	Value       string    `json:"value"`
	Frame       int64     `json:"frame"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// NewConfirmation stamps a confirmation with a fresh ID.
func NewConfirmation(region, value string, frame int64, at time.Time) Confirmation {
	return Confirmation{
		ID:          uuid.New().String(),
		Region:      region,
		Value:       value,
		Frame:       frame,
		ConfirmedAt: at.UTC(),
	}
}

// Sink is a destination for confirmations.
type Sink interface {
	Publish(ctx context.Context, c Confirmation) error
	Close() error
}

// Log writes confirmations to a logger.
type Log struct {
	log *logging.Logger
}

// NewLog creates a sink logging at info level.
func NewLog(l *logging.Logger) *Log {
	return &Log{log: l}
}

// Publish logs c.
func (s *Log) Publish(_ context.Context, c Confirmation) error {
	s.log.Info("confirmed", "region", c.Region, "value", c.Value, "frame", c.Frame, "id", c.ID)
	return nil
}

// Close does nothing.
func (s *Log) Close() error { return nil }

// Multi publishes to every sink in order. A failing sink does not stop the
// others; their errors are joined.
type Multi []Sink

// Publish sends c to every sink.
func (m Multi) Publish(ctx context.Context, c Confirmation) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
