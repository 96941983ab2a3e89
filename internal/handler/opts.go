package handler

import (
	"log/slog"

	"github.com/isometry/obelix/internal/helpers"
	"github.com/isometry/obelix/internal/sink"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithSink sets the sink receiving telemetry entries.
func WithSink(s *sink.Sink) Option {
	return func(h *Handler) {
		h.sink = s
	}
}

// WithClock sets the clock used for response and entry timestamps.
func WithClock(clock *helpers.Clock) Option {
	return func(h *Handler) {
		h.clock = clock
	}
}
