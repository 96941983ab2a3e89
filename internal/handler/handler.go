// Package handler implements the liveness and telemetry ingest operations, independent of the runtime serving them.
package handler

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/isometry/obelix/internal/helpers"
	"github.com/isometry/obelix/internal/models"
	"github.com/isometry/obelix/internal/sink"
	"golang.org/x/time/rate"
)

// LivenessMessage is the message returned by the liveness endpoint.
const LivenessMessage = "obelix alive"

// Option is a function that applies an option to a Handler.
type Option func(*Handler)

// Handler answers liveness probes and forwards telemetry to the sink.
type Handler struct {
	logger  *slog.Logger
	sink    *sink.Sink
	clock   *helpers.Clock
	summary *rate.Sometimes
}

// LivenessResponse is the body of the liveness endpoint.
type LivenessResponse struct {
	Message string `json:"message"`
	Time    string `json:"time"`
}

// AckResponse is the body returned for every ingested payload.
type AckResponse struct {
	Status     string `json:"status"`
	ReceivedAt string `json:"received_at"`
}

// NewTelemetryHandler creates a Handler. Without options it writes to stdout and logs nothing.
func NewTelemetryHandler(opts ...Option) *Handler {
	_inst := &Handler{}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.sink == nil {
		_inst.sink = sink.New(os.Stdout)
	}
	if _inst.clock == nil {
		_inst.clock = helpers.NewClock(nil)
	}
	_inst.summary = helpers.NewOnceAMinute()
	return _inst
}

// Liveness reports that the process is up.
func (h *Handler) Liveness() models.Response {
	return helpers.JSONResponse(http.StatusOK, LivenessResponse{
		Message: LivenessMessage,
		Time:    h.clock.Timestamp(),
	})
}

// Ingest writes the request headers and raw body to the sink and acknowledges it.
// Malformed payloads are never rejected.
func (h *Handler) Ingest(req models.Request) models.Response {
	logger := h.logger.With(slog.String("method", req.Method))

	if record := models.ParseRecord([]byte(req.Body)); record != nil {
		logger.Debug("decoded telemetry record",
			slog.String("url", record.URL),
			slog.String("clientIp", record.ClientIP),
			slog.Int("status", record.ResponseStatus),
			slog.String("requestId", record.RequestID),
			slog.String("destination", record.Destination),
			slog.Int("requestPayloadSize", record.RequestPayloadSize()),
			slog.Int("responsePayloadSize", record.ResponsePayloadSize()))
	} else {
		logger.Debug("payload is not a telemetry record", slog.String("body", helpers.Truncate(req.Body, 256)))
	}

	err := h.sink.Write(sink.Entry{
		ReceivedAt: h.clock.Timestamp(),
		Headers:    req.Headers,
		Body:       req.Body,
	})
	if err != nil {
		logger.Error("failed to write telemetry", slog.Any("error", err))
	}

	h.summary.Do(func() {
		h.logger.Info("telemetry sink summary", slog.Uint64("entries", h.sink.Count()))
	})

	return helpers.JSONResponse(http.StatusOK, AckResponse{
		Status:     "ok",
		ReceivedAt: h.clock.Timestamp(),
	})
}
