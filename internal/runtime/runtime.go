// Package runtime adapts the telemetry handler to the HTTP server and AWS Lambda runtimes.
package runtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/obelix/internal/handler"
	"github.com/isometry/obelix/internal/helpers"
	"github.com/isometry/obelix/internal/models"
	"github.com/pkg/errors"
)

// Supported Lambda payload types.
const (
	PayloadAPIGatewayV1 = "api-gateway-v1"
	PayloadAPIGatewayV2 = "api-gateway-v2"
	PayloadLambdaURL    = "lambda-url"
)

// Option is a function that applies an option to a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger instance for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithLambdaPayloadType sets the event shape expected by HandleEvent.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

// UnsupportedPayloadTypeError is returned by HandleEvent when the configured payload type is unknown.
type UnsupportedPayloadTypeError struct {
	PayloadType string
}

func (e *UnsupportedPayloadTypeError) Error() string {
	return "unsupported lambda payload type: " + e.PayloadType
}

// Runtime wraps a Handler for both the HTTP server and Lambda.
type Runtime struct {
	*handler.Handler
	logger      *slog.Logger
	payloadType string
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler, payloadType: PayloadAPIGatewayV2}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))

	body, err := io.ReadAll(req.Body)
	if err != nil {
		// Keep whatever was read: telemetry is never rejected.
		r.logger.Warn("failed to read request body", slog.Any("error", err))
	}

	headers := helpers.FlattenHeaders(req.Header)
	if req.Host != "" {
		headers["Host"] = req.Host
	}

	result := r.process(models.Request{
		Method:  req.Method,
		Path:    req.URL.Path,
		Body:    string(body),
		Headers: headers,
	})
	helpers.RespondHTTP(result, resp)
}

// HandleEvent is the Lambda handler for the runtime
func (r *Runtime) HandleEvent(_ context.Context, payload json.RawMessage) (any, error) {
	r.logger.Info("received Lambda request", slog.String("payloadType", r.payloadType))

	switch r.payloadType {
	case PayloadAPIGatewayV1:
		var event events.APIGatewayProxyRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode API Gateway v1 request")
		}
		result := r.process(models.Request{
			Method:  event.HTTPMethod,
			Path:    event.Path,
			Body:    r.decodeBody(event.Body, event.IsBase64Encoded),
			Headers: event.Headers,
		})
		return events.APIGatewayProxyResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case PayloadAPIGatewayV2:
		var event events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode API Gateway v2 request")
		}
		result := r.process(models.Request{
			Method:  event.RequestContext.HTTP.Method,
			Path:    event.RawPath,
			Body:    r.decodeBody(event.Body, event.IsBase64Encoded),
			Headers: event.Headers,
		})
		return events.APIGatewayV2HTTPResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	case PayloadLambdaURL:
		var event events.LambdaFunctionURLRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode Lambda function URL request")
		}
		result := r.process(models.Request{
			Method:  event.RequestContext.HTTP.Method,
			Path:    event.RawPath,
			Body:    r.decodeBody(event.Body, event.IsBase64Encoded),
			Headers: event.Headers,
		})
		return events.LambdaFunctionURLResponse{
			Body:       result.Body,
			Headers:    result.Headers,
			StatusCode: result.StatusCode,
		}, nil
	default:
		return nil, &UnsupportedPayloadTypeError{PayloadType: r.payloadType}
	}
}

func (r *Runtime) process(req models.Request) models.Response {
	result, err := r.Handler.Process(req)
	if err != nil {
		r.logger.Info("rejecting request...", slog.String("method", req.Method), slog.String("path", req.Path), slog.Any("reason", err))
	}
	return result
}

func (r *Runtime) decodeBody(body string, isBase64 bool) string {
	if !isBase64 {
		return body
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		r.logger.Warn("failed to decode base64 body, keeping it encoded", slog.Any("error", err))
		return body
	}
	return string(decoded)
}
