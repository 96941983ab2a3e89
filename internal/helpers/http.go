package helpers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/isometry/obelix/internal/models"
)

// JSONResponse marshals v into a Response carrying the given status code.
func JSONResponse(statusCode int, v any) models.Response {
	body, err := json.Marshal(v)
	if err != nil {
		return models.Response{
			Body:       `{"message":"failed to encode response"}`,
			Headers:    map[string]string{"Content-Type": "application/json"},
			StatusCode: http.StatusInternalServerError,
		}
	}
	return models.Response{
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
		StatusCode: statusCode,
	}
}

// RespondHTTP writes response to rw, defaulting to 200 when no status code is set.
func RespondHTTP(response models.Response, rw http.ResponseWriter) {
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(response.Body))
}

// FlattenHeaders collapses multi-valued headers into a single comma-separated value.
func FlattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, v := range h {
		headers[k] = strings.Join(v, ", ")
	}
	return headers
}
