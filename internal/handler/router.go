package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/isometry/obelix/internal/helpers"
	"github.com/isometry/obelix/internal/models"
)

const (
	// LivenessPath is the path of the liveness endpoint.
	LivenessPath = "/"
	// IngestPath is the path the third-party application posts its access telemetry to.
	IngestPath = "/logs/third_party_application/access"
)

type route struct {
	methods []string
	serve   func(*Handler, models.Request) models.Response
}

var routes = map[string]route{
	LivenessPath: {
		methods: []string{http.MethodGet, http.MethodHead},
		serve: func(h *Handler, _ models.Request) models.Response {
			return h.Liveness()
		},
	},
	IngestPath: {
		methods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
		serve:   (*Handler).Ingest,
	},
}

type messageResponse struct {
	Message string `json:"message"`
}

// Process dispatches req to the route matching its path and method.
// The returned response is always usable; the error only explains a 404 or 405.
func (h *Handler) Process(req models.Request) (models.Response, error) {
	path := req.Path
	if path == "" {
		path = LivenessPath
	}
	r, found := routes[path]
	if !found {
		return helpers.JSONResponse(http.StatusNotFound, messageResponse{Message: "not found"}),
			&RouteNotFoundError{Path: path}
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !slices.Contains(r.methods, method) {
		resp := helpers.JSONResponse(http.StatusMethodNotAllowed, messageResponse{Message: "method not allowed"})
		resp.Headers["Allow"] = strings.Join(r.methods, ", ")
		return resp, &MethodNotAllowedError{Method: method, Allowed: r.methods}
	}

	return r.serve(h, req), nil
}
