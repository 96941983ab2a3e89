// Package models provides the core data structures for handling telemetry requests and responses.
package models

// Request represents an incoming client request, independent of the runtime that received it.
type Request struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}
