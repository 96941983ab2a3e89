package handler

import "fmt"

// RouteNotFoundError is returned when no route matches the request path.
type RouteNotFoundError struct {
	Path string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route for path %q", e.Path)
}

// MethodNotAllowedError is returned when the route exists but does not accept the method.
type MethodNotAllowedError struct {
	Method  string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed", e.Method)
}
