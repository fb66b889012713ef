package ecode

import (
	"net/http"
)

// Business codes
const (
	OK = 0

	RequestErr       = -400
	NothingFound     = -404
	MethodNotAllowed = -405
	Conflict         = -409
	Expired          = -410
	EntityTooLarge   = -413

	Unauthorized = -401
	AccessDenied = -403

	ServerErr          = -500
	ServiceUnavailable = -503
)

var (
	texts = map[int]string{
		OK:                 "ok",
		RequestErr:         "Invalid request",
		NothingFound:       "Resource not found",
		MethodNotAllowed:   "Method not allowed",
		Conflict:           "Resource conflict",
		Expired:            "Resource expired",
		EntityTooLarge:     "Request entity too large",
		Unauthorized:       "Unauthorized",
		AccessDenied:       "Access denied",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		RequestErr:         http.StatusBadRequest,
		NothingFound:       http.StatusNotFound,
		MethodNotAllowed:   http.StatusMethodNotAllowed,
		Conflict:           http.StatusConflict,
		Expired:            http.StatusGone,
		EntityTooLarge:     http.StatusRequestEntityTooLarge,
		Unauthorized:       http.StatusUnauthorized,
		AccessDenied:       http.StatusForbidden,
		ServerErr:          http.StatusInternalServerError,
		ServiceUnavailable: http.StatusServiceUnavailable,
	}
)

// Text returns the message of a code, or the server error message for unknown codes.
func Text(code int) string {
	if t, ok := texts[code]; ok {
		return t
	}
	return texts[ServerErr]
}

// ToHTTPStatus maps a business code to its HTTP status.
func ToHTTPStatus(code int) int {
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
