package ecode

import "net/http"

// Business codes.
const (
	OK                 = 0
	RequestErr         = -400
	ParamErr           = -401
	AccessDenied       = -403
	NothingFound       = -404
	MethodNotAllowed   = -405
	Conflict           = -409
	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var texts = map[int]string{
	OK:                 "ok",
	RequestErr:         "Invalid request",
	ParamErr:           "Invalid parameters",
	AccessDenied:       "Access denied",
	NothingFound:       "Resource not found",
	MethodNotAllowed:   "Method not allowed",
	Conflict:           "Resource conflict",
	ServerErr:          "Internal server error",
	ServiceUnavailable: "Service unavailable",
	Deadline:           "Deadline exceeded",
}

// Text returns the message for a code, or the server error message for unknown codes.
func Text(code int) string {
	if t, ok := texts[code]; ok {
		return t
	}
	return texts[ServerErr]
}

// ToHTTPStatus maps a business code to the HTTP status it is served with.
func ToHTTPStatus(code int) int {
	switch code {
	case OK:
		return http.StatusOK
	case RequestErr, ParamErr:
		return http.StatusBadRequest
	case AccessDenied:
		return http.StatusForbidden
	case NothingFound:
		return http.StatusNotFound
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	case Conflict:
		return http.StatusConflict
	case ServiceUnavailable:
		return http.StatusServiceUnavailable
	case Deadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
