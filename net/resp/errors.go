package resp

import (
	"net/http"

	"github.com/ncobase/taskmanager/ecode"
)

func exception(status, code int, message string, errs []any) *Exception {
	e := &Exception{Status: status, Code: code, Message: message}
	if len(errs) > 0 {
		e.Errors = errs[0]
	}
	return e
}

// BadRequest indicates a bad request. errs optionally carries field details.
func BadRequest(message string, errs ...any) *Exception {
	return exception(http.StatusBadRequest, ecode.RequestErr, message, errs)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, errs ...any) *Exception {
	return exception(http.StatusNotFound, ecode.NothingFound, message, errs)
}

// NotAllowed indicates a method not allowed on the route.
func NotAllowed(message string, errs ...any) *Exception {
	return exception(http.StatusMethodNotAllowed, ecode.MethodNotAllowed, message, errs)
}

// InternalServer indicates a server error.
func InternalServer(message string, errs ...any) *Exception {
	return exception(http.StatusInternalServerError, ecode.ServerErr, message, errs)
}

// ServiceUnavailable indicates a dependency is down.
func ServiceUnavailable(message string, errs ...any) *Exception {
	return exception(http.StatusServiceUnavailable, ecode.ServiceUnavailable, message, errs)
}
