package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/taskmanager/ecode"
)

// Exception is a failure on its way to the client. Status picks the HTTP
// status and is never serialized.
type Exception struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

// Error implements error so an Exception can travel through error returns.
func (e *Exception) Error() string {
	return e.Message
}

// Success writes data with 200 OK.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes data with statusCode. A string payload, or none,
// becomes {"message": ...}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var payload any
	if len(data) > 0 {
		payload = data[0]
	}
	switch v := payload.(type) {
	case nil:
		payload = map[string]string{"message": "ok"}
	case string:
		payload = map[string]string{"message": v}
	}
	writeJSON(w, statusCode, payload)
}

// Fail writes r. A nil r is an internal server error.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer("")
	}
	code := r.Code
	if code == 0 {
		code = ecode.RequestErr
	}
	status := r.Status
	if status == 0 {
		status = ecode.ToHTTPStatus(code)
	}
	message := r.Message
	if message == "" {
		message = ecode.Text(code)
	}
	writeJSON(w, status, &Exception{Code: code, Message: message, Errors: r.Errors})
}

func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
