package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSuccessWithData(t *testing.T) {
	rec := httptest.NewRecorder()
	WithStatusCode(rec, http.StatusCreated, map[string]int{"id": 7})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
	if body := decode(t, rec); body["id"] != float64(7) {
		t.Errorf("body = %v", body)
	}
}

func TestSuccessWithMessage(t *testing.T) {
	tests := []struct {
		name string
		data []any
		want string
	}{
		{"string payload", []any{"Task deleted successfully"}, "Task deleted successfully"},
		{"no payload", nil, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Success(rec, tt.data...)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := decode(t, rec)["message"]; got != tt.want {
				t.Errorf("message = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		exception  *Exception
		wantStatus int
		wantCode   float64
		wantMsg    string
	}{
		{"not found", NotFound("Task not found"), http.StatusNotFound, -404, "Task not found"},
		{"bad request", BadRequest("invalid", map[string]string{"title": "title is required"}), http.StatusBadRequest, -400, "invalid"},
		{"internal", InternalServer(""), http.StatusInternalServerError, -500, "Internal server error"},
		{"nil", nil, http.StatusInternalServerError, -500, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Fail(rec, tt.exception)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decode(t, rec)
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %v", body["code"], tt.wantCode)
			}
			if body["message"] != tt.wantMsg {
				t.Errorf("message = %v, want %q", body["message"], tt.wantMsg)
			}
			if _, ok := body["status"]; ok {
				t.Error("status field should not be serialized")
			}
		})
	}
}

func TestFailCarriesFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, BadRequest("invalid", map[string]string{"priority": "priority must be one of low medium high"}))

	errs, ok := decode(t, rec)["errors"].(map[string]any)
	if !ok {
		t.Fatal("errors object missing")
	}
	if errs["priority"] == nil {
		t.Errorf("errors = %v", errs)
	}
}
