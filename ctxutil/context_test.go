package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	if id == "" {
		t.Fatal("expected generated trace id")
	}
	if got := GetTraceID(ctx); got != id {
		t.Errorf("GetTraceID() = %q, want %q", got, id)
	}

	again, id2 := EnsureTraceID(ctx)
	if id2 != id {
		t.Errorf("EnsureTraceID() regenerated id: %q != %q", id2, id)
	}
	if again != ctx {
		t.Error("EnsureTraceID() should return the same context when id exists")
	}
}

func TestTraceIDPropagatesToGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	ctx := WithGinContext(FromGinContext(c), c)
	ctx = SetTraceID(ctx, "abc")

	if v, ok := c.Get(TraceIDKey); !ok || v != "abc" {
		t.Errorf("gin context trace id = %v, want abc", v)
	}
	if got := GetTraceID(ctx); got != "abc" {
		t.Errorf("GetTraceID() = %q, want abc", got)
	}
}
