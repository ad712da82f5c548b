// Package handler exposes the task service over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/ecode"
	"github.com/ncobase/taskmanager/internal/service"
	"github.com/ncobase/taskmanager/internal/structs"
	"github.com/ncobase/taskmanager/logging/logger"
	"github.com/ncobase/taskmanager/logging/observes"
	"github.com/ncobase/taskmanager/net/resp"
	"github.com/ncobase/taskmanager/validation/validator"
	"github.com/ncobase/taskmanager/version"
)

// Handler represents the HTTP handlers of the task API.
type Handler struct {
	svc    *service.Service
	d      *data.Data
	logger *logger.Logger
}

// New creates a new handler.
func New(svc *service.Service, d *data.Data, l *logger.Logger) *Handler {
	return &Handler{svc: svc, d: d, logger: l}
}

// RegisterRoutes mounts every route on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	tasks := r.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.DELETE("", h.DeleteTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	r.GET("/categories", h.ListCategories)
	r.GET("/stats", h.Stats)
}

// Root describes the API.
func (h *Handler) Root(c *gin.Context) {
	resp.Success(c.Writer, map[string]string{
		"message": "Task Manager API",
		"version": version.APIVersion,
	})
}

// Health pings the database and reports broker status.
func (h *Handler) Health(c *gin.Context) {
	services, healthy := h.d.Health(c.Request.Context())
	body := map[string]any{
		"status":   "healthy",
		"version":  version.GetVersionInfo().Version,
		"services": services,
	}
	if !healthy {
		body["status"] = "unhealthy"
		resp.Fail(c.Writer, resp.ServiceUnavailable("unhealthy", body))
		return
	}
	resp.Success(c.Writer, body)
}

// fail maps err to a response. Anything that is not a domain error is
// logged, reported and hidden behind a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var verr *structs.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Fail(c.Writer, resp.BadRequest(verr.Error(), verr.Fields))
	case errors.Is(err, structs.ErrValidation):
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
	case errors.Is(err, structs.ErrTaskNotFound):
		resp.Fail(c.Writer, resp.NotFound(ecode.NotExist("Task")))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn(ctx, "Request aborted", "error", err, "path", c.FullPath())
		resp.Fail(c.Writer, &resp.Exception{Status: http.StatusServiceUnavailable, Code: ecode.Deadline})
	default:
		h.logger.Error(ctx, "Request failed", "error", err, "path", c.FullPath())
		observes.CaptureError(ctx, err)
		resp.Fail(c.Writer, resp.InternalServer(ecode.Text(ecode.ServerErr)))
	}
}

// bindError answers a request body that failed to decode or bind.
func (h *Handler) bindError(c *gin.Context, err error) {
	if fields := validator.Translate(err); fields != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid request body", fields))
		return
	}
	resp.Fail(c.Writer, resp.BadRequest("invalid request body: "+err.Error()))
}
