package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/taskmanager/ecode"
	"github.com/ncobase/taskmanager/internal/structs"
	"github.com/ncobase/taskmanager/net/resp"
)

// ListTasks handles GET /tasks.
func (h *Handler) ListTasks(c *gin.Context) {
	filter := &structs.TaskFilter{
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			resp.Fail(c.Writer, resp.BadRequest(ecode.FieldIsInvalid("completed"), map[string]string{
				"completed": "must be true or false",
			}))
			return
		}
		filter.Completed = &completed
	}

	tasks, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.Success(c.Writer, tasks)
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	var body structs.CreateTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.bindError(c, err)
		return
	}

	task, err := h.svc.Create(c.Request.Context(), &body)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.WithStatusCode(c.Writer, 201, task)
}

// GetTask handles GET /tasks/:id.
func (h *Handler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.Success(c.Writer, task)
}

// UpdateTask handles PUT /tasks/:id. An empty body only refreshes updated_at.
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var body structs.UpdateTaskBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		h.bindError(c, err)
		return
	}

	task, err := h.svc.Update(c.Request.Context(), id, &body)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.Success(c.Writer, task)
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	resp.Success(c.Writer, "Task deleted successfully")
}

// DeleteTasks handles DELETE /tasks. Ids come from repeated task_ids query
// parameters or from a JSON body, either a bare array or {"task_ids": [...]}.
func (h *Handler) DeleteTasks(c *gin.Context) {
	ids, err := bulkIDs(c)
	if err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error(), map[string]string{"task_ids": err.Error()}))
		return
	}

	deleted, err := h.svc.DeleteMany(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.Success(c.Writer, map[string]any{
		"message": fmt.Sprintf("%d tasks deleted successfully", deleted),
		"deleted": deleted,
	})
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.Success(c.Writer, categories)
}

// Stats handles GET /stats.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp.Success(c.Writer, stats)
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		resp.Fail(c.Writer, resp.BadRequest(ecode.FieldIsInvalid("id"), map[string]string{
			"id": "must be a positive integer",
		}))
		return 0, false
	}
	return id, true
}

func bulkIDs(c *gin.Context) ([]int64, error) {
	if raw, ok := c.GetQueryArray("task_ids"); ok {
		var ids []int64
		for _, r := range raw {
			for _, part := range strings.Split(r, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				id, err := strconv.ParseInt(part, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("%s: %q", ecode.FieldIsInvalid("task_ids"), part)
				}
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New(ecode.FieldIsRequired("task_ids"))
	}

	if body[0] == '[' {
		var ids []int64
		if err := json.Unmarshal(body, &ids); err != nil {
			return nil, errors.New(ecode.FieldIsInvalid("task_ids"))
		}
		return ids, nil
	}

	var wrapped struct {
		TaskIDs *[]int64 `json:"task_ids"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, errors.New(ecode.FieldIsInvalid("task_ids"))
	}
	if wrapped.TaskIDs == nil {
		return nil, errors.New(ecode.FieldIsRequired("task_ids"))
	}
	return *wrapped.TaskIDs, nil
}
