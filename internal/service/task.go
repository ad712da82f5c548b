package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/ecode"
	"github.com/ncobase/taskmanager/internal/structs"
	"github.com/ncobase/taskmanager/logging/observes"
	"github.com/ncobase/taskmanager/validation/validator"
	"go.opentelemetry.io/otel/attribute"
)

// List returns the tasks matching filter, newest first.
func (s *Service) List(ctx context.Context, filter *structs.TaskFilter) (tasks []*structs.Task, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "task.list")
	defer func() { observes.EndSpan(span, err) }()

	err = s.d.WithTxRead(ctx, func(ctx context.Context, tx data.Querier) error {
		var err error
		tasks, err = s.repo.List(ctx, tx, filter)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to list tasks", "error", err)
		return nil, err
	}
	return tasks, nil
}

// Create validates body and stores a new task.
func (s *Service) Create(ctx context.Context, body *structs.CreateTaskBody) (task *structs.Task, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "task.create")
	defer func() { observes.EndSpan(span, err) }()

	if body == nil {
		return nil, structs.NewValidationError("title", ecode.FieldIsRequired("title"), structs.ErrTitleRequired)
	}
	if err := validateCreate(body); err != nil {
		return nil, err
	}

	now := s.timestamp()
	task = &structs.Task{
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		Completed:   body.Completed,
		Priority:    body.Priority,
		Category:    structs.DefaultCategory,
		DueDate:     normalize(body.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = structs.PriorityMedium
	}
	if body.Category != nil {
		task.Category = *body.Category
	}

	err = s.d.WithTx(ctx, func(ctx context.Context, tx data.Querier) error {
		var err error
		task, err = s.repo.Create(ctx, tx, task)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to create task", "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("task.id", task.ID))
	s.logger.Info(ctx, "Task created", "task_id", task.ID)
	s.publish(ctx, EventTaskCreated, task, task.ID)
	return task, nil
}

// Get returns one task or structs.ErrTaskNotFound.
func (s *Service) Get(ctx context.Context, id int64) (task *structs.Task, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "task.get", attribute.Int64("task.id", id))
	defer func() { observes.EndSpan(span, err) }()

	err = s.d.WithTxRead(ctx, func(ctx context.Context, tx data.Querier) error {
		var err error
		task, err = s.repo.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the fields present in body to the task with id.
// updated_at is refreshed even when body is empty.
func (s *Service) Update(ctx context.Context, id int64, body *structs.UpdateTaskBody) (task *structs.Task, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "task.update", attribute.Int64("task.id", id))
	defer func() { observes.EndSpan(span, err) }()

	if body == nil {
		body = &structs.UpdateTaskBody{}
	}
	if err := validateUpdate(body); err != nil {
		return nil, err
	}

	err = s.d.WithTx(ctx, func(ctx context.Context, tx data.Querier) error {
		current, err := s.repo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		applyPatch(current, body)
		current.UpdatedAt = s.timestamp()
		if current.UpdatedAt.Before(current.CreatedAt) {
			current.UpdatedAt = current.CreatedAt
		}
		task, err = s.repo.Update(ctx, tx, current)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Task updated", "task_id", task.ID)
	s.publish(ctx, EventTaskUpdated, task, task.ID)
	return task, nil
}

func applyPatch(task *structs.Task, body *structs.UpdateTaskBody) {
	if body.Title != nil {
		task.Title = strings.TrimSpace(*body.Title)
	}
	if body.Description.Set {
		task.Description = body.Description.Value
	}
	if body.Completed != nil {
		task.Completed = *body.Completed
	}
	if body.Priority != nil {
		task.Priority = *body.Priority
	}
	if body.Category != nil {
		task.Category = *body.Category
	}
	if body.DueDate.Set {
		task.DueDate = normalize(body.DueDate.Value)
	}
}

// normalize stores due dates the way timestamps are stored: UTC, microseconds.
func normalize(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(time.Microsecond)
	return &u
}

// Delete removes the task with id.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "task.delete", attribute.Int64("task.id", id))
	defer func() { observes.EndSpan(span, err) }()

	err = s.d.WithTx(ctx, func(ctx context.Context, tx data.Querier) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Task deleted", "task_id", id)
	s.publish(ctx, EventTaskDeleted, nil, id)
	return nil
}

// DeleteMany removes the tasks in ids and returns how many existed. The
// bulk event lists only the ids that were actually removed.
func (s *Service) DeleteMany(ctx context.Context, ids []int64) (deleted int64, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "task.delete_many", attribute.Int("task.count", len(ids)))
	defer func() { observes.EndSpan(span, err) }()

	if len(ids) == 0 {
		return 0, nil
	}
	var removed []int64
	err = s.d.WithTx(ctx, func(ctx context.Context, tx data.Querier) error {
		var err error
		removed, err = s.repo.DeleteMany(ctx, tx, ids)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to delete tasks", "error", err, "count", len(ids))
		return 0, err
	}

	deleted = int64(len(removed))
	s.logger.Info(ctx, "Tasks deleted", "requested", len(ids), "deleted", deleted)
	if deleted > 0 {
		s.publish(ctx, EventTaskBulkDeleted, nil, removed...)
	}
	return deleted, nil
}

// Categories returns the distinct non-empty categories in use.
func (s *Service) Categories(ctx context.Context) (categories []string, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "task.categories")
	defer func() { observes.EndSpan(span, err) }()

	err = s.d.WithTxRead(ctx, func(ctx context.Context, tx data.Querier) error {
		var err error
		categories, err = s.repo.Categories(ctx, tx)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to list categories", "error", err)
		return nil, err
	}
	return categories, nil
}

// Stats aggregates task counts from a single read transaction.
func (s *Service) Stats(ctx context.Context) (stats *structs.Stats, err error) {
	ctx, span := observes.StartSpan(ctx, observes.LayerService, "task.stats")
	defer func() { observes.EndSpan(span, err) }()

	now := s.timestamp()
	err = s.d.WithTxRead(ctx, func(ctx context.Context, tx data.Querier) error {
		var err error
		stats, err = s.repo.Stats(ctx, tx, now)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "Failed to compute stats", "error", err)
		return nil, err
	}
	return stats, nil
}

func validateCreate(body *structs.CreateTaskBody) error {
	if fields := validator.ValidateStruct(body); fields != nil {
		return &structs.ValidationError{Fields: fields, Err: ruleError(fields)}
	}
	if strings.TrimSpace(body.Title) == "" {
		return structs.NewValidationError("title", ecode.FieldIsEmpty("title"), structs.ErrTitleRequired)
	}
	if body.Priority != "" && !body.Priority.Valid() {
		return invalidPriority()
	}
	return nil
}

func validateUpdate(body *structs.UpdateTaskBody) error {
	if fields := validator.ValidateStruct(body); fields != nil {
		return &structs.ValidationError{Fields: fields, Err: ruleError(fields)}
	}
	if body.Title != nil && strings.TrimSpace(*body.Title) == "" {
		return structs.NewValidationError("title", ecode.FieldIsEmpty("title"), structs.ErrTitleRequired)
	}
	if body.Priority != nil && !body.Priority.Valid() {
		return invalidPriority()
	}
	return nil
}

func invalidPriority() error {
	return structs.NewValidationError("priority",
		fmt.Sprintf("%s, expected one of low, medium, high", ecode.FieldIsInvalid("priority")),
		structs.ErrInvalidPriority)
}

// ruleError picks the sentinel matching the first known failing field.
func ruleError(fields map[string]string) error {
	if _, ok := fields["title"]; ok {
		return structs.ErrTitleRequired
	}
	if _, ok := fields["priority"]; ok {
		return structs.ErrInvalidPriority
	}
	return nil
}
