// Package repository reads and writes the tasks table. Every method runs on
// the Querier it is handed, so callers decide the transaction boundary.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/internal/data/schema"
	"github.com/ncobase/taskmanager/internal/structs"
)

// TaskRepository represents the task repository interface.
type TaskRepository interface {
	Create(ctx context.Context, q data.Querier, task *structs.Task) (*structs.Task, error)
	GetByID(ctx context.Context, q data.Querier, id int64) (*structs.Task, error)
	List(ctx context.Context, q data.Querier, filter *structs.TaskFilter) ([]*structs.Task, error)
	Update(ctx context.Context, q data.Querier, task *structs.Task) (*structs.Task, error)
	Delete(ctx context.Context, q data.Querier, id int64) error
	DeleteMany(ctx context.Context, q data.Querier, ids []int64) ([]int64, error)
	Categories(ctx context.Context, q data.Querier) ([]string, error)
	Stats(ctx context.Context, q data.Querier, now time.Time) (*structs.Stats, error)
}

var columns = []string{
	"id", "title", "description", "completed", "priority",
	"category", "due_date", "created_at", "updated_at",
}

type taskRepository struct {
	dialect string
}

// NewTaskRepository creates a new task repository for the dialect of d.
func NewTaskRepository(d *data.Data) TaskRepository {
	return &taskRepository{dialect: d.Dialect()}
}

func (r *taskRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

// Create inserts task and returns it with the assigned id.
func (r *taskRepository) Create(ctx context.Context, q data.Querier, task *structs.Task) (*structs.Task, error) {
	insert := r.builder().Insert(schema.Table).
		Columns(columns[1:]...).
		Values(
			task.Title, task.Description, task.Completed, string(task.Priority),
			task.Category, utcPtr(task.DueDate), task.CreatedAt.UTC(), task.UpdatedAt.UTC(),
		)

	var id int64
	if r.dialect == dialect.Postgres {
		query, args := insert.Returning("id").Query()
		if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
	} else {
		query, args := insert.Query()
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("failed to read task id: %w", err)
		}
	}

	created := *task
	created.ID = id
	return &created, nil
}

// GetByID returns the task with id or structs.ErrTaskNotFound.
func (r *taskRepository) GetByID(ctx context.Context, q data.Querier, id int64) (*structs.Task, error) {
	query, args := r.builder().Select(columns...).
		From(entsql.Table(schema.Table)).
		Where(entsql.EQ("id", id)).
		Query()

	task, err := scanTask(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, structs.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return task, nil
}

// List returns the tasks matching filter, newest first.
func (r *taskRepository) List(ctx context.Context, q data.Querier, filter *structs.TaskFilter) ([]*structs.Task, error) {
	selector := r.builder().Select(columns...).From(entsql.Table(schema.Table))
	if p := filterPredicate(filter); p != nil {
		selector.Where(p)
	}
	query, args := selector.OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).Query()

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*structs.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// filterPredicate combines the supplied filters with AND. It returns nil
// when nothing is filtered.
func filterPredicate(filter *structs.TaskFilter) *entsql.Predicate {
	if filter == nil {
		return nil
	}
	var preds []*entsql.Predicate
	if filter.Completed != nil {
		preds = append(preds, entsql.EQ("completed", *filter.Completed))
	}
	if filter.Priority != "" {
		preds = append(preds, entsql.EQ("priority", filter.Priority))
	}
	if filter.Category != "" {
		preds = append(preds, entsql.EQ("category", filter.Category))
	}
	if filter.Search != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("title", filter.Search),
			entsql.ContainsFold("description", filter.Search),
		))
	}
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	}
	return entsql.And(preds...)
}

// Update writes every mutable column of task.
func (r *taskRepository) Update(ctx context.Context, q data.Querier, task *structs.Task) (*structs.Task, error) {
	query, args := r.builder().Update(schema.Table).
		Set("title", task.Title).
		Set("description", task.Description).
		Set("completed", task.Completed).
		Set("priority", string(task.Priority)).
		Set("category", task.Category).
		Set("due_date", utcPtr(task.DueDate)).
		Set("updated_at", task.UpdatedAt.UTC()).
		Where(entsql.EQ("id", task.ID)).
		Query()

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	// MySQL reports matched rows as unaffected when nothing changed, so only
	// an error from RowsAffected is treated as fatal here.
	if _, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	return r.GetByID(ctx, q, task.ID)
}

// Delete removes the task with id or returns structs.ErrTaskNotFound.
func (r *taskRepository) Delete(ctx context.Context, q data.Querier, id int64) error {
	query, args := r.builder().Delete(schema.Table).Where(entsql.EQ("id", id)).Query()

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	if n == 0 {
		return structs.ErrTaskNotFound
	}
	return nil
}

// DeleteMany removes every task whose id is in ids and returns the ids that
// existed, ascending. Unknown ids are ignored.
func (r *taskRepository) DeleteMany(ctx context.Context, q data.Querier, ids []int64) ([]int64, error) {
	deleted := make([]int64, 0, len(ids))
	if len(ids) == 0 {
		return deleted, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query, qargs := r.builder().Select("id").
		From(entsql.Table(schema.Table)).
		Where(entsql.In("id", args...)).
		OrderBy("id").
		Query()
	rows, err := q.QueryContext(ctx, query, qargs...)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		deleted = append(deleted, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	if len(deleted) == 0 {
		return deleted, nil
	}

	found := make([]any, len(deleted))
	for i, id := range deleted {
		found[i] = id
	}
	query, qargs = r.builder().Delete(schema.Table).Where(entsql.In("id", found...)).Query()
	if _, err := q.ExecContext(ctx, query, qargs...); err != nil {
		return nil, fmt.Errorf("failed to delete tasks: %w", err)
	}
	return deleted, nil
}

// Categories returns the distinct non-empty categories in ascending order.
func (r *taskRepository) Categories(ctx context.Context, q data.Querier) ([]string, error) {
	query, args := r.builder().Select("category").Distinct().
		From(entsql.Table(schema.Table)).
		Where(entsql.And(entsql.NotNull("category"), entsql.NEQ("category", ""))).
		OrderBy("category").
		Query()

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Stats counts tasks by state. Run it inside one read transaction so the
// counts share a snapshot.
func (r *taskRepository) Stats(ctx context.Context, q data.Querier, now time.Time) (*structs.Stats, error) {
	var stats structs.Stats
	counts := []struct {
		dst  *int
		name string
		pred *entsql.Predicate
	}{
		{&stats.Total, "total", nil},
		{&stats.Completed, "completed", entsql.EQ("completed", true)},
		{&stats.HighPriority, "high_priority", entsql.And(
			entsql.EQ("priority", string(structs.PriorityHigh)),
			entsql.EQ("completed", false),
		)},
		{&stats.Overdue, "overdue", entsql.And(
			entsql.NotNull("due_date"),
			entsql.LT("due_date", now.UTC()),
			entsql.EQ("completed", false),
		)},
	}
	for _, c := range counts {
		n, err := r.count(ctx, q, c.pred)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s tasks: %w", c.name, err)
		}
		*c.dst = n
	}
	stats.Active = stats.Total - stats.Completed
	return &stats, nil
}

func (r *taskRepository) count(ctx context.Context, q data.Querier, pred *entsql.Predicate) (int, error) {
	selector := r.builder().Select(entsql.Count("*")).From(entsql.Table(schema.Table))
	if pred != nil {
		selector.Where(pred)
	}
	query, args := selector.Query()

	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (*structs.Task, error) {
	var (
		task        structs.Task
		priority    string
		description sql.NullString
		category    sql.NullString
		dueDate     sql.NullTime
	)
	if err := s.Scan(
		&task.ID, &task.Title, &description, &task.Completed, &priority,
		&category, &dueDate, &task.CreatedAt, &task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	task.Priority = structs.Priority(priority)
	task.Category = category.String
	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		task.DueDate = &due
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
