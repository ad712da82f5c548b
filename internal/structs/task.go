// Package structs defines the task domain models and request bodies.
package structs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultCategory is assigned when a task is created without one.
const DefaultCategory = "general"

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) String() string {
	return string(p)
}

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidPriority = fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
	ErrTitleRequired   = fmt.Errorf("%w: title is required", ErrValidation)
)

// ValidationError carries field level messages keyed by JSON name.
// Err optionally names the specific rule that failed.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}, Err: err}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// Task is a stored task record.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateTaskBody is the payload accepted by create.
type CreateTaskBody struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category    *string    `json:"category" binding:"omitempty,max=100"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskBody is a partial update. Absent fields are left untouched;
// description and due_date may be cleared with an explicit null.
type UpdateTaskBody struct {
	Title       *string             `json:"title" binding:"omitempty,min=1,max=255"`
	Description Nullable[string]    `json:"description"`
	Completed   *bool               `json:"completed"`
	Priority    *Priority           `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category    *string             `json:"category" binding:"omitempty,max=100"`
	DueDate     Nullable[time.Time] `json:"due_date"`
}

// IsEmpty reports whether the patch changes no field.
func (b *UpdateTaskBody) IsEmpty() bool {
	return b.Title == nil && !b.Description.Set && b.Completed == nil &&
		b.Priority == nil && b.Category == nil && !b.DueDate.Set
}

// Nullable tells an absent JSON field apart from an explicit null.
// Set is true whenever the key was present; Value is nil for null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NewNullable returns a Nullable holding v.
func NewNullable[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns an explicitly cleared Nullable.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// TaskFilter narrows list results. Nil or empty fields are ignored.
type TaskFilter struct {
	Completed *bool
	Priority  string
	Category  string
	Search    string
}

// Stats is the aggregate view over all tasks.
type Stats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Completed    int `json:"completed"`
	HighPriority int `json:"high_priority"`
	Overdue      int `json:"overdue"`
}
