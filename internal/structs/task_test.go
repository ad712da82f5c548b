package structs

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityValid(t *testing.T) {
	tests := []struct {
		p    Priority
		want bool
	}{
		{PriorityLow, true},
		{PriorityMedium, true},
		{PriorityHigh, true},
		{"urgent", false},
		{"", false},
		{"HIGH", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.Valid(), "priority %q", tt.p)
	}
}

func TestUpdateTaskBodyNullable(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		var b UpdateTaskBody
		require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &b))
		assert.False(t, b.Description.Set)
		assert.False(t, b.DueDate.Set)
		require.NotNil(t, b.Title)
		assert.Equal(t, "x", *b.Title)
		assert.False(t, b.IsEmpty())
	})

	t.Run("explicit null", func(t *testing.T) {
		var b UpdateTaskBody
		require.NoError(t, json.Unmarshal([]byte(`{"description":null,"due_date":null}`), &b))
		assert.True(t, b.Description.Set)
		assert.Nil(t, b.Description.Value)
		assert.True(t, b.DueDate.Set)
		assert.Nil(t, b.DueDate.Value)
	})

	t.Run("values", func(t *testing.T) {
		var b UpdateTaskBody
		require.NoError(t, json.Unmarshal([]byte(`{"description":"d","due_date":"2024-05-01T10:00:00Z","priority":"high"}`), &b))
		require.NotNil(t, b.Description.Value)
		assert.Equal(t, "d", *b.Description.Value)
		require.NotNil(t, b.DueDate.Value)
		assert.True(t, b.DueDate.Value.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
		require.NotNil(t, b.Priority)
		assert.Equal(t, PriorityHigh, *b.Priority)
	})

	t.Run("empty", func(t *testing.T) {
		var b UpdateTaskBody
		require.NoError(t, json.Unmarshal([]byte(`{}`), &b))
		assert.True(t, b.IsEmpty())
	})

	t.Run("bad type", func(t *testing.T) {
		var b UpdateTaskBody
		assert.Error(t, json.Unmarshal([]byte(`{"due_date":"tomorrow"}`), &b))
	})
}

func TestNullableMarshal(t *testing.T) {
	out, err := json.Marshal(Null[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(NewNullable("a"))
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(out))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "required", "priority": "invalid"}}
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed: priority: invalid; title: required", err.Error())

	perr := NewValidationError("priority", "bad", ErrInvalidPriority)
	assert.True(t, errors.Is(perr, ErrValidation))
	assert.True(t, errors.Is(perr, ErrInvalidPriority))
	assert.False(t, errors.Is(err, ErrInvalidPriority))

	assert.True(t, errors.Is(ErrInvalidPriority, ErrValidation))
	assert.True(t, errors.Is(ErrTitleRequired, ErrValidation))
	assert.False(t, errors.Is(ErrTaskNotFound, ErrValidation))
}

func TestTaskJSON(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	task := Task{ID: 7, Title: "t", Priority: PriorityMedium, Category: DefaultCategory, CreatedAt: created, UpdatedAt: created}

	out, err := json.Marshal(task)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Nil(t, m["description"])
	assert.Nil(t, m["due_date"])
	assert.Contains(t, m, "due_date")
	assert.Equal(t, "2024-01-02T03:04:05Z", m["created_at"])
	assert.Equal(t, "general", m["category"])
}
