package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ncobase/taskmanager/internal/structs"
)

// Event types published after a task mutation commits.
const (
	EventTaskCreated     = "task.created"
	EventTaskUpdated     = "task.updated"
	EventTaskDeleted     = "task.deleted"
	EventTaskBulkDeleted = "task.bulk_deleted"
)

// Event is the message body sent to the broker.
type Event struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	TaskIDs    []int64       `json:"task_ids"`
	Task       *structs.Task `json:"task,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// publish sends an event for ids. Delivery is best effort: a broker failure
// is logged and never reaches the caller.
func (s *Service) publish(ctx context.Context, eventType string, task *structs.Task, ids ...int64) {
	if !s.d.IsMessagingEnabled() {
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	evt := &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		TaskIDs:    ids,
		Task:       task,
		OccurredAt: s.timestamp(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error(ctx, "Failed to encode task event", "error", err, "type", eventType)
		return
	}

	var key []byte
	if len(ids) > 0 {
		key = []byte(strconv.FormatInt(ids[0], 10))
	}
	if err := s.d.Publish(ctx, key, payload); err != nil {
		s.logger.Warn(ctx, "Failed to publish task event", "error", err, "type", eventType, "event_id", evt.ID)
		return
	}
	s.logger.Debug(ctx, "Task event published", "type", eventType, "event_id", evt.ID, "topic", s.d.Topic())
}
