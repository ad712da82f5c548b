// Package service implements the task operations. Each operation runs in
// one database transaction and publishes a task event once it commits.
package service

import (
	"time"

	"github.com/ncobase/taskmanager/data"
	"github.com/ncobase/taskmanager/internal/data/repository"
	"github.com/ncobase/taskmanager/logging/logger"
)

// Service represents the task service.
type Service struct {
	d      *data.Data
	repo   repository.TaskRepository
	logger *logger.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a new task service.
func New(d *data.Data, repo repository.TaskRepository, l *logger.Logger, opts ...Option) *Service {
	s := &Service{
		d:      d,
		repo:   repo,
		logger: l,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewService creates a task service with default options.
func NewService(d *data.Data, repo repository.TaskRepository, l *logger.Logger) *Service {
	return New(d, repo, l)
}

// timestamp returns the current time in UTC at microsecond precision,
// the finest resolution every supported store keeps.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
