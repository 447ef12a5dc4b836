package services

import (
	"context"
	"time"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
)

type TaskServiceConfig struct {
	Tasks ports.TaskRepository
	Tags  ports.TagRegistry
	// Timeout bounds each operation's store calls. Zero leaves the caller's
	// deadline as the only bound.
	Timeout time.Duration
}

// taskService validates input before any store call and hands the rest to
// the repository. Tags created for a write that later fails stay registered.
type taskService struct {
	tasks   ports.TaskRepository
	tags    ports.TagRegistry
	usage   *UsageAggregator
	timeout time.Duration
}

func NewTaskService(cfg TaskServiceConfig) ports.TaskService {
	return &taskService{
		tasks:   cfg.Tasks,
		tags:    cfg.Tags,
		usage:   NewUsageAggregator(),
		timeout: cfg.Timeout,
	}
}

func (s *taskService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *taskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	spec := domain.NewTaskSpec{
		Title:         input.Title,
		Description:   input.Description,
		ModelStrategy: input.ModelStrategy,
		Assignee:      input.Assignee,
		Tags:          input.Tags,
	}
	if spec.ModelStrategy == "" {
		spec.ModelStrategy = domain.ModelStrategyMixed
	}
	if input.EstimatedTokenCost != nil {
		spec.EstimatedTokenCost = *input.EstimatedTokenCost
	}
	if input.EstimatedDollarCost != nil {
		spec.EstimatedDollarCost = *input.EstimatedDollarCost
	}
	if spec.Assignee != nil && *spec.Assignee == domain.AssigneeNone {
		spec.Assignee = nil
	}
	if spec.Tags == nil {
		spec.Tags = []string{}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.tasks.Create(ctx, spec)
}

func (s *taskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.tasks.List(ctx, filter)
}

func (s *taskService) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.tasks.Update(ctx, id, patch)
}

func (s *taskService) DeleteTask(ctx context.Context, id string) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) MoveTask(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if err := domain.ValidateStatus(status); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.tasks.Move(ctx, id, status)
}

func (s *taskService) RecordUsage(ctx context.Context, id string, entry domain.UsageEntry) (*domain.Task, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.tasks.AppendUsage(ctx, id, entry)
}

func (s *taskService) SummarizeUsage(ctx context.Context, id string) (*domain.UsageSummary, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}
	summary := s.usage.Aggregate(task)
	return &summary, nil
}

func (s *taskService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.tags.ListAll(ctx)
}
