package ports

import (
	"context"

	"github.com/taskboard/backend/internal/domain"
)

type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	MoveTask(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	RecordUsage(ctx context.Context, id string, entry domain.UsageEntry) (*domain.Task, error)
	SummarizeUsage(ctx context.Context, id string) (*domain.UsageSummary, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
}

type CreateTaskInput struct {
	Title               string
	Description         string
	ModelStrategy       domain.ModelStrategy
	EstimatedTokenCost  *int64
	EstimatedDollarCost *float64
	Assignee            *domain.Assignee
	Tags                []string
}
