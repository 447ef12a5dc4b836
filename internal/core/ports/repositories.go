package ports

import (
	"context"

	"github.com/taskboard/backend/internal/domain"
)

// TagRegistry resolves tag names to registered tags, creating missing ones.
type TagRegistry interface {
	// Resolve normalizes names and get-or-creates each one. It returns the
	// normalized names, sorted and deduplicated.
	Resolve(ctx context.Context, names []string) ([]string, error)
	ListAll(ctx context.Context) ([]domain.Tag, error)
}

// TaskRepository persists tasks. Lookups of a missing id return a nil task
// (or false) and a nil error.
type TaskRepository interface {
	Create(ctx context.Context, spec domain.NewTaskSpec) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	Move(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	AppendUsage(ctx context.Context, id string, entry domain.UsageEntry) (*domain.Task, error)
}
