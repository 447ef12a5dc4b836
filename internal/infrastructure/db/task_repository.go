package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type taskRepository struct {
	db   *gorm.DB
	tags ports.TagRegistry
	now  func() time.Time
}

// NewTaskRepository persists tasks through db and resolves their tags through
// tags before any task row is written. Concurrent writes to the same id are
// serialized by the store; the last committed write wins.
func NewTaskRepository(db *gorm.DB, tags ports.TagRegistry) ports.TaskRepository {
	return &taskRepository{db: db, tags: tags, now: storeNow}
}

// storeNow matches the microsecond precision PostgreSQL keeps.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (r *taskRepository) Create(ctx context.Context, spec domain.NewTaskSpec) (*domain.Task, error) {
	tags, err := r.tags.Resolve(ctx, spec.Tags)
	if err != nil {
		return nil, err
	}

	strategy := spec.ModelStrategy
	if strategy == "" {
		strategy = domain.ModelStrategyMixed
	}

	now := r.now()
	task := domain.Task{
		ID:                  uuid.NewString(),
		Title:               spec.Title,
		Description:         spec.Description,
		ModelStrategy:       strategy,
		EstimatedTokenCost:  spec.EstimatedTokenCost,
		EstimatedDollarCost: spec.EstimatedDollarCost,
		Status:              domain.TaskStatusNew,
		Assignee:            storedAssignee(spec.Assignee),
		Tags:                domain.NewTagNames(tags),
		CreatedAt:           now,
		UpdatedAt:           now,
		CompletedAt:         nil,
		UsageLog:            domain.UsageLog{},
	}

	if err := r.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, storageErr("create task", err)
	}
	return &task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return findTask(r.db.WithContext(ctx), id, false)
}

func (r *taskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Model(&domain.Task{})

	if filter.Assignee != nil {
		if *filter.Assignee == domain.AssigneeNone {
			q = q.Where("assignee IS NULL")
		} else {
			q = q.Where("assignee = ?", string(*filter.Assignee))
		}
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Tag != nil {
		if name := domain.NormalizeTagName(*filter.Tag); name != "" {
			var err error
			if q, err = r.whereHasTag(q, name); err != nil {
				return nil, storageErr("list tasks", err)
			}
		}
	}

	tasks := []domain.Task{}
	if err := q.Order("created_at desc").Order("id desc").Find(&tasks).Error; err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

// whereHasTag matches tasks whose JSON tags array contains name.
func (r *taskRepository) whereHasTag(q *gorm.DB, name string) (*gorm.DB, error) {
	if r.db.Dialector.Name() == "postgres" {
		needle, err := json.Marshal([]string{name})
		if err != nil {
			return nil, err
		}
		return q.Where("tags::jsonb @> ?::jsonb", string(needle)), nil
	}
	return q.Where("EXISTS (SELECT 1 FROM json_each(tasks.tags) WHERE json_each.value = ?)", name), nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var tags domain.TagNames
	if patch.Tags != nil {
		resolved, err := r.tags.Resolve(ctx, *patch.Tags)
		if err != nil {
			return nil, err
		}
		tags = domain.NewTagNames(resolved)
	}

	var updated *domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findTask(tx, id, r.lockRows())
		if err != nil || current == nil {
			return err
		}

		now := r.now()
		changes := map[string]interface{}{"updated_at": now}
		if patch.Title != nil {
			changes["title"] = *patch.Title
		}
		if patch.Description != nil {
			changes["description"] = *patch.Description
		}
		if patch.ModelStrategy != nil {
			changes["model_strategy"] = string(*patch.ModelStrategy)
		}
		if patch.EstimatedTokenCost != nil {
			changes["estimated_token_cost"] = *patch.EstimatedTokenCost
		}
		if patch.EstimatedDollarCost != nil {
			changes["estimated_dollar_cost"] = *patch.EstimatedDollarCost
		}
		if patch.Assignee != nil {
			if a := storedAssignee(patch.Assignee); a != nil {
				changes["assignee"] = string(*a)
			} else {
				changes["assignee"] = nil
			}
		}
		if patch.Tags != nil {
			changes["tags"] = tags
		}
		if patch.Status != nil {
			// completed_at follows the transition from the stored status.
			changes["status"] = string(*patch.Status)
			if completed := domain.CompletionFor(current.Status, *patch.Status, current.CompletedAt, now); completed != nil {
				changes["completed_at"] = *completed
			} else {
				changes["completed_at"] = nil
			}
		}

		if err := tx.Model(&domain.Task{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return storageErr("update task", err)
		}

		updated, err = findTask(tx, id, false)
		return err
	})
	if err != nil {
		return nil, txErr("update task", err)
	}
	return updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{})
	if res.Error != nil {
		return false, storageErr("delete task", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *taskRepository) Move(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	return r.Update(ctx, id, domain.TaskPatch{Status: &status})
}

func (r *taskRepository) AppendUsage(ctx context.Context, id string, entry domain.UsageEntry) (*domain.Task, error) {
	var updated *domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findTask(tx, id, r.lockRows())
		if err != nil || current == nil {
			return err
		}

		now := r.now()
		if entry.Timestamp.IsZero() {
			entry.Timestamp = now
		}
		usage := append(domain.UsageLog{}, current.UsageLog...)
		usage = append(usage, entry)

		if err := tx.Model(&domain.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
			"llm_usage":  usage,
			"updated_at": now,
		}).Error; err != nil {
			return storageErr("append usage", err)
		}

		updated, err = findTask(tx, id, false)
		return err
	})
	if err != nil {
		return nil, txErr("append usage", err)
	}
	return updated, nil
}

// lockRows reports whether the engine supports SELECT ... FOR UPDATE.
// SQLite already serializes writers.
func (r *taskRepository) lockRows() bool {
	return r.db.Dialector.Name() == "postgres"
}

func findTask(q *gorm.DB, id string, forUpdate bool) (*domain.Task, error) {
	var task domain.Task
	if err := taskQuery(q, id, forUpdate).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr("get task", err)
	}
	return &task, nil
}

func taskQuery(q *gorm.DB, id string, forUpdate bool) *gorm.DB {
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q.Where("id = ?", id)
}

func storedAssignee(a *domain.Assignee) *domain.Assignee {
	if a == nil || *a == domain.AssigneeNone {
		return nil
	}
	v := *a
	return &v
}

func txErr(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return err
	}
	return storageErr(op, err)
}
