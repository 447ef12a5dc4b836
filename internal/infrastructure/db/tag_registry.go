package db

import (
	"context"
	"errors"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"gorm.io/gorm"
)

type tagRegistry struct {
	db *gorm.DB
}

// NewTagRegistry returns a registry whose only uniqueness authority is the
// unique index on tags.name; concurrent creators reconcile after the insert.
func NewTagRegistry(db *gorm.DB) ports.TagRegistry {
	return &tagRegistry{db: db}
}

func (r *tagRegistry) Resolve(ctx context.Context, names []string) ([]string, error) {
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		if norm := domain.NormalizeTagName(n); norm != "" {
			normalized = append(normalized, norm)
		}
	}
	resolved := domain.NewTagNames(normalized)

	for _, name := range resolved {
		if _, err := r.getOrCreate(ctx, name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func (r *tagRegistry) ListAll(ctx context.Context) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	if err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, storageErr("list tags", err)
	}
	return tags, nil
}

func (r *tagRegistry) getOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	tag, err := r.find(ctx, name)
	if err != nil {
		return nil, err
	}
	if tag != nil {
		return tag, nil
	}
	return r.createOrFetch(ctx, name)
}

// createOrFetch inserts the tag and, when another writer got there first,
// returns that writer's row instead.
func (r *tagRegistry) createOrFetch(ctx context.Context, name string) (*domain.Tag, error) {
	tag := domain.NewTag(name)
	err := r.db.WithContext(ctx).Create(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !isUniqueViolation(err) {
		return nil, storageErr("create tag", err)
	}

	existing, err := r.find(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, storageErr("create tag", errors.New("tag "+name+" conflicted but is not readable"))
	}
	return existing, nil
}

func (r *tagRegistry) find(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageErr("get tag", err)
	}
	return &tag, nil
}
