package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/db"
)

// recordingRepo captures what reaches the store layer.
type recordingRepo struct {
	calls       int
	created     domain.NewTaskSpec
	patch       domain.TaskPatch
	hadDeadline bool
	err         error
}

func (r *recordingRepo) touch(ctx context.Context) {
	r.calls++
	_, r.hadDeadline = ctx.Deadline()
}

func (r *recordingRepo) Create(ctx context.Context, spec domain.NewTaskSpec) (*domain.Task, error) {
	r.touch(ctx)
	r.created = spec
	if r.err != nil {
		return nil, r.err
	}
	return &domain.Task{ID: "t1", Title: spec.Title, Status: domain.TaskStatusNew}, nil
}

func (r *recordingRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.touch(ctx)
	return nil, r.err
}

func (r *recordingRepo) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	r.touch(ctx)
	return nil, r.err
}

func (r *recordingRepo) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	r.touch(ctx)
	r.patch = patch
	return nil, r.err
}

func (r *recordingRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.touch(ctx)
	return false, r.err
}

func (r *recordingRepo) Move(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	r.touch(ctx)
	return nil, r.err
}

func (r *recordingRepo) AppendUsage(ctx context.Context, id string, entry domain.UsageEntry) (*domain.Task, error) {
	r.touch(ctx)
	return nil, r.err
}

type emptyRegistry struct{}

func (emptyRegistry) Resolve(ctx context.Context, names []string) ([]string, error) {
	return names, nil
}

func (emptyRegistry) ListAll(ctx context.Context) ([]domain.Tag, error) {
	return []domain.Tag{}, nil
}

func newRecordingService(timeout time.Duration) (ports.TaskService, *recordingRepo) {
	repo := &recordingRepo{}
	return NewTaskService(TaskServiceConfig{Tasks: repo, Tags: emptyRegistry{}, Timeout: timeout}), repo
}

func TestCreateTaskFillsDefaults(t *testing.T) {
	svc, repo := newRecordingService(0)
	none := domain.AssigneeNone

	_, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "T", Assignee: &none})
	require.NoError(t, err)

	assert.Equal(t, domain.ModelStrategyMixed, repo.created.ModelStrategy)
	assert.Equal(t, int64(0), repo.created.EstimatedTokenCost)
	assert.Equal(t, float64(0), repo.created.EstimatedDollarCost)
	assert.Nil(t, repo.created.Assignee)
	assert.NotNil(t, repo.created.Tags)
	assert.Empty(t, repo.created.Tags)
}

func TestInvalidInputNeverReachesStore(t *testing.T) {
	svc, repo := newRecordingService(0)
	ctx := context.Background()
	bad := domain.TaskStatus("done")
	long := string(make([]rune, domain.MaxTitleLength+1))
	bogus := domain.Assignee("mallory")

	_, err := svc.CreateTask(ctx, ports.CreateTaskInput{Title: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.CreateTask(ctx, ports.CreateTaskInput{Title: "T", ModelStrategy: "gpt-9"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.UpdateTask(ctx, "id", domain.TaskPatch{Title: &long})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.MoveTask(ctx, "id", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.ListTasks(ctx, domain.TaskFilter{Assignee: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.RecordUsage(ctx, "id", domain.UsageEntry{Model: "", Cost: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Equal(t, 0, repo.calls)
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	svc, _ := newRecordingService(0)
	neg := int64(-1)

	_, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: " ", EstimatedTokenCost: &neg})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Details, 2)
}

func TestStorageErrorsPropagateUnchanged(t *testing.T) {
	svc, repo := newRecordingService(0)
	cause := errors.New("connection refused")
	repo.err = cause

	_, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "T"})
	assert.Same(t, cause, err)
}

func TestTimeoutBoundsStoreCalls(t *testing.T) {
	svc, repo := newRecordingService(time.Second)
	_, err := svc.GetTask(context.Background(), "id")
	require.NoError(t, err)
	assert.True(t, repo.hadDeadline)

	svc, repo = newRecordingService(0)
	_, err = svc.GetTask(context.Background(), "id")
	require.NoError(t, err)
	assert.False(t, repo.hadDeadline)
}

func newSQLiteService(t *testing.T) ports.TaskService {
	t.Helper()
	database, err := db.NewSQLiteConnection(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database))
	t.Cleanup(func() { _ = db.Close(database) })

	tags := db.NewTagRegistry(database)
	return NewTaskService(TaskServiceConfig{
		Tasks:   db.NewTaskRepository(database, tags),
		Tags:    tags,
		Timeout: 5 * time.Second,
	})
}

func TestServiceEndToEnd(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, ports.CreateTaskInput{
		Title:         "T",
		Description:   "D",
		ModelStrategy: domain.ModelStrategyMixed,
		Tags:          []string{"Bug", " bug "},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TagNames{"bug"}, created.Tags)
	assert.Equal(t, domain.TaskStatusNew, created.Status)
	assert.Nil(t, created.CompletedAt)

	moved, err := svc.MoveTask(ctx, created.ID, domain.TaskStatusComplete)
	require.NoError(t, err)
	require.NotNil(t, moved.CompletedAt)

	title := "C"
	updated, err := svc.UpdateTask(ctx, created.ID, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "C", updated.Title)
	assert.Equal(t, "D", updated.Description)
	assert.NotNil(t, updated.CompletedAt)

	withUsage, err := svc.RecordUsage(ctx, created.ID, domain.UsageEntry{Model: "sonnet", TokensIn: 10, TokensOut: 20, Cost: 0.02})
	require.NoError(t, err)
	assert.Len(t, withUsage.UsageLog, 1)

	_, err = svc.RecordUsage(ctx, created.ID, domain.UsageEntry{Model: "opus", TokensIn: 1, TokensOut: 2, Cost: 0.5})
	require.NoError(t, err)
	summary, err := svc.SummarizeUsage(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Entries)
	assert.Equal(t, int64(11), summary.TokensIn)
	assert.InDelta(t, 0.52, summary.Cost, 1e-9)
	assert.Len(t, summary.ByModel, 2)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "bug", tags[0].Name)

	deleted, err := svc.DeleteTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	noSummary, err := svc.SummarizeUsage(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, noSummary)
}

func TestServiceAssigneeFilter(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()
	rufus, james, none := domain.AssigneeRufus, domain.AssigneeJames, domain.AssigneeNone

	for _, a := range []*domain.Assignee{&rufus, &james, nil} {
		_, err := svc.CreateTask(ctx, ports.CreateTaskInput{Title: "t", Assignee: a})
		require.NoError(t, err)
	}

	unassigned, err := svc.ListTasks(ctx, domain.TaskFilter{Assignee: &none})
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Nil(t, unassigned[0].Assignee)

	all, err := svc.ListTasks(ctx, domain.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
