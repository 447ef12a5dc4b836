package domain

import "time"

// ==================== ENUMS ====================

type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusApproved   TaskStatus = "approved"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusComplete   TaskStatus = "complete"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNew, TaskStatusApproved, TaskStatusInProgress, TaskStatusComplete:
		return true
	}
	return false
}

type ModelStrategy string

const (
	ModelStrategyOpusPlanning ModelStrategy = "opus-planning"
	ModelStrategyOpusCoding   ModelStrategy = "opus-coding"
	ModelStrategySonnetCoding ModelStrategy = "sonnet-coding"
	ModelStrategyMixed        ModelStrategy = "mixed"
)

func (m ModelStrategy) Valid() bool {
	switch m {
	case ModelStrategyOpusPlanning, ModelStrategyOpusCoding, ModelStrategySonnetCoding, ModelStrategyMixed:
		return true
	}
	return false
}

// Assignee is an ownership tag with no access-control meaning.
// AssigneeNone stands for "unassigned" wherever an Assignee value is used
// as a patch or filter; on a stored Task the nil pointer carries that meaning.
type Assignee string

const (
	AssigneeNone  Assignee = ""
	AssigneeRufus Assignee = "rufus"
	AssigneeJames Assignee = "james"
)

func (a Assignee) Valid() bool {
	switch a {
	case AssigneeNone, AssigneeRufus, AssigneeJames:
		return true
	}
	return false
}

// ==================== ENTITIES ====================

type Task struct {
	ID                  string        `gorm:"primaryKey;size:36" json:"id"`
	Title               string        `gorm:"size:200;not null" json:"title"`
	Description         string        `gorm:"type:text;not null;default:''" json:"description"`
	ModelStrategy       ModelStrategy `gorm:"size:32;not null;default:'mixed'" json:"model_strategy"`
	EstimatedTokenCost  int64         `gorm:"not null;default:0" json:"estimated_token_cost"`
	EstimatedDollarCost float64       `gorm:"not null;default:0" json:"estimated_dollar_cost"`
	Status              TaskStatus    `gorm:"size:20;not null;default:'new';index" json:"status"`
	Assignee            *Assignee     `gorm:"size:20;index" json:"assignee"`
	Tags                TagNames      `gorm:"type:text;not null" json:"tags"`
	CreatedAt           time.Time     `gorm:"not null;index;autoCreateTime:false" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
	CompletedAt         *time.Time    `json:"completed_at"`
	UsageLog            UsageLog      `gorm:"column:llm_usage;type:text;not null" json:"llm_usage"`
}

func (Task) TableName() string {
	return "tasks"
}

// UsageEntry records one model invocation spent on a task.
type UsageEntry struct {
	Model     string    `json:"model"`
	TokensIn  int64     `json:"tokens_in"`
	TokensOut int64     `json:"tokens_out"`
	Cost      float64   `json:"cost"`
	Timestamp time.Time `json:"timestamp"`
}

// UsageSummary totals a task's usage log, overall and per model.
type UsageSummary struct {
	TaskID    string                `json:"task_id"`
	Entries   int                   `json:"entries"`
	TokensIn  int64                 `json:"tokens_in"`
	TokensOut int64                 `json:"tokens_out"`
	Cost      float64               `json:"cost"`
	ByModel   map[string]ModelUsage `json:"by_model"`
}

type ModelUsage struct {
	Entries   int     `json:"entries"`
	TokensIn  int64   `json:"tokens_in"`
	TokensOut int64   `json:"tokens_out"`
	Cost      float64 `json:"cost"`
}

// ==================== INPUTS ====================

// NewTaskSpec carries the caller-supplied fields of a task being created.
// Zero numeric fields mean "not supplied" and are stored as 0.
type NewTaskSpec struct {
	Title               string
	Description         string
	ModelStrategy       ModelStrategy
	EstimatedTokenCost  int64
	EstimatedDollarCost float64
	Assignee            *Assignee
	Tags                []string
}

// TaskPatch holds a partial update. A nil field is left untouched.
// Assignee pointing at AssigneeNone clears the assignee.
type TaskPatch struct {
	Title               *string
	Description         *string
	ModelStrategy       *ModelStrategy
	EstimatedTokenCost  *int64
	EstimatedDollarCost *float64
	Status              *TaskStatus
	Assignee            *Assignee
	Tags                *[]string
}

// TaskFilter narrows List. Nil fields do not filter; an Assignee pointing at
// AssigneeNone selects unassigned tasks.
type TaskFilter struct {
	Assignee *Assignee
	Tag      *string
	Status   *TaskStatus
}

// CompletionFor returns the completed_at value a task must carry after moving
// from prev to next. current is the stored value, now the write time.
func CompletionFor(prev, next TaskStatus, current *time.Time, now time.Time) *time.Time {
	if next != TaskStatusComplete {
		return nil
	}
	if prev == TaskStatusComplete && current != nil {
		return current
	}
	return &now
}
