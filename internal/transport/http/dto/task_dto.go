package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
)

// Response is the envelope every /api/v1 endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details []string    `json:"details,omitempty"`
}

func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func Fail(msg string, details ...string) Response {
	return Response{Success: false, Error: msg, Details: details}
}

// NullableAssignee tells an absent "assignee" key apart from an explicit null.
type NullableAssignee struct {
	Set   bool
	Value *string
}

func (n *NullableAssignee) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// Assignee maps null to domain.AssigneeNone. It returns nil when the key
// was absent.
func (n NullableAssignee) Assignee() *domain.Assignee {
	if !n.Set {
		return nil
	}
	a := domain.AssigneeNone
	if n.Value != nil {
		a = domain.Assignee(*n.Value)
	}
	return &a
}

type CreateTaskRequest struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	ModelStrategy       string   `json:"model_strategy"`
	EstimatedTokenCost  *int64   `json:"estimated_token_cost"`
	EstimatedDollarCost *float64 `json:"estimated_dollar_cost"`
	Assignee            *string  `json:"assignee"`
	Tags                []string `json:"tags"`
}

func (r *CreateTaskRequest) ToInput() ports.CreateTaskInput {
	input := ports.CreateTaskInput{
		Title:               r.Title,
		Description:         r.Description,
		ModelStrategy:       domain.ModelStrategy(r.ModelStrategy),
		EstimatedTokenCost:  r.EstimatedTokenCost,
		EstimatedDollarCost: r.EstimatedDollarCost,
		Tags:                r.Tags,
	}
	if r.Assignee != nil {
		a := domain.Assignee(*r.Assignee)
		input.Assignee = &a
	}
	return input
}

type UpdateTaskRequest struct {
	Title               *string          `json:"title"`
	Description         *string          `json:"description"`
	ModelStrategy       *string          `json:"model_strategy"`
	EstimatedTokenCost  *int64           `json:"estimated_token_cost"`
	EstimatedDollarCost *float64         `json:"estimated_dollar_cost"`
	Status              *string          `json:"status"`
	Assignee            NullableAssignee `json:"assignee"`
	Tags                *[]string        `json:"tags"`
}

func (r *UpdateTaskRequest) ToPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:               r.Title,
		Description:         r.Description,
		EstimatedTokenCost:  r.EstimatedTokenCost,
		EstimatedDollarCost: r.EstimatedDollarCost,
		Assignee:            r.Assignee.Assignee(),
		Tags:                r.Tags,
	}
	if r.ModelStrategy != nil {
		m := domain.ModelStrategy(*r.ModelStrategy)
		patch.ModelStrategy = &m
	}
	if r.Status != nil {
		s := domain.TaskStatus(*r.Status)
		patch.Status = &s
	}
	return patch
}

type MoveTaskRequest struct {
	Status string `json:"status"`
}

type RecordUsageRequest struct {
	Model     string     `json:"model"`
	TokensIn  int64      `json:"tokens_in"`
	TokensOut int64      `json:"tokens_out"`
	Cost      float64    `json:"cost"`
	Timestamp *time.Time `json:"timestamp"`
}

func (r *RecordUsageRequest) ToEntry() domain.UsageEntry {
	entry := domain.UsageEntry{
		Model:     r.Model,
		TokensIn:  r.TokensIn,
		TokensOut: r.TokensOut,
		Cost:      r.Cost,
	}
	if r.Timestamp != nil {
		entry.Timestamp = r.Timestamp.UTC()
	}
	return entry
}
