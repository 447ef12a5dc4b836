package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskboard/backend/internal/domain"
)

func TestAggregateEmptyLog(t *testing.T) {
	summary := NewUsageAggregator().Aggregate(&domain.Task{ID: "t", UsageLog: domain.UsageLog{}})
	assert.Equal(t, "t", summary.TaskID)
	assert.Zero(t, summary.Entries)
	assert.NotNil(t, summary.ByModel)
}

func TestAggregateGroupsByModel(t *testing.T) {
	task := &domain.Task{UsageLog: domain.UsageLog{
		{Model: "opus", TokensIn: 10, TokensOut: 5, Cost: 0.25},
		{Model: "sonnet", TokensIn: 3, TokensOut: 4, Cost: 0.05},
		{Model: "opus", TokensIn: 1, TokensOut: 1, Cost: 0.25},
	}}

	summary := NewUsageAggregator().Aggregate(task)
	assert.Equal(t, 3, summary.Entries)
	assert.Equal(t, int64(14), summary.TokensIn)
	assert.Equal(t, int64(10), summary.TokensOut)
	assert.InDelta(t, 0.55, summary.Cost, 1e-9)
	assert.Equal(t, domain.ModelUsage{Entries: 2, TokensIn: 11, TokensOut: 6, Cost: 0.5}, summary.ByModel["opus"])
}
