package services

import "github.com/taskboard/backend/internal/domain"

// UsageAggregator folds a task's usage log into totals.
type UsageAggregator struct{}

func NewUsageAggregator() *UsageAggregator {
	return &UsageAggregator{}
}

func (u *UsageAggregator) Aggregate(task *domain.Task) domain.UsageSummary {
	summary := domain.UsageSummary{
		TaskID:  task.ID,
		ByModel: make(map[string]domain.ModelUsage),
	}
	for _, e := range task.UsageLog {
		summary.Entries++
		summary.TokensIn += e.TokensIn
		summary.TokensOut += e.TokensOut
		summary.Cost += e.Cost

		m := summary.ByModel[e.Model]
		m.Entries++
		m.TokensIn += e.TokensIn
		m.TokensOut += e.TokensOut
		m.Cost += e.Cost
		summary.ByModel[e.Model] = m
	}
	return summary
}
