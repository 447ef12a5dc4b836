package domain

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
	MaxTagNameLength     = 64
)

func (s NewTaskSpec) Validate() error {
	var errs []string

	errs = append(errs, validateTitle(s.Title)...)
	errs = append(errs, validateDescription(s.Description)...)
	if s.ModelStrategy != "" && !s.ModelStrategy.Valid() {
		errs = append(errs, modelStrategyMessage(s.ModelStrategy))
	}
	errs = append(errs, validateCosts(s.EstimatedTokenCost, s.EstimatedDollarCost)...)
	if s.Assignee != nil && !s.Assignee.Valid() {
		errs = append(errs, assigneeMessage(*s.Assignee))
	}
	errs = append(errs, ValidateTagNames(s.Tags)...)

	return newValidationError(errs)
}

func (p TaskPatch) Validate() error {
	var errs []string

	if p.Title != nil {
		errs = append(errs, validateTitle(*p.Title)...)
	}
	if p.Description != nil {
		errs = append(errs, validateDescription(*p.Description)...)
	}
	if p.ModelStrategy != nil && !p.ModelStrategy.Valid() {
		errs = append(errs, modelStrategyMessage(*p.ModelStrategy))
	}
	if p.EstimatedTokenCost != nil && *p.EstimatedTokenCost < 0 {
		errs = append(errs, "estimated_token_cost must be non-negative")
	}
	if p.EstimatedDollarCost != nil {
		errs = append(errs, validateDollars(*p.EstimatedDollarCost)...)
	}
	if p.Status != nil && !p.Status.Valid() {
		errs = append(errs, StatusMessage(*p.Status))
	}
	if p.Assignee != nil && !p.Assignee.Valid() {
		errs = append(errs, assigneeMessage(*p.Assignee))
	}
	if p.Tags != nil {
		errs = append(errs, ValidateTagNames(*p.Tags)...)
	}

	return newValidationError(errs)
}

func (f TaskFilter) Validate() error {
	var errs []string
	if f.Assignee != nil && !f.Assignee.Valid() {
		errs = append(errs, assigneeMessage(*f.Assignee))
	}
	if f.Status != nil && !f.Status.Valid() {
		errs = append(errs, StatusMessage(*f.Status))
	}
	return newValidationError(errs)
}

func (e UsageEntry) Validate() error {
	var errs []string
	if strings.TrimSpace(e.Model) == "" {
		errs = append(errs, "model is required")
	}
	if e.TokensIn < 0 || e.TokensOut < 0 {
		errs = append(errs, "token counts must be non-negative")
	}
	if e.Cost < 0 || math.IsNaN(e.Cost) || math.IsInf(e.Cost, 0) {
		errs = append(errs, "cost must be a non-negative number")
	}
	return newValidationError(errs)
}

// ValidateStatus is the check applied to a board move.
func ValidateStatus(s TaskStatus) error {
	if !s.Valid() {
		return newValidationError([]string{StatusMessage(s)})
	}
	return nil
}

func ValidateTagNames(names []string) []string {
	var errs []string
	for _, n := range names {
		norm := NormalizeTagName(n)
		if norm == "" {
			errs = append(errs, "tag names must not be blank")
			continue
		}
		if utf8.RuneCountInString(norm) > MaxTagNameLength {
			errs = append(errs, fmt.Sprintf("tag %q exceeds %d characters", norm, MaxTagNameLength))
		}
	}
	return errs
}

func StatusMessage(s TaskStatus) string {
	return fmt.Sprintf("status %q must be one of: new, approved, in-progress, complete", s)
}

func validateTitle(title string) []string {
	if strings.TrimSpace(title) == "" {
		return []string{"title is required"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return []string{fmt.Sprintf("title exceeds %d characters", MaxTitleLength)}
	}
	return nil
}

func validateDescription(desc string) []string {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return []string{fmt.Sprintf("description exceeds %d characters", MaxDescriptionLength)}
	}
	return nil
}

func validateCosts(tokens int64, dollars float64) []string {
	var errs []string
	if tokens < 0 {
		errs = append(errs, "estimated_token_cost must be non-negative")
	}
	return append(errs, validateDollars(dollars)...)
}

func validateDollars(dollars float64) []string {
	if dollars < 0 || math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return []string{"estimated_dollar_cost must be a non-negative number"}
	}
	return nil
}

func modelStrategyMessage(m ModelStrategy) string {
	return fmt.Sprintf("model_strategy %q must be one of: opus-planning, opus-coding, sonnet-coding, mixed", m)
}

func assigneeMessage(a Assignee) string {
	return fmt.Sprintf("assignee %q must be one of: rufus, james, or null", a)
}
