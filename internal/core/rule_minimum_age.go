package core

import (
	"context"
	"fmt"

	"customerdesk/pkg/domain"
)

// NewMinimumAgeRule rejects candidates younger than minAge.
func NewMinimumAgeRule(minAge int) domain.Rule {
	return minimumAgeRule{min: minAge}
}

type minimumAgeRule struct{ min int }

func (minimumAgeRule) Name() string { return "minimum_age" }

func (r minimumAgeRule) Evaluate(_ context.Context, _ domain.RuleView, c domain.Customer) (domain.Result, error) {
	if c.Age >= r.min {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:       "minimum_age",
		Code:       domain.CodeUnderAge,
		Message:    fmt.Sprintf("Customer under %d: %s", r.min, c.FullName()),
		CustomerID: c.ID,
	}}}, nil
}
