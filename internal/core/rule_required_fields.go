package core

import (
	"context"
	"fmt"
	"strings"

	"customerdesk/pkg/domain"
)

// NewRequiredFieldsRule rejects candidates with a blank name, a zero age or a zero id.
func NewRequiredFieldsRule() domain.Rule {
	return requiredFieldsRule{}
}

type requiredFieldsRule struct{}

func (requiredFieldsRule) Name() string { return "required_fields" }

func (requiredFieldsRule) Evaluate(_ context.Context, _ domain.RuleView, c domain.Customer) (domain.Result, error) {
	if strings.TrimSpace(c.FirstName) != "" &&
		strings.TrimSpace(c.LastName) != "" &&
		c.Age != 0 && c.ID != 0 {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:       "required_fields",
		Code:       domain.CodeInvalidData,
		Message:    fmt.Sprintf("Invalid data: %s", c),
		CustomerID: c.ID,
	}}}, nil
}
