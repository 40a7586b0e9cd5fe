package core

import (
	"context"
	"fmt"

	"customerdesk/pkg/domain"
)

// NewUniqueIDRule rejects candidates whose id is already held by the store.
// Candidates accepted earlier in the same batch are already in the store, so
// the first occurrence of an id within a batch wins.
func NewUniqueIDRule() domain.Rule {
	return uniqueIDRule{}
}

type uniqueIDRule struct{}

func (uniqueIDRule) Name() string { return "unique_id" }

func (uniqueIDRule) Evaluate(_ context.Context, view domain.RuleView, c domain.Customer) (domain.Result, error) {
	if _, taken := view.FindCustomer(c.ID); !taken {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:       "unique_id",
		Code:       domain.CodeDuplicateID,
		Message:    fmt.Sprintf("Duplicate ID: %d", c.ID),
		CustomerID: c.ID,
	}}}, nil
}
