package domain

import "context"

// RuleView provides read-only access to the accepted records for rule evaluation.
type RuleView interface {
	FindCustomer(id int) (Customer, bool)
}

// Rule inspects a single candidate against the current store contents.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView, candidate Customer) (Result, error)
}

// ViolationCode classifies why a candidate was rejected.
type ViolationCode string

const (
	// CodeInvalidData marks a candidate with a missing or blank field.
	CodeInvalidData ViolationCode = "invalid_data"
	// CodeUnderAge marks a candidate younger than the minimum age.
	CodeUnderAge ViolationCode = "under_age"
	// CodeDuplicateID marks a candidate whose id is already taken.
	CodeDuplicateID ViolationCode = "duplicate_id"
)

// Violation describes a rejected candidate. It doubles as the validation error
// reported for that candidate.
type Violation struct {
	Rule       string
	Code       ViolationCode
	Message    string
	CustomerID int
}

func (v Violation) Error() string { return v.Message }

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Accepted reports whether no rule objected.
func (r Result) Accepted() bool { return len(r.Violations) == 0 }

// First returns the first violation, if any.
func (r Result) First() (Violation, bool) {
	if len(r.Violations) == 0 {
		return Violation{}, false
	}
	return r.Violations[0], true
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine. Registration order is evaluation order.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in evaluation order.
func (e *RulesEngine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, rule := range e.rules {
		names = append(names, rule.Name())
	}
	return names
}

// Evaluate runs the registered rules in order and stops at the first rule that
// reports a violation; later rules are not consulted for that candidate.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView, candidate Customer) (Result, error) {
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view, candidate)
		if err != nil {
			return Result{}, err
		}
		if !res.Accepted() {
			return res, nil
		}
	}
	return Result{}, nil
}
