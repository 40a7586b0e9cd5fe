package core

import (
	"context"
	"errors"
	"testing"

	"customerdesk/pkg/domain"
)

func evaluate(t *testing.T, store *RecordStore, c Customer) (Violation, bool) {
	t.Helper()
	res, err := NewDefaultRulesEngine().Evaluate(context.Background(), store, c)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return res.First()
}

func TestDefaultRulesAcceptValidCandidate(t *testing.T) {
	if v, rejected := evaluate(t, NewRecordStore(nil), Customer{FirstName: "Ann", LastName: "Smith", Age: 18, ID: 1}); rejected {
		t.Fatalf("unexpected rejection %+v", v)
	}
}

func TestDefaultRulesRejections(t *testing.T) {
	store := NewRecordStore([]Customer{{FirstName: "Ann", LastName: "Smith", Age: 30, ID: 1}})
	cases := []struct {
		name    string
		c       Customer
		code    domain.ViolationCode
		message string
	}{
		{
			name:    "blank first name",
			c:       Customer{FirstName: "  ", LastName: "Smith", Age: 30, ID: 5},
			code:    domain.CodeInvalidData,
			message: `Invalid data: {"firstName":"  ","lastName":"Smith","age":30,"id":5}`,
		},
		{
			name:    "empty last name",
			c:       Customer{FirstName: "Ann", Age: 30, ID: 5},
			code:    domain.CodeInvalidData,
			message: `Invalid data: {"firstName":"Ann","lastName":"","age":30,"id":5}`,
		},
		{
			name:    "zero age",
			c:       Customer{FirstName: "Ann", LastName: "Smith", ID: 5},
			code:    domain.CodeInvalidData,
			message: `Invalid data: {"firstName":"Ann","lastName":"Smith","age":0,"id":5}`,
		},
		{
			name:    "zero id",
			c:       Customer{FirstName: "Ann", LastName: "Smith", Age: 30},
			code:    domain.CodeInvalidData,
			message: `Invalid data: {"firstName":"Ann","lastName":"Smith","age":30,"id":0}`,
		},
		{
			name:    "under age",
			c:       Customer{FirstName: "Bob", LastName: "Adams", Age: 17, ID: 2},
			code:    domain.CodeUnderAge,
			message: "Customer under 18: Bob Adams",
		},
		{
			name:    "negative age",
			c:       Customer{FirstName: "Bob", LastName: "Adams", Age: -4, ID: 2},
			code:    domain.CodeUnderAge,
			message: "Customer under 18: Bob Adams",
		},
		{
			name:    "duplicate id",
			c:       Customer{FirstName: "Cid", LastName: "Smith", Age: 40, ID: 1},
			code:    domain.CodeDuplicateID,
			message: "Duplicate ID: 1",
		},
		{
			name:    "missing field wins over under age",
			c:       Customer{FirstName: "", LastName: "Adams", Age: 3, ID: 1},
			code:    domain.CodeInvalidData,
			message: `Invalid data: {"firstName":"","lastName":"Adams","age":3,"id":1}`,
		},
		{
			name:    "under age wins over duplicate",
			c:       Customer{FirstName: "Kid", LastName: "Smith", Age: 9, ID: 1},
			code:    domain.CodeUnderAge,
			message: "Customer under 18: Kid Smith",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, rejected := evaluate(t, store, tc.c)
			if !rejected {
				t.Fatalf("expected rejection")
			}
			if v.Code != tc.code || v.Message != tc.message {
				t.Fatalf("got %s %q, want %s %q", v.Code, v.Message, tc.code, tc.message)
			}
			if v.CustomerID != tc.c.ID {
				t.Fatalf("violation should carry candidate id")
			}
		})
	}
}

func TestDefaultRulesOrder(t *testing.T) {
	rules := NewDefaultRulesEngine().Rules()
	want := []string{"required_fields", "minimum_age", "unique_id"}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, name := range rules {
		if name != want[i] {
			t.Fatalf("rule %d: got %s want %s", i, name, want[i])
		}
	}
	if len(NewRulesEngine().Rules()) != 0 {
		t.Fatalf("NewRulesEngine must start empty")
	}
}

type failingRule struct{}

func (failingRule) Name() string { return "failing" }

func (failingRule) Evaluate(context.Context, domain.RuleView, domain.Customer) (domain.Result, error) {
	return domain.Result{}, errors.New("rule backend down")
}

func TestEngineSurfacesRuleErrors(t *testing.T) {
	engine := NewRulesEngine()
	engine.Register(failingRule{})
	if _, err := engine.Evaluate(context.Background(), NewRecordStore(nil), Customer{}); err == nil {
		t.Fatalf("expected rule error")
	}
}
