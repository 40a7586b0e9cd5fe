package core

import "customerdesk/pkg/domain"

// MinimumAge is the youngest age accepted into the store.
const MinimumAge = 18

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds the candidate validator. Rules run in this
// order and the first failure decides the rejection reason.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewRequiredFieldsRule())
	engine.Register(NewMinimumAgeRule(MinimumAge))
	engine.Register(NewUniqueIDRule())
	return engine
}
