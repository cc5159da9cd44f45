package core

import "btocore/pkg/domain"

type (
	// Rule aliases domain.Rule evaluated within a transaction boundary.
	Rule = domain.Rule
	// RulesEngine aliases the domain rules engine.
	RulesEngine = domain.RulesEngine
	// RuleView aliases the read-only view rules evaluate against.
	RuleView = domain.RuleView
)

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set:
// the flat inventory ledger bounds, the one-active-application invariant, and
// the officer assignment conflict rules.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewFlatInventoryRule())
	engine.Register(NewActiveApplicationRule())
	engine.Register(NewOfficerAssignmentRule())
	return engine
}
