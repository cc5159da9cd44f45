package core

import (
	"btocore/pkg/domain"
	"context"
	"fmt"
)

// NewFlatInventoryRule returns the in-transaction rule enforcing the
// inventory ledger bounds: for every project and flat type the remaining
// count stays within [0, capacity]. Capacity itself is fixed at creation.
func NewFlatInventoryRule() domain.Rule {
	return flatInventoryRule{}
}

type flatInventoryRule struct{}

func (flatInventoryRule) Name() string { return "flat_inventory" }

func (flatInventoryRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, project := range view.ListProjects() {
		for flatType, remaining := range project.Remaining {
			capacity := project.Capacity[flatType]
			if remaining < 0 {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "flat_inventory",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("project %s (%s) has negative %s inventory: %d", project.Name, project.ID, flatType, remaining),
					Entity:   domain.EntityProject,
					EntityID: project.ID,
				})
			}
			if remaining > capacity {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "flat_inventory",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("project %s (%s) %s inventory over capacity: %d/%d", project.Name, project.ID, flatType, remaining, capacity),
					Entity:   domain.EntityProject,
					EntityID: project.ID,
				})
			}
		}
	}

	for _, change := range changes {
		if change.Entity != domain.EntityProject || change.Action != domain.ActionUpdate {
			continue
		}
		before, beforeOK := change.Before.(domain.Project)
		after, afterOK := change.After.(domain.Project)
		if !beforeOK || !afterOK {
			continue
		}
		for flatType, capacity := range after.Capacity {
			if before.Capacity[flatType] != capacity {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "flat_inventory",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("project %s (%s) %s capacity is immutable after creation", after.Name, after.ID, flatType),
					Entity:   domain.EntityProject,
					EntityID: after.ID,
				})
			}
		}
	}
	return res, nil
}
