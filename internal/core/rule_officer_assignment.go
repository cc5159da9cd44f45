package core

import (
	"btocore/pkg/domain"
	"context"
	"fmt"
)

// NewOfficerAssignmentRule returns the in-transaction rule enforcing officer
// roster constraints at commit time: no roster exceeds its slot capacity, and
// no officer is rostered on two projects whose application windows overlap.
// The registration validator checks the same conditions at request time; this
// rule re-verifies them so slots filling between request and approval, or
// concurrent approvals, cannot slip through.
func NewOfficerAssignmentRule() domain.Rule {
	return officerAssignmentRule{}
}

type officerAssignmentRule struct{}

func (officerAssignmentRule) Name() string { return "officer_assignment" }

func (officerAssignmentRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	projects := view.ListProjects()

	for _, project := range projects {
		if len(project.OfficerIDs) > project.OfficerSlotCapacity {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "officer_assignment",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("project %s (%s) roster over capacity: %d/%d officers", project.Name, project.ID, len(project.OfficerIDs), project.OfficerSlotCapacity),
				Entity:   domain.EntityProject,
				EntityID: project.ID,
			})
		}
	}

	for i, first := range projects {
		for _, second := range projects[i+1:] {
			if !first.WindowOverlaps(second) {
				continue
			}
			for _, officerID := range first.OfficerIDs {
				if !second.HasOfficer(officerID) {
					continue
				}
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "officer_assignment",
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("officer %s rostered on projects %s and %s with overlapping windows", officerID, first.ID, second.ID),
					Entity:   domain.EntityPerson,
					EntityID: officerID,
				})
			}
		}
	}
	return res, nil
}
