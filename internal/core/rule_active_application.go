package core

import (
	"btocore/pkg/domain"
	"context"
	"fmt"
)

// NewActiveApplicationRule returns the in-transaction rule enforcing that an
// applicant holds at most one active application across all projects. An
// application is active while its status is pending or successful, or while
// its booking is pending or booked.
func NewActiveApplicationRule() domain.Rule {
	return activeApplicationRule{}
}

type activeApplicationRule struct{}

func (activeApplicationRule) Name() string { return "active_application" }

func (activeApplicationRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	active := make(map[string]int)
	for _, application := range view.ListApplications() {
		if application.Active() {
			active[application.ApplicantID]++
		}
	}

	res := domain.Result{}
	for applicantID, count := range active {
		if count <= 1 {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "active_application",
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("applicant %s holds %d active applications", applicantID, count),
			Entity:   domain.EntityPerson,
			EntityID: applicantID,
		})
	}
	return res, nil
}
