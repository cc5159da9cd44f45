package core

import (
	"btocore/pkg/domain"
	"time"
)

// Eligible reports whether the applicant may view or apply to the project.
// It is a pure predicate evaluated fresh on every query; window checks depend
// on the wall clock, so results are never cached.
//
// Rules, in precedence order:
//
//  1. An applicant with any existing application against the project always
//     sees it, regardless of the later filters.
//  2. An officer rostered on the project may not apply to it.
//  3. Hidden projects are not eligible.
//  4. The current date must lie inside the application window, bounds
//     inclusive.
//  5. Demographic gate: applicants aged 35 and over qualify only when the
//     project was created with two-room capacity (total capacity, not the
//     remaining ledger); applicants aged 21 to 34 qualify only when married;
//     applicants under 21 never qualify.
func Eligible(applicant domain.Person, project domain.Project, hasApplied bool, now time.Time) bool {
	if hasApplied {
		return true
	}
	if project.HasOfficer(applicant.ID) {
		return false
	}
	if !project.Visibility {
		return false
	}
	if !project.WindowContains(now) {
		return false
	}
	switch {
	case applicant.Age >= 35:
		return project.Capacity[domain.FlatTwoRoom] > 0
	case applicant.Age >= 21:
		// Singles qualify only from age 35.
		return applicant.MaritalStatus == domain.Married
	default:
		return false
	}
}

// FlatTypeAllowed reports whether the applicant's demographics permit
// applying for the given flat type. Applicants aged 35 and over are limited
// to two-room flats; the 21 to 34 married band may apply for any type.
func FlatTypeAllowed(applicant domain.Person, flatType domain.FlatType) bool {
	if applicant.Age >= 35 {
		return flatType == domain.FlatTwoRoom
	}
	return true
}

// hasAppliedTo reports whether the applicant has any application, in any
// status, against the project.
func hasAppliedTo(view domain.RuleView, applicantID, projectID string) bool {
	for _, application := range view.ListApplications() {
		if application.ApplicantID == applicantID && application.ProjectID == projectID {
			return true
		}
	}
	return false
}
