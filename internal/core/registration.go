package core

import (
	"btocore/pkg/domain"
	"time"
)

// validateRegistration admits or rejects an officer-to-project registration
// request against the conflict rules. All checks must pass:
//
//  1. the target project exists,
//  2. the officer is not already on the target roster,
//  3. the officer is not rostered on any other project whose application
//     window overlaps the target's (inclusive interval overlap),
//  4. the target roster has a free slot,
//  5. the current date lies inside the target's application window.
//
// On success the caller attaches the form to the project still pending;
// approval is a separate manager action.
func validateRegistration(view domain.RuleView, officer domain.Person, projectID string, now time.Time) (domain.Project, error) {
	target, ok := view.FindProject(projectID)
	if !ok {
		return domain.Project{}, &ConflictError{
			Kind:   domain.ProjectNotFound,
			Entity: EntityProject,
			ID:     projectID,
			Detail: "project does not exist",
		}
	}

	if target.HasOfficer(officer.ID) {
		return domain.Project{}, &ConflictError{
			Kind:   domain.AlreadyAssigned,
			Entity: EntityProject,
			ID:     target.ID,
			Detail: "officer " + officer.ID + " already on roster",
		}
	}

	for _, existing := range view.ListProjects() {
		if existing.ID == target.ID || !existing.HasOfficer(officer.ID) {
			continue
		}
		if existing.WindowOverlaps(target) {
			return domain.Project{}, &ConflictError{
				Kind:   domain.OverlappingAssignment,
				Entity: EntityProject,
				ID:     existing.ID,
				Detail: "officer " + officer.ID + " rostered on project with overlapping window",
			}
		}
	}

	if len(target.OfficerIDs) >= target.OfficerSlotCapacity {
		return domain.Project{}, &ConflictError{
			Kind:   domain.NoSlotsAvailable,
			Entity: EntityProject,
			ID:     target.ID,
			Detail: "no officer slots available",
		}
	}

	if !target.WindowContains(now) {
		return domain.Project{}, &ConflictError{
			Kind:   domain.WindowClosed,
			Entity: EntityProject,
			ID:     target.ID,
			Detail: "project is not accepting officer registrations",
		}
	}

	return target, nil
}
