package domain

import (
	"errors"
	"fmt"
)

// ConflictKind classifies why an allocation or registration operation was
// refused. Every kind is surfaced to the immediate caller; none terminates
// the host process.
type ConflictKind string

// Conflict kinds returned by engine operations.
const (
	// NotEligible means the applicant may not see or apply to the project.
	NotEligible ConflictKind = "not_eligible"
	// DuplicateActiveApplication means the applicant already holds an active application.
	DuplicateActiveApplication ConflictKind = "duplicate_active_application"
	// NoActiveCapacity means the requested flat type had no remaining units at apply time.
	NoActiveCapacity ConflictKind = "no_active_capacity"
	// NoRemainingUnits means inventory was exhausted at booking time.
	NoRemainingUnits ConflictKind = "no_remaining_units"
	// InvalidTransition means the operation was attempted from the wrong state.
	InvalidTransition ConflictKind = "invalid_transition"
	// AlreadyRequested means a withdrawal request is already pending.
	AlreadyRequested ConflictKind = "already_requested"
	// ProjectNotFound means the target project does not exist.
	ProjectNotFound ConflictKind = "project_not_found"
	// ApplicationNotFound means the target application does not exist.
	ApplicationNotFound ConflictKind = "application_not_found"
	// FormNotFound means the target registration form does not exist.
	FormNotFound ConflictKind = "form_not_found"
	// EnquiryNotFound means the target enquiry does not exist.
	EnquiryNotFound ConflictKind = "enquiry_not_found"
	// ActorNotFound means the referenced person does not exist or lacks the capability.
	ActorNotFound ConflictKind = "actor_not_found"
	// AlreadyAssigned means the officer is already on the target project's roster.
	AlreadyAssigned ConflictKind = "already_assigned"
	// OverlappingAssignment means the officer is rostered on a project whose window overlaps.
	OverlappingAssignment ConflictKind = "overlapping_assignment"
	// NoSlotsAvailable means the target project's officer roster is full.
	NoSlotsAvailable ConflictKind = "no_slots_available"
	// WindowClosed means the current date lies outside the application window.
	WindowClosed ConflictKind = "window_closed"
	// InvalidProject means project creation or update parameters failed validation.
	InvalidProject ConflictKind = "invalid_project"
	// ConcurrentConflict means lock acquisition timed out; the whole operation
	// may be retried. This is the only retryable kind.
	ConcurrentConflict ConflictKind = "concurrent_conflict"
)

// ConflictError carries a conflict kind together with the offending entity so
// callers can render a user-facing message.
type ConflictError struct {
	Kind   ConflictKind
	Entity EntityType
	ID     string
	Detail string
}

func (e *ConflictError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Entity, e.ID, e.Detail)
}

// IsKind reports whether err is (or wraps) a ConflictError of the given kind.
func IsKind(err error, kind ConflictKind) bool {
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		return false
	}
	return conflict.Kind == kind
}

// Retryable reports whether the error indicates transient contention and the
// caller should retry the whole operation.
func Retryable(err error) bool {
	return IsKind(err, ConcurrentConflict)
}
