// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by btocore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityPerson identifies a person record (applicant, officer, or manager).
	EntityPerson EntityType = "person"
	// EntityProject identifies a housing project record.
	EntityProject EntityType = "project"
	// EntityApplication identifies an application record.
	EntityApplication EntityType = "application"
	// EntityRegistrationForm identifies an officer registration form record.
	EntityRegistrationForm EntityType = "registration_form"
	// EntityEnquiry identifies an enquiry record.
	EntityEnquiry EntityType = "enquiry"
)

// FlatType categorises a dwelling unit with independent capacity and price.
type FlatType string

// Flat types offered by projects. The set is extensible; all per-project
// flat maps key on these values.
const (
	FlatTwoRoom   FlatType = "two_room"
	FlatThreeRoom FlatType = "three_room"
)

// ApplicationStatus tracks the manager-decided axis of an application.
type ApplicationStatus string

// Canonical application statuses. Rejected and Unsuccessful are terminal.
const (
	ApplicationPending      ApplicationStatus = "pending"
	ApplicationSuccessful   ApplicationStatus = "successful"
	ApplicationUnsuccessful ApplicationStatus = "unsuccessful"
	ApplicationRejected     ApplicationStatus = "rejected"
)

// BookingStatus tracks the officer-driven booking axis of an application.
type BookingStatus string

// Canonical booking statuses. Booked is terminal unless a withdrawal reclaims it.
const (
	BookingNotBooked BookingStatus = "not_booked"
	BookingPending   BookingStatus = "pending"
	BookingBooked    BookingStatus = "booked"
)

// WithdrawalStatus tracks the applicant-initiated withdrawal overlay.
type WithdrawalStatus string

// Canonical withdrawal request statuses.
const (
	WithdrawalNotRequested WithdrawalStatus = "not_requested"
	WithdrawalPending      WithdrawalStatus = "pending"
	WithdrawalApproved     WithdrawalStatus = "approved"
	WithdrawalRejected     WithdrawalStatus = "rejected"
)

// RegistrationStatus tracks the lifecycle of an officer registration form.
type RegistrationStatus string

// Canonical registration statuses.
const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// MaritalStatus is used by the demographic eligibility gate.
type MaritalStatus string

// Recognised marital statuses.
const (
	Single  MaritalStatus = "single"
	Married MaritalStatus = "married"
)

// Decision is a manager verdict on an application, withdrawal, or registration.
type Decision string

// Manager decisions.
const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Capability names a role-specific behaviour a person is allowed to perform.
// Roles are modelled as a capability set on a single person record rather
// than as distinct user subtypes.
type Capability string

// Role capabilities.
const (
	CanApply      Capability = "can_apply"
	CanAdminister Capability = "can_administer"
	CanManage     Capability = "can_manage"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Person is the identity shared by every actor in the system. Applicant,
// officer, and manager behaviour hangs off the capability set, not off
// subtyping.
type Person struct {
	Base
	Name          string        `json:"name"`
	NRIC          string        `json:"nric"`
	Age           int           `json:"age"`
	MaritalStatus MaritalStatus `json:"marital_status"`
	Capabilities  []Capability  `json:"capabilities"`
}

// Can reports whether the person holds the given capability.
func (p Person) Can(capability Capability) bool {
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Project is a housing project open for application. Prices and Capacity are
// fixed at creation; Remaining is the mutable inventory ledger and is only
// touched by ReserveUnit and ReleaseUnit. Applications, registration forms,
// and enquiries are owned by exactly one project and reference it by id.
type Project struct {
	Base
	Name                string               `json:"name"`
	Neighbourhood       string               `json:"neighbourhood"`
	ManagerID           string               `json:"manager_id"`
	Prices              map[FlatType]float64 `json:"prices"`
	Capacity            map[FlatType]int     `json:"capacity"`
	Remaining           map[FlatType]int     `json:"remaining"`
	OfficerIDs          []string             `json:"officer_ids"`
	OfficerSlotCapacity int                  `json:"officer_slot_capacity"`
	Visibility          bool                 `json:"visibility"`
	OpenDate            time.Time            `json:"open_date"`
	CloseDate           time.Time            `json:"close_date"`
}

// WindowContains reports whether the instant falls inside the project's
// application window, both bounds inclusive.
func (p Project) WindowContains(at time.Time) bool {
	return !at.Before(p.OpenDate) && !at.After(p.CloseDate)
}

// WindowOverlaps reports whether two projects have inclusively overlapping
// application windows.
func (p Project) WindowOverlaps(other Project) bool {
	return !p.CloseDate.Before(other.OpenDate) && !p.OpenDate.After(other.CloseDate)
}

// HasOfficer reports whether the person id is on the project's roster.
func (p Project) HasOfficer(personID string) bool {
	for _, id := range p.OfficerIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// ReserveUnit decrements the remaining count for the flat type by exactly
// one. It is the only mutator that commits stock.
func (p *Project) ReserveUnit(flatType FlatType) error {
	if p.Remaining[flatType] <= 0 {
		return &ConflictError{
			Kind:   NoRemainingUnits,
			Entity: EntityProject,
			ID:     p.ID,
			Detail: "no remaining " + string(flatType) + " units",
		}
	}
	p.Remaining[flatType]--
	return nil
}

// ReleaseUnit returns one unit of the flat type to the ledger after a booked
// unit is reclaimed. The ledger never exceeds the fixed capacity.
func (p *Project) ReleaseUnit(flatType FlatType) error {
	if p.Remaining[flatType] >= p.Capacity[flatType] {
		return &ConflictError{
			Kind:   InvalidTransition,
			Entity: EntityProject,
			ID:     p.ID,
			Detail: "release would exceed " + string(flatType) + " capacity",
		}
	}
	p.Remaining[flatType]++
	return nil
}

// Application is an applicant's request for a flat in a project. ProjectName
// is a snapshot taken at creation and intentionally not live-updated.
// Applications are created only through the apply operation and are never
// deleted, only transitioned.
type Application struct {
	Base
	ApplicantID   string            `json:"applicant_id"`
	ApplicantName string            `json:"applicant_name"`
	ApplicantNRIC string            `json:"applicant_nric"`
	ProjectID     string            `json:"project_id"`
	ProjectName   string            `json:"project_name"`
	FlatType      FlatType          `json:"flat_type"`
	DateApplied   time.Time         `json:"date_applied"`
	Status        ApplicationStatus `json:"status"`
	Booking       BookingStatus     `json:"booking"`
	Withdrawal    WithdrawalStatus  `json:"withdrawal"`
}

// Active reports whether the application still counts against the
// one-active-application-per-applicant invariant.
func (a Application) Active() bool {
	if a.Status == ApplicationPending || a.Status == ApplicationSuccessful {
		return true
	}
	return a.Booking == BookingPending || a.Booking == BookingBooked
}

// RegistrationForm is an officer's request to administer a project. Forms
// are never deleted; approval and rejection only transition the status.
type RegistrationForm struct {
	Base
	OfficerID   string             `json:"officer_id"`
	OfficerName string             `json:"officer_name"`
	ProjectID   string             `json:"project_id"`
	ProjectName string             `json:"project_name"`
	DateApplied time.Time          `json:"date_applied"`
	Status      RegistrationStatus `json:"status"`
}

// Pending reports whether the form awaits a manager decision.
func (f RegistrationForm) Pending() bool { return f.Status == RegistrationPending }

// Enquiry is an applicant question against a project, answered at most once
// by a staff member.
type Enquiry struct {
	Base
	ProjectID     string     `json:"project_id"`
	ProjectName   string     `json:"project_name"`
	ApplicantID   string     `json:"applicant_id"`
	ApplicantName string     `json:"applicant_name"`
	Question      string     `json:"question"`
	Reply         string     `json:"reply,omitempty"`
	RespondentID  string     `json:"respondent_id,omitempty"`
	DateEnquired  time.Time  `json:"date_enquired"`
	DateReplied   *time.Time `json:"date_replied,omitempty"`
}

// Answered reports whether the enquiry already carries a reply.
func (e Enquiry) Answered() bool { return e.Reply != "" }

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
