package core

import "btocore/pkg/domain"

type (
	EntityType         = domain.EntityType
	FlatType           = domain.FlatType
	ApplicationStatus  = domain.ApplicationStatus
	BookingStatus      = domain.BookingStatus
	WithdrawalStatus   = domain.WithdrawalStatus
	RegistrationStatus = domain.RegistrationStatus
	MaritalStatus      = domain.MaritalStatus
	Decision           = domain.Decision
	Capability         = domain.Capability
	Severity           = domain.Severity
	Base               = domain.Base
	Person             = domain.Person
	Project            = domain.Project
	Application        = domain.Application
	RegistrationForm   = domain.RegistrationForm
	Enquiry            = domain.Enquiry
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	ConflictKind       = domain.ConflictKind
	ConflictError      = domain.ConflictError
)

const (
	EntityPerson           = domain.EntityPerson
	EntityProject          = domain.EntityProject
	EntityApplication      = domain.EntityApplication
	EntityRegistrationForm = domain.EntityRegistrationForm
	EntityEnquiry          = domain.EntityEnquiry
)

const (
	FlatTwoRoom   = domain.FlatTwoRoom
	FlatThreeRoom = domain.FlatThreeRoom
)

const (
	ApplicationPending      = domain.ApplicationPending
	ApplicationSuccessful   = domain.ApplicationSuccessful
	ApplicationUnsuccessful = domain.ApplicationUnsuccessful
	ApplicationRejected     = domain.ApplicationRejected
)

const (
	BookingNotBooked = domain.BookingNotBooked
	BookingPending   = domain.BookingPending
	BookingBooked    = domain.BookingBooked
)

const (
	WithdrawalNotRequested = domain.WithdrawalNotRequested
	WithdrawalPending      = domain.WithdrawalPending
	WithdrawalApproved     = domain.WithdrawalApproved
	WithdrawalRejected     = domain.WithdrawalRejected
)

const (
	RegistrationPending  = domain.RegistrationPending
	RegistrationApproved = domain.RegistrationApproved
	RegistrationRejected = domain.RegistrationRejected
)

const (
	Single  = domain.Single
	Married = domain.Married
)

const (
	DecisionApprove = domain.DecisionApprove
	DecisionReject  = domain.DecisionReject
)

const (
	CanApply      = domain.CanApply
	CanAdminister = domain.CanAdminister
	CanManage     = domain.CanManage
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
