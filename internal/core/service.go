// Package core implements the allocation and registration workflow engine:
// eligibility evaluation, the application state machine, officer registration
// validation, and flat inventory accounting, orchestrated over a
// transactional store.
package core

import (
	"btocore/internal/blob"
	"btocore/internal/infra/persistence/memory"
	"btocore/pkg/domain"
	"context"
	"time"
)

type (
	// Transaction aliases domain.Transaction.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore.
	PersistentStore = domain.PersistentStore
)

// Service exposes the allocation and registration operations. Collaborators
// are injected at construction; the service keeps no ambient global state.
type Service struct {
	store    PersistentStore
	logger   Logger
	clock    Clock
	metrics  MetricsRecorder
	tracer   Tracer
	audit    AuditRecorder
	receipts blob.Store
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: noopLogger{},
		clock:  ClockFunc(func() time.Time { return time.Now().UTC() }),
	}
	for _, opt := range opts {
		opt(s)
	}
	if mem, ok := store.(*memory.Store); ok {
		mem.SetNowFunc(s.clock.Now)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given
// rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// begin starts instrumentation for one operation. The returned finish func
// records metrics, tracing, audit, and logging for the outcome.
func (s *Service) begin(ctx context.Context, operation string) (context.Context, func(entity EntityType, entityID string, err error)) {
	started := time.Now()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation)
	}
	return ctx, func(entity EntityType, entityID string, err error) {
		duration := time.Since(started)
		if span != nil {
			span.End(err)
		}
		if s.metrics != nil {
			s.metrics.Observe(ctx, operation, err == nil, duration)
		}
		if s.audit != nil {
			entry := AuditEntry{
				Operation: operation,
				Entity:    entity,
				EntityID:  entityID,
				Status:    AuditStatusSuccess,
				At:        s.clock.Now(),
			}
			if err != nil {
				entry.Status = AuditStatusError
				entry.Detail = err.Error()
			}
			s.audit.Record(ctx, entry)
		}
		if err != nil {
			s.logger.Warn("operation failed", "operation", operation, "entity_id", entityID, "error", err)
		} else {
			s.logger.Debug("operation completed", "operation", operation, "entity_id", entityID)
		}
	}
}

// RegisterPerson stores a new actor identity with its capability set.
func (s *Service) RegisterPerson(ctx context.Context, person Person) (Person, Result, error) {
	ctx, finish := s.begin(ctx, "register_person")
	var created Person
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		var err error
		created, err = tx.CreatePerson(person)
		return err
	})
	finish(EntityPerson, created.ID, err)
	return created, res, err
}

// IsEligible reports whether the applicant may see or apply to the project.
// Evaluated fresh on every call; never cached.
func (s *Service) IsEligible(ctx context.Context, applicantID, projectID string) (bool, error) {
	var eligible bool
	err := s.store.View(ctx, func(view TransactionView) error {
		applicant, ok := view.FindPerson(applicantID)
		if !ok {
			return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityPerson, ID: applicantID, Detail: "applicant not found"}
		}
		project, ok := view.FindProject(projectID)
		if !ok {
			return &ConflictError{Kind: domain.ProjectNotFound, Entity: EntityProject, ID: projectID, Detail: "project not found"}
		}
		eligible = Eligible(applicant, project, hasAppliedTo(view, applicantID, projectID), s.clock.Now())
		return nil
	})
	return eligible, err
}

// EligibleProjects lists the projects the applicant may currently see.
func (s *Service) EligibleProjects(ctx context.Context, applicantID string) ([]Project, error) {
	var out []Project
	err := s.store.View(ctx, func(view TransactionView) error {
		applicant, ok := view.FindPerson(applicantID)
		if !ok {
			return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityPerson, ID: applicantID, Detail: "applicant not found"}
		}
		now := s.clock.Now()
		for _, project := range view.ListProjects() {
			if Eligible(applicant, project, hasAppliedTo(view, applicantID, project.ID), now) {
				out = append(out, project)
			}
		}
		return nil
	})
	return out, err
}

// ApplyForProject creates a pending application for the applicant. Apply is a
// reservation of intent, not of stock: it refuses when the ledger shows no
// remaining units but never decrements inventory; only booking commits
// stock.
func (s *Service) ApplyForProject(ctx context.Context, applicantID, projectID string, flatType FlatType) (Application, Result, error) {
	ctx, finish := s.begin(ctx, "apply_for_project")
	var created Application
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		applicant, ok := tx.FindPerson(applicantID)
		if !ok || !applicant.Can(CanApply) {
			return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityPerson, ID: applicantID, Detail: "no applicant with this id"}
		}
		project, ok := tx.FindProject(projectID)
		if !ok {
			return &ConflictError{Kind: domain.ProjectNotFound, Entity: EntityProject, ID: projectID, Detail: "project not found"}
		}

		now := s.clock.Now()
		existing := tx.ListApplicationsByApplicant(applicantID)
		hasApplied := false
		for _, a := range existing {
			if a.ProjectID == projectID {
				hasApplied = true
			}
			if a.Active() {
				return &ConflictError{Kind: domain.DuplicateActiveApplication, Entity: EntityApplication, ID: a.ID, Detail: "applicant already holds an active application"}
			}
		}
		if !Eligible(applicant, project, hasApplied, now) {
			return &ConflictError{Kind: domain.NotEligible, Entity: EntityProject, ID: projectID, Detail: "applicant not eligible for project"}
		}
		if !FlatTypeAllowed(applicant, flatType) {
			return &ConflictError{Kind: domain.NotEligible, Entity: EntityProject, ID: projectID, Detail: "applicant not eligible for " + string(flatType) + " flats"}
		}
		if project.Remaining[flatType] <= 0 {
			return &ConflictError{Kind: domain.NoActiveCapacity, Entity: EntityProject, ID: projectID, Detail: "no remaining " + string(flatType) + " units at apply time"}
		}

		var err error
		created, err = tx.CreateApplication(Application{
			ApplicantID:   applicant.ID,
			ApplicantName: applicant.Name,
			ApplicantNRIC: applicant.NRIC,
			ProjectID:     project.ID,
			ProjectName:   project.Name,
			FlatType:      flatType,
			DateApplied:   now,
			Status:        ApplicationPending,
			Booking:       BookingNotBooked,
			Withdrawal:    WithdrawalNotRequested,
		})
		return err
	})
	finish(EntityApplication, created.ID, err)
	return created, res, err
}

// DecideApplication records the manager verdict on a pending application.
func (s *Service) DecideApplication(ctx context.Context, applicationID string, decision Decision) (Result, error) {
	ctx, finish := s.begin(ctx, "decide_application")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.UpdateApplication(applicationID, func(a *Application) error {
			if a.Status != ApplicationPending {
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityApplication, ID: a.ID, Detail: "decision requires a pending application, have " + string(a.Status)}
			}
			switch decision {
			case DecisionApprove:
				a.Status = ApplicationSuccessful
			case DecisionReject:
				a.Status = ApplicationRejected
			default:
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityApplication, ID: a.ID, Detail: "unknown decision " + string(decision)}
			}
			return nil
		})
		return err
	})
	finish(EntityApplication, applicationID, err)
	return res, err
}

// RequestWithdrawal flags an active application for withdrawal. Repeated
// requests while one is pending fail with AlreadyRequested; a resolved
// request cannot be reopened.
func (s *Service) RequestWithdrawal(ctx context.Context, applicationID string) (Result, error) {
	ctx, finish := s.begin(ctx, "request_withdrawal")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.UpdateApplication(applicationID, func(a *Application) error {
			if !a.Active() {
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityApplication, ID: a.ID, Detail: "only active applications can be withdrawn"}
			}
			switch a.Withdrawal {
			case WithdrawalNotRequested:
				a.Withdrawal = WithdrawalPending
				return nil
			case WithdrawalPending:
				return &ConflictError{Kind: domain.AlreadyRequested, Entity: EntityApplication, ID: a.ID, Detail: "withdrawal already pending"}
			default:
				return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityApplication, ID: a.ID, Detail: "withdrawal already resolved"}
			}
		})
		return err
	})
	finish(EntityApplication, applicationID, err)
	return res, err
}

// ResolveWithdrawal records the manager verdict on a pending withdrawal
// request. Approval unconditionally forces the application to unsuccessful
// and not-booked; a booked unit is returned to the inventory ledger.
func (s *Service) ResolveWithdrawal(ctx context.Context, applicationID string, decision Decision) (Result, error) {
	ctx, finish := s.begin(ctx, "resolve_withdrawal")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		application, ok := tx.FindApplication(applicationID)
		if !ok {
			return &ConflictError{Kind: domain.ApplicationNotFound, Entity: EntityApplication, ID: applicationID, Detail: "application not found"}
		}
		if application.Withdrawal != WithdrawalPending {
			return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityApplication, ID: applicationID, Detail: "no pending withdrawal request"}
		}

		switch decision {
		case DecisionReject:
			_, err := tx.UpdateApplication(applicationID, func(a *Application) error {
				a.Withdrawal = WithdrawalRejected
				return nil
			})
			return err
		case DecisionApprove:
			if application.Booking == BookingBooked {
				if _, err := tx.UpdateProject(application.ProjectID, func(p *Project) error {
					return p.ReleaseUnit(application.FlatType)
				}); err != nil {
					return err
				}
			}
			_, err := tx.UpdateApplication(applicationID, func(a *Application) error {
				a.Withdrawal = WithdrawalApproved
				a.Booking = BookingNotBooked
				a.Status = ApplicationUnsuccessful
				return nil
			})
			return err
		default:
			return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityApplication, ID: applicationID, Detail: "unknown decision " + string(decision)}
		}
	})
	finish(EntityApplication, applicationID, err)
	return res, err
}

// BookFlat commits one unit of inventory against a successful application.
// The check-and-decrement happens inside the transaction, so a booking never
// oversells and a failed booking leaves the application unchanged. On
// success a booking receipt is archived when a receipt store is configured.
func (s *Service) BookFlat(ctx context.Context, applicationID string) (Result, error) {
	ctx, finish := s.begin(ctx, "book_flat")
	var receipt Receipt
	var haveReceipt bool
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		application, ok := tx.FindApplication(applicationID)
		if !ok {
			return &ConflictError{Kind: domain.ApplicationNotFound, Entity: EntityApplication, ID: applicationID, Detail: "application not found"}
		}
		if application.Status != ApplicationSuccessful {
			return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityApplication, ID: applicationID, Detail: "only successful applications can be booked"}
		}
		if application.Booking != BookingNotBooked {
			return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityApplication, ID: applicationID, Detail: "application already booked"}
		}

		project, err := tx.UpdateProject(application.ProjectID, func(p *Project) error {
			return p.ReserveUnit(application.FlatType)
		})
		if err != nil {
			return err
		}
		booked, err := tx.UpdateApplication(applicationID, func(a *Application) error {
			a.Booking = BookingBooked
			return nil
		})
		if err != nil {
			return err
		}

		if applicant, ok := tx.FindPerson(booked.ApplicantID); ok {
			receipt = newReceipt(booked, applicant, project, s.clock.Now())
			haveReceipt = true
		}
		return nil
	})
	finish(EntityApplication, applicationID, err)
	if err == nil && s.receipts != nil {
		if !haveReceipt {
			s.logger.Warn("receipt skipped, applicant record missing", "application_id", applicationID)
		} else if archiveErr := archiveReceipt(ctx, s.receipts, receipt); archiveErr != nil {
			s.logger.Warn("receipt archive failed", "application_id", applicationID, "error", archiveErr)
		}
	}
	return res, err
}

// RegisterOfficer validates and records an officer-to-project registration
// request. The form attaches to the project still pending; approval is a
// separate manager action.
func (s *Service) RegisterOfficer(ctx context.Context, officerID, projectID string) (RegistrationForm, Result, error) {
	ctx, finish := s.begin(ctx, "register_officer")
	var created RegistrationForm
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		officer, ok := tx.FindPerson(officerID)
		if !ok || !officer.Can(CanAdminister) {
			return &ConflictError{Kind: domain.ActorNotFound, Entity: EntityPerson, ID: officerID, Detail: "no officer with this id"}
		}
		now := s.clock.Now()
		target, err := validateRegistration(tx.Snapshot(), officer, projectID, now)
		if err != nil {
			return err
		}
		created, err = tx.CreateRegistrationForm(RegistrationForm{
			OfficerID:   officer.ID,
			OfficerName: officer.Name,
			ProjectID:   target.ID,
			ProjectName: target.Name,
			DateApplied: now,
			Status:      RegistrationPending,
		})
		return err
	})
	finish(EntityRegistrationForm, created.ID, err)
	return created, res, err
}

// DecideRegistration records the manager verdict on a pending registration
// form. Approval appends the officer to the roster, re-checking slot
// capacity at approval time so slots filling between request and approval
// cannot be overcommitted.
func (s *Service) DecideRegistration(ctx context.Context, formID string, decision Decision) (Result, error) {
	ctx, finish := s.begin(ctx, "decide_registration")
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		form, ok := tx.FindRegistrationForm(formID)
		if !ok {
			return &ConflictError{Kind: domain.FormNotFound, Entity: EntityRegistrationForm, ID: formID, Detail: "registration form not found"}
		}
		if !form.Pending() {
			return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityRegistrationForm, ID: formID, Detail: "registration already resolved"}
		}

		switch decision {
		case DecisionReject:
			_, err := tx.UpdateRegistrationForm(formID, func(f *RegistrationForm) error {
				f.Status = RegistrationRejected
				return nil
			})
			return err
		case DecisionApprove:
			if _, err := tx.UpdateProject(form.ProjectID, func(p *Project) error {
				if p.HasOfficer(form.OfficerID) {
					return &ConflictError{Kind: domain.AlreadyAssigned, Entity: EntityProject, ID: p.ID, Detail: "officer already on roster"}
				}
				if len(p.OfficerIDs) >= p.OfficerSlotCapacity {
					return &ConflictError{Kind: domain.NoSlotsAvailable, Entity: EntityProject, ID: p.ID, Detail: "officer slots filled since request"}
				}
				p.OfficerIDs = append(p.OfficerIDs, form.OfficerID)
				return nil
			}); err != nil {
				return err
			}
			_, err := tx.UpdateRegistrationForm(formID, func(f *RegistrationForm) error {
				f.Status = RegistrationApproved
				return nil
			})
			return err
		default:
			return &ConflictError{Kind: domain.InvalidTransition, Entity: EntityRegistrationForm, ID: formID, Detail: "unknown decision " + string(decision)}
		}
	})
	finish(EntityRegistrationForm, formID, err)
	return res, err
}

// Person returns an actor identity from the committed state.
func (s *Service) Person(id string) (Person, bool) { return s.store.GetPerson(id) }

// Project returns a project from the committed state.
func (s *Service) Project(id string) (Project, bool) { return s.store.GetProject(id) }

// Application returns an application from the committed state.
func (s *Service) Application(id string) (Application, bool) { return s.store.GetApplication(id) }

// RegistrationForm returns a registration form from the committed state.
func (s *Service) RegistrationForm(id string) (RegistrationForm, bool) {
	return s.store.GetRegistrationForm(id)
}

// Enquiry returns an enquiry from the committed state.
func (s *Service) Enquiry(id string) (Enquiry, bool) { return s.store.GetEnquiry(id) }

// Projects lists all projects in the committed state.
func (s *Service) Projects() []Project { return s.store.ListProjects() }

// Applications lists all applications in the committed state.
func (s *Service) Applications() []Application { return s.store.ListApplications() }

// RegistrationForms lists all registration forms in the committed state.
func (s *Service) RegistrationForms() []RegistrationForm { return s.store.ListRegistrationForms() }

// Enquiries lists all enquiries in the committed state.
func (s *Service) Enquiries() []Enquiry { return s.store.ListEnquiries() }

// ApplicationsByApplicant lists the applicant's applications across projects.
func (s *Service) ApplicationsByApplicant(ctx context.Context, applicantID string) ([]Application, error) {
	var out []Application
	err := s.store.View(ctx, func(view TransactionView) error {
		for _, a := range view.ListApplications() {
			if a.ApplicantID == applicantID {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}
