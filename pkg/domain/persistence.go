package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreatePerson(Person) (Person, error)
	UpdatePerson(id string, mutator func(*Person) error) (Person, error)
	CreateProject(Project) (Project, error)
	UpdateProject(id string, mutator func(*Project) error) (Project, error)
	DeleteProject(id string) error
	CreateApplication(Application) (Application, error)
	UpdateApplication(id string, mutator func(*Application) error) (Application, error)
	CreateRegistrationForm(RegistrationForm) (RegistrationForm, error)
	UpdateRegistrationForm(id string, mutator func(*RegistrationForm) error) (RegistrationForm, error)
	CreateEnquiry(Enquiry) (Enquiry, error)
	UpdateEnquiry(id string, mutator func(*Enquiry) error) (Enquiry, error)
	DeleteEnquiry(id string) error
	FindPerson(id string) (Person, bool)
	FindProject(id string) (Project, bool)
	FindApplication(id string) (Application, bool)
	FindRegistrationForm(id string) (RegistrationForm, bool)
	FindEnquiry(id string) (Enquiry, bool)
	ListProjects() []Project
	ListApplications() []Application
	ListApplicationsByApplicant(applicantID string) []Application
	ListRegistrationFormsByProject(projectID string) []RegistrationForm
}

// TransactionView provides read-only access to snapshot data for rules.
type TransactionView = RuleView

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetPerson(id string) (Person, bool)
	GetProject(id string) (Project, bool)
	GetApplication(id string) (Application, bool)
	GetRegistrationForm(id string) (RegistrationForm, bool)
	GetEnquiry(id string) (Enquiry, bool)
	ListPersons() []Person
	ListProjects() []Project
	ListApplications() []Application
	ListRegistrationForms() []RegistrationForm
	ListEnquiries() []Enquiry
}
