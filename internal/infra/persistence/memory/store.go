// Package memory provides the in-memory transactional implementation of the
// core persistence store. It is the single transactional engine: durable
// backends wrap it and persist snapshots after each successful commit.
package memory

import (
	"btocore/pkg/domain"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Person aliases domain.Person for in-memory persistence operations.
	Person = domain.Person
	// Project aliases domain.Project.
	Project = domain.Project
	// Application aliases domain.Application.
	Application = domain.Application
	// RegistrationForm aliases domain.RegistrationForm.
	RegistrationForm = domain.RegistrationForm
	// Enquiry aliases domain.Enquiry.
	Enquiry = domain.Enquiry
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	persons      map[string]Person
	projects     map[string]Project
	applications map[string]Application
	forms        map[string]RegistrationForm
	enquiries    map[string]Enquiry
}

// Snapshot captures a point-in-time clone of the store state.
type Snapshot struct {
	Persons      map[string]Person           `json:"persons"`
	Projects     map[string]Project          `json:"projects"`
	Applications map[string]Application      `json:"applications"`
	Forms        map[string]RegistrationForm `json:"registration_forms"`
	Enquiries    map[string]Enquiry          `json:"enquiries"`
}

func newMemoryState() memoryState {
	return memoryState{
		persons:      make(map[string]Person),
		projects:     make(map[string]Project),
		applications: make(map[string]Application),
		forms:        make(map[string]RegistrationForm),
		enquiries:    make(map[string]Enquiry),
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Persons:      make(map[string]Person, len(state.persons)),
		Projects:     make(map[string]Project, len(state.projects)),
		Applications: make(map[string]Application, len(state.applications)),
		Forms:        make(map[string]RegistrationForm, len(state.forms)),
		Enquiries:    make(map[string]Enquiry, len(state.enquiries)),
	}
	for k, v := range state.persons {
		s.Persons[k] = clonePerson(v)
	}
	for k, v := range state.projects {
		s.Projects[k] = cloneProject(v)
	}
	for k, v := range state.applications {
		s.Applications[k] = cloneApplication(v)
	}
	for k, v := range state.forms {
		s.Forms[k] = cloneForm(v)
	}
	for k, v := range state.enquiries {
		s.Enquiries[k] = cloneEnquiry(v)
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Persons {
		state.persons[k] = clonePerson(v)
	}
	for k, v := range s.Projects {
		state.projects[k] = cloneProject(v)
	}
	for k, v := range s.Applications {
		state.applications[k] = cloneApplication(v)
	}
	for k, v := range s.Forms {
		state.forms[k] = cloneForm(v)
	}
	for k, v := range s.Enquiries {
		state.enquiries[k] = cloneEnquiry(v)
	}
	return state
}

// migrateSnapshot repairs snapshots from older layouts: orphaned records are
// dropped and ledger maps are rebuilt so the engine never starts from a
// partially-written inventory.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Persons == nil {
		snapshot.Persons = map[string]Person{}
	}
	if snapshot.Projects == nil {
		snapshot.Projects = map[string]Project{}
	}
	if snapshot.Applications == nil {
		snapshot.Applications = map[string]Application{}
	}
	if snapshot.Forms == nil {
		snapshot.Forms = map[string]RegistrationForm{}
	}
	if snapshot.Enquiries == nil {
		snapshot.Enquiries = map[string]Enquiry{}
	}

	projectExists := func(id string) bool {
		_, ok := snapshot.Projects[id]
		return ok
	}
	personExists := func(id string) bool {
		_, ok := snapshot.Persons[id]
		return ok
	}

	for id, project := range snapshot.Projects {
		if project.Prices == nil {
			project.Prices = map[domain.FlatType]float64{}
		}
		if project.Capacity == nil {
			project.Capacity = map[domain.FlatType]int{}
		}
		if project.Remaining == nil {
			project.Remaining = map[domain.FlatType]int{}
		}
		for flatType, capacity := range project.Capacity {
			remaining := project.Remaining[flatType]
			if remaining < 0 {
				remaining = 0
			}
			if remaining > capacity {
				remaining = capacity
			}
			project.Remaining[flatType] = remaining
		}
		if filtered, changed := filterIDs(project.OfficerIDs, personExists); changed {
			project.OfficerIDs = filtered
		}
		snapshot.Projects[id] = project
	}

	for id, application := range snapshot.Applications {
		if !projectExists(application.ProjectID) || !personExists(application.ApplicantID) {
			delete(snapshot.Applications, id)
		}
	}
	for id, form := range snapshot.Forms {
		if !projectExists(form.ProjectID) || !personExists(form.OfficerID) {
			delete(snapshot.Forms, id)
		}
	}
	for id, enquiry := range snapshot.Enquiries {
		if !projectExists(enquiry.ProjectID) {
			delete(snapshot.Enquiries, id)
		}
	}

	return snapshot
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.persons {
		cloned.persons[k] = clonePerson(v)
	}
	for k, v := range s.projects {
		cloned.projects[k] = cloneProject(v)
	}
	for k, v := range s.applications {
		cloned.applications[k] = cloneApplication(v)
	}
	for k, v := range s.forms {
		cloned.forms[k] = cloneForm(v)
	}
	for k, v := range s.enquiries {
		cloned.enquiries[k] = cloneEnquiry(v)
	}
	return cloned
}

func clonePerson(p Person) Person {
	cp := p
	cp.Capabilities = append([]domain.Capability(nil), p.Capabilities...)
	return cp
}

func cloneProject(p Project) Project {
	cp := p
	cp.Prices = make(map[domain.FlatType]float64, len(p.Prices))
	for k, v := range p.Prices {
		cp.Prices[k] = v
	}
	cp.Capacity = make(map[domain.FlatType]int, len(p.Capacity))
	for k, v := range p.Capacity {
		cp.Capacity[k] = v
	}
	cp.Remaining = make(map[domain.FlatType]int, len(p.Remaining))
	for k, v := range p.Remaining {
		cp.Remaining[k] = v
	}
	cp.OfficerIDs = append([]string(nil), p.OfficerIDs...)
	return cp
}

func cloneApplication(a Application) Application { return a }
func cloneForm(f RegistrationForm) RegistrationForm {
	return f
}
func cloneEnquiry(e Enquiry) Enquiry { return e }

func filterIDs(values []string, exists func(string) bool) ([]string, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	changed := false
	for _, v := range values {
		if _, ok := seen[v]; ok {
			changed = true
			continue
		}
		seen[v] = struct{}{}
		if !exists(v) {
			changed = true
			continue
		}
		out = append(out, v)
	}
	if !changed && len(out) == len(values) {
		return values, false
	}
	return out, true
}

// Store provides an in-memory transactional store for the core domain. All
// mutations run behind a single exclusive lock, so operations on the same
// project can never interleave unsafely and the cross-project
// active-application invariant is checked against a consistent view.
type Store struct {
	sem    chan struct{}
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		sem:    make(chan struct{}, 1),
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// acquire takes the store lock, bounded by the caller's context. Contention
// past the deadline surfaces as a retryable conflict rather than blocking
// indefinitely.
func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &domain.ConflictError{
			Kind:   domain.ConcurrentConflict,
			Detail: "store lock: " + ctx.Err().Error(),
		}
	}
}

func (s *Store) release() { <-s.sem }

func (s *Store) newID() string {
	return uuid.NewString()
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.sem <- struct{}{}
	defer s.release()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.sem <- struct{}{}
	defer s.release()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	return s.engine
}

// SetNowFunc overrides the time provider. Used by clock-injecting callers and
// tests; wall-clock UTC is the default.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now != nil {
		s.nowFn = now
	}
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

var _ Transaction = (*transaction)(nil)

// transactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

var _ TransactionView = (*transactionView)(nil)

// RunInTransaction executes fn within a transactional copy of the store
// state. The rules engine evaluates the resulting view before commit;
// blocking violations abort the transaction and leave the store untouched.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	if err := s.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer s.release()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := &transactionView{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View runs fn against a read-only snapshot of the current state.
func (s *Store) View(ctx context.Context, fn func(TransactionView) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	snapshot := s.state.clone()
	s.release()
	return fn(&transactionView{state: &snapshot})
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view of the in-flight transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return &transactionView{state: &tx.state}
}

// CreatePerson stores a new person within the transaction.
func (tx *transaction) CreatePerson(p Person) (Person, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.persons[p.ID]; exists {
		return Person{}, &domain.ConflictError{Kind: domain.InvalidTransition, Entity: domain.EntityPerson, ID: p.ID, Detail: "person already exists"}
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.persons[p.ID] = clonePerson(p)
	tx.recordChange(Change{Entity: domain.EntityPerson, Action: domain.ActionCreate, After: clonePerson(p)})
	return clonePerson(p), nil
}

// UpdatePerson mutates a person using the provided mutator function.
func (tx *transaction) UpdatePerson(id string, mutator func(*Person) error) (Person, error) {
	current, ok := tx.state.persons[id]
	if !ok {
		return Person{}, &domain.ConflictError{Kind: domain.ActorNotFound, Entity: domain.EntityPerson, ID: id, Detail: "person not found"}
	}
	before := clonePerson(current)
	if err := mutator(&current); err != nil {
		return Person{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.persons[id] = clonePerson(current)
	tx.recordChange(Change{Entity: domain.EntityPerson, Action: domain.ActionUpdate, Before: before, After: clonePerson(current)})
	return clonePerson(current), nil
}

// CreateProject stores a new project within the transaction. The remaining
// ledger starts equal to capacity when unset.
func (tx *transaction) CreateProject(p Project) (Project, error) {
	if p.ID == "" {
		p.ID = tx.store.newID()
	}
	if _, exists := tx.state.projects[p.ID]; exists {
		return Project{}, &domain.ConflictError{Kind: domain.InvalidProject, Entity: domain.EntityProject, ID: p.ID, Detail: "project already exists"}
	}
	if p.Remaining == nil {
		p.Remaining = make(map[domain.FlatType]int, len(p.Capacity))
		for flatType, capacity := range p.Capacity {
			p.Remaining[flatType] = capacity
		}
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	tx.state.projects[p.ID] = cloneProject(p)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionCreate, After: cloneProject(p)})
	return cloneProject(p), nil
}

// UpdateProject mutates a project using the provided mutator function.
func (tx *transaction) UpdateProject(id string, mutator func(*Project) error) (Project, error) {
	current, ok := tx.state.projects[id]
	if !ok {
		return Project{}, &domain.ConflictError{Kind: domain.ProjectNotFound, Entity: domain.EntityProject, ID: id, Detail: "project not found"}
	}
	before := cloneProject(current)
	working := cloneProject(current)
	if err := mutator(&working); err != nil {
		return Project{}, err
	}
	working.ID = id
	working.UpdatedAt = tx.now
	tx.state.projects[id] = cloneProject(working)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionUpdate, Before: before, After: cloneProject(working)})
	return cloneProject(working), nil
}

// DeleteProject removes a project and everything it owns by composition.
func (tx *transaction) DeleteProject(id string) error {
	current, ok := tx.state.projects[id]
	if !ok {
		return &domain.ConflictError{Kind: domain.ProjectNotFound, Entity: domain.EntityProject, ID: id, Detail: "project not found"}
	}
	delete(tx.state.projects, id)
	for appID, application := range tx.state.applications {
		if application.ProjectID == id {
			delete(tx.state.applications, appID)
		}
	}
	for formID, form := range tx.state.forms {
		if form.ProjectID == id {
			delete(tx.state.forms, formID)
		}
	}
	for enquiryID, enquiry := range tx.state.enquiries {
		if enquiry.ProjectID == id {
			delete(tx.state.enquiries, enquiryID)
		}
	}
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionDelete, Before: cloneProject(current)})
	return nil
}

// CreateApplication stores a new application within the transaction.
func (tx *transaction) CreateApplication(a Application) (Application, error) {
	if a.ID == "" {
		a.ID = tx.store.newID()
	}
	if _, exists := tx.state.applications[a.ID]; exists {
		return Application{}, &domain.ConflictError{Kind: domain.InvalidTransition, Entity: domain.EntityApplication, ID: a.ID, Detail: "application already exists"}
	}
	a.CreatedAt = tx.now
	a.UpdatedAt = tx.now
	tx.state.applications[a.ID] = a
	tx.recordChange(Change{Entity: domain.EntityApplication, Action: domain.ActionCreate, After: a})
	return a, nil
}

// UpdateApplication mutates an application using the provided mutator function.
func (tx *transaction) UpdateApplication(id string, mutator func(*Application) error) (Application, error) {
	current, ok := tx.state.applications[id]
	if !ok {
		return Application{}, &domain.ConflictError{Kind: domain.ApplicationNotFound, Entity: domain.EntityApplication, ID: id, Detail: "application not found"}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Application{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.applications[id] = current
	tx.recordChange(Change{Entity: domain.EntityApplication, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// CreateRegistrationForm stores a new registration form within the transaction.
func (tx *transaction) CreateRegistrationForm(f RegistrationForm) (RegistrationForm, error) {
	if f.ID == "" {
		f.ID = tx.store.newID()
	}
	if _, exists := tx.state.forms[f.ID]; exists {
		return RegistrationForm{}, &domain.ConflictError{Kind: domain.InvalidTransition, Entity: domain.EntityRegistrationForm, ID: f.ID, Detail: "registration form already exists"}
	}
	f.CreatedAt = tx.now
	f.UpdatedAt = tx.now
	tx.state.forms[f.ID] = f
	tx.recordChange(Change{Entity: domain.EntityRegistrationForm, Action: domain.ActionCreate, After: f})
	return f, nil
}

// UpdateRegistrationForm mutates a registration form using the provided mutator.
func (tx *transaction) UpdateRegistrationForm(id string, mutator func(*RegistrationForm) error) (RegistrationForm, error) {
	current, ok := tx.state.forms[id]
	if !ok {
		return RegistrationForm{}, &domain.ConflictError{Kind: domain.FormNotFound, Entity: domain.EntityRegistrationForm, ID: id, Detail: "registration form not found"}
	}
	before := current
	if err := mutator(&current); err != nil {
		return RegistrationForm{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.forms[id] = current
	tx.recordChange(Change{Entity: domain.EntityRegistrationForm, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// CreateEnquiry stores a new enquiry within the transaction.
func (tx *transaction) CreateEnquiry(e Enquiry) (Enquiry, error) {
	if e.ID == "" {
		e.ID = tx.store.newID()
	}
	if _, exists := tx.state.enquiries[e.ID]; exists {
		return Enquiry{}, &domain.ConflictError{Kind: domain.InvalidTransition, Entity: domain.EntityEnquiry, ID: e.ID, Detail: "enquiry already exists"}
	}
	e.CreatedAt = tx.now
	e.UpdatedAt = tx.now
	tx.state.enquiries[e.ID] = e
	tx.recordChange(Change{Entity: domain.EntityEnquiry, Action: domain.ActionCreate, After: e})
	return e, nil
}

// UpdateEnquiry mutates an enquiry using the provided mutator function.
func (tx *transaction) UpdateEnquiry(id string, mutator func(*Enquiry) error) (Enquiry, error) {
	current, ok := tx.state.enquiries[id]
	if !ok {
		return Enquiry{}, &domain.ConflictError{Kind: domain.EnquiryNotFound, Entity: domain.EntityEnquiry, ID: id, Detail: "enquiry not found"}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Enquiry{}, err
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.enquiries[id] = current
	tx.recordChange(Change{Entity: domain.EntityEnquiry, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteEnquiry removes an enquiry from the transaction state.
func (tx *transaction) DeleteEnquiry(id string) error {
	current, ok := tx.state.enquiries[id]
	if !ok {
		return &domain.ConflictError{Kind: domain.EnquiryNotFound, Entity: domain.EntityEnquiry, ID: id, Detail: "enquiry not found"}
	}
	delete(tx.state.enquiries, id)
	tx.recordChange(Change{Entity: domain.EntityEnquiry, Action: domain.ActionDelete, Before: current})
	return nil
}

// FindPerson exposes person lookup within the transaction scope.
func (tx *transaction) FindPerson(id string) (Person, bool) {
	p, ok := tx.state.persons[id]
	if !ok {
		return Person{}, false
	}
	return clonePerson(p), true
}

// FindProject exposes project lookup within the transaction scope.
func (tx *transaction) FindProject(id string) (Project, bool) {
	p, ok := tx.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return cloneProject(p), true
}

// FindApplication exposes application lookup within the transaction scope.
func (tx *transaction) FindApplication(id string) (Application, bool) {
	a, ok := tx.state.applications[id]
	return a, ok
}

// FindRegistrationForm exposes form lookup within the transaction scope.
func (tx *transaction) FindRegistrationForm(id string) (RegistrationForm, bool) {
	f, ok := tx.state.forms[id]
	return f, ok
}

// FindEnquiry exposes enquiry lookup within the transaction scope.
func (tx *transaction) FindEnquiry(id string) (Enquiry, bool) {
	e, ok := tx.state.enquiries[id]
	return e, ok
}

// ListProjects returns all projects in the transaction state sorted by id.
func (tx *transaction) ListProjects() []Project {
	return listProjects(&tx.state)
}

// ListApplications returns all applications in the transaction state sorted by id.
func (tx *transaction) ListApplications() []Application {
	return listApplications(&tx.state)
}

// ListApplicationsByApplicant returns the applicant's applications across all projects.
func (tx *transaction) ListApplicationsByApplicant(applicantID string) []Application {
	var out []Application
	for _, a := range tx.state.applications {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListRegistrationFormsByProject returns the forms attached to a project.
func (tx *transaction) ListRegistrationFormsByProject(projectID string) []RegistrationForm {
	var out []RegistrationForm
	for _, f := range tx.state.forms {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func listPersons(state *memoryState) []Person {
	out := make([]Person, 0, len(state.persons))
	for _, p := range state.persons {
		out = append(out, clonePerson(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func listProjects(state *memoryState) []Project {
	out := make([]Project, 0, len(state.projects))
	for _, p := range state.projects {
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func listApplications(state *memoryState) []Application {
	out := make([]Application, 0, len(state.applications))
	for _, a := range state.applications {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func listForms(state *memoryState) []RegistrationForm {
	out := make([]RegistrationForm, 0, len(state.forms))
	for _, f := range state.forms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func listEnquiries(state *memoryState) []Enquiry {
	out := make([]Enquiry, 0, len(state.enquiries))
	for _, e := range state.enquiries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListPersons implements the rule view over the transactional state.
func (v *transactionView) ListPersons() []Person { return listPersons(v.state) }

// ListProjects implements the rule view over the transactional state.
func (v *transactionView) ListProjects() []Project { return listProjects(v.state) }

// ListApplications implements the rule view over the transactional state.
func (v *transactionView) ListApplications() []Application { return listApplications(v.state) }

// ListRegistrationForms implements the rule view over the transactional state.
func (v *transactionView) ListRegistrationForms() []RegistrationForm { return listForms(v.state) }

// ListEnquiries implements the rule view over the transactional state.
func (v *transactionView) ListEnquiries() []Enquiry { return listEnquiries(v.state) }

// FindPerson implements the rule view over the transactional state.
func (v *transactionView) FindPerson(id string) (Person, bool) {
	p, ok := v.state.persons[id]
	if !ok {
		return Person{}, false
	}
	return clonePerson(p), true
}

// FindProject implements the rule view over the transactional state.
func (v *transactionView) FindProject(id string) (Project, bool) {
	p, ok := v.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return cloneProject(p), true
}

// FindApplication implements the rule view over the transactional state.
func (v *transactionView) FindApplication(id string) (Application, bool) {
	a, ok := v.state.applications[id]
	return a, ok
}

// FindRegistrationForm implements the rule view over the transactional state.
func (v *transactionView) FindRegistrationForm(id string) (RegistrationForm, bool) {
	f, ok := v.state.forms[id]
	return f, ok
}

// FindEnquiry implements the rule view over the transactional state.
func (v *transactionView) FindEnquiry(id string) (Enquiry, bool) {
	e, ok := v.state.enquiries[id]
	return e, ok
}

// GetPerson returns a person from the committed state.
func (s *Store) GetPerson(id string) (Person, bool) {
	s.sem <- struct{}{}
	defer s.release()
	p, ok := s.state.persons[id]
	if !ok {
		return Person{}, false
	}
	return clonePerson(p), true
}

// GetProject returns a project from the committed state.
func (s *Store) GetProject(id string) (Project, bool) {
	s.sem <- struct{}{}
	defer s.release()
	p, ok := s.state.projects[id]
	if !ok {
		return Project{}, false
	}
	return cloneProject(p), true
}

// GetApplication returns an application from the committed state.
func (s *Store) GetApplication(id string) (Application, bool) {
	s.sem <- struct{}{}
	defer s.release()
	a, ok := s.state.applications[id]
	return a, ok
}

// GetRegistrationForm returns a registration form from the committed state.
func (s *Store) GetRegistrationForm(id string) (RegistrationForm, bool) {
	s.sem <- struct{}{}
	defer s.release()
	f, ok := s.state.forms[id]
	return f, ok
}

// GetEnquiry returns an enquiry from the committed state.
func (s *Store) GetEnquiry(id string) (Enquiry, bool) {
	s.sem <- struct{}{}
	defer s.release()
	e, ok := s.state.enquiries[id]
	return e, ok
}

// ListPersons returns all persons in the committed state.
func (s *Store) ListPersons() []Person {
	s.sem <- struct{}{}
	defer s.release()
	return listPersons(&s.state)
}

// ListProjects returns all projects in the committed state.
func (s *Store) ListProjects() []Project {
	s.sem <- struct{}{}
	defer s.release()
	return listProjects(&s.state)
}

// ListApplications returns all applications in the committed state.
func (s *Store) ListApplications() []Application {
	s.sem <- struct{}{}
	defer s.release()
	return listApplications(&s.state)
}

// ListRegistrationForms returns all registration forms in the committed state.
func (s *Store) ListRegistrationForms() []RegistrationForm {
	s.sem <- struct{}{}
	defer s.release()
	return listForms(&s.state)
}

// ListEnquiries returns all enquiries in the committed state.
func (s *Store) ListEnquiries() []Enquiry {
	s.sem <- struct{}{}
	defer s.release()
	return listEnquiries(&s.state)
}
