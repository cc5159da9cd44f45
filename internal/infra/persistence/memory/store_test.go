package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"btocore/internal/infra/persistence/memory"
	"btocore/pkg/domain"
)

func seedProject(t *testing.T, store *memory.Store, twoRoom int) domain.Project {
	t.Helper()
	var project domain.Project
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		var err error
		project, err = tx.CreateProject(domain.Project{
			Name:          "Acacia Breeze",
			Neighbourhood: "Yishun",
			Capacity:      map[domain.FlatType]int{domain.FlatTwoRoom: twoRoom},
			Remaining:     map[domain.FlatType]int{domain.FlatTwoRoom: twoRoom},
			OpenDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			CloseDate:     time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		})
		return err
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	store := memory.NewStore(nil)
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })

	var person domain.Person
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		var err error
		person, err = tx.CreatePerson(domain.Person{Name: "Alice"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if person.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !person.CreatedAt.Equal(fixed) || !person.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected pinned timestamps, got %s / %s", person.CreatedAt, person.UpdatedAt)
	}
	stored, ok := store.GetPerson(person.ID)
	if !ok || stored.Name != "Alice" {
		t.Fatalf("person not committed: %+v", stored)
	}
}

func TestFailedTransactionRollsBack(t *testing.T) {
	store := memory.NewStore(nil)
	boom := errors.New("boom")
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreatePerson(domain.Person{Name: "Ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if len(store.ListPersons()) != 0 {
		t.Fatalf("rolled-back person leaked")
	}
}

func TestBlockingViolationAbortsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockAllRule{})
	store := memory.NewStore(engine)

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreatePerson(domain.Person{Name: "Alice"})
		return err
	})
	var violation domain.RuleViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	if len(store.ListPersons()) != 0 {
		t.Fatalf("blocked transaction committed")
	}
}

type blockAllRule struct{}

func (blockAllRule) Name() string { return "block_all" }

func (blockAllRule) Evaluate(context.Context, domain.RuleView, []domain.Change) (domain.Result, error) {
	return domain.Result{Violations: []domain.Violation{{
		Rule:     "block_all",
		Severity: domain.SeverityBlock,
		Message:  "nothing commits today",
	}}}, nil
}

func TestContendedLockSurfacesConcurrentConflict(t *testing.T) {
	store := memory.NewStore(nil)
	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := store.RunInTransaction(context.Background(), func(domain.Transaction) error {
			close(inside)
			<-release
			return nil
		})
		done <- err
	}()
	<-inside

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := store.View(ctx, func(domain.TransactionView) error { return nil })
	if !domain.IsKind(err, domain.ConcurrentConflict) {
		t.Fatalf("expected concurrent_conflict, got %v", err)
	}
	if !domain.Retryable(err) {
		t.Fatalf("lock contention must be retryable")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("holder transaction: %v", err)
	}
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	store := memory.NewStore(nil)
	project := seedProject(t, store, 1)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
				_, err := tx.UpdateProject(project.ID, func(p *domain.Project) error {
					return p.ReserveUnit(domain.FlatTwoRoom)
				})
				return err
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case domain.IsKind(err, domain.NoRemainingUnits):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d conflicts", successes, conflicts)
	}
	stored, _ := store.GetProject(project.ID)
	if stored.Remaining[domain.FlatTwoRoom] != 0 {
		t.Fatalf("ledger off after concurrent reservations: %d", stored.Remaining[domain.FlatTwoRoom])
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := memory.NewStore(nil)
	project := seedProject(t, store, 3)

	snapshot := store.ExportState()
	restored := memory.NewStore(nil)
	restored.ImportState(snapshot)

	got, ok := restored.GetProject(project.ID)
	if !ok {
		t.Fatalf("project missing after import")
	}
	if got.Remaining[domain.FlatTwoRoom] != 3 || got.Name != project.Name {
		t.Fatalf("snapshot mismatch: %+v", got)
	}
}

func TestImportClampsCorruptLedger(t *testing.T) {
	store := memory.NewStore(nil)
	project := seedProject(t, store, 2)

	snapshot := store.ExportState()
	corrupt := snapshot.Projects[project.ID]
	corrupt.Remaining[domain.FlatTwoRoom] = 99
	snapshot.Projects[project.ID] = corrupt

	restored := memory.NewStore(nil)
	restored.ImportState(snapshot)
	got, _ := restored.GetProject(project.ID)
	if got.Remaining[domain.FlatTwoRoom] != 2 {
		t.Fatalf("expected remaining clamped to capacity, got %d", got.Remaining[domain.FlatTwoRoom])
	}
}

func TestDeleteProjectDropsDependents(t *testing.T) {
	store := memory.NewStore(nil)
	project := seedProject(t, store, 2)

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateEnquiry(domain.Enquiry{ProjectID: project.ID, ApplicantID: "a-1", Question: "hi"}); err != nil {
			return err
		}
		return nil
	}); err != nil {
		t.Fatalf("seed enquiry: %v", err)
	}

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		return tx.DeleteProject(project.ID)
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.GetProject(project.ID); ok {
		t.Fatalf("project survived delete")
	}
}
