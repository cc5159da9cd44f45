package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"btocore/internal/blob"
	blobmemory "btocore/internal/blob/memory"
	"btocore/internal/core"
	"btocore/internal/infra/persistence/memory"
	"btocore/pkg/domain"
)

func TestBookFlatArchivesReceipt(t *testing.T) {
	archive := blobmemory.New()
	svc := newTestService(t, core.WithReceiptArchive(archive))
	ctx := context.Background()
	manager := seedManager(t, svc, "Meredith")
	project := seedProject(t, svc, manager.ID, "Acacia Breeze", 5, 0)
	applicant := seedApplicant(t, svc, "Alice", 40, domain.Single)
	application := approvedApplication(t, svc, applicant.ID, project.ID, domain.FlatTwoRoom)

	if _, err := svc.BookFlat(ctx, application.ID); err != nil {
		t.Fatalf("book: %v", err)
	}

	info, rc, err := archive.Get(ctx, "receipts/"+application.ID+".json")
	if err != nil {
		t.Fatalf("archived receipt missing: %v", err)
	}
	defer func() { _ = rc.Close() }()
	if info.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", info.ContentType)
	}
	if info.Metadata["project_name"] != project.Name {
		t.Fatalf("unexpected metadata: %+v", info.Metadata)
	}

	payload, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	var receipt core.Receipt
	if err := json.Unmarshal(payload, &receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if receipt.ApplicationID != application.ID {
		t.Fatalf("wrong application on receipt: %s", receipt.ApplicationID)
	}
	if receipt.ApplicantName != applicant.Name || receipt.ApplicantNRIC != applicant.NRIC {
		t.Fatalf("applicant details missing: %+v", receipt)
	}
	if receipt.Price != 120000 {
		t.Fatalf("expected price snapshot, got %f", receipt.Price)
	}
	if !receipt.BookedAt.Equal(fixtureNow) {
		t.Fatalf("booked-at must come from the service clock, got %s", receipt.BookedAt)
	}
}

func TestBookFlatSucceedsWhenArchiveFails(t *testing.T) {
	archive := blobmemory.New()
	logger := &captureLogger{}
	svc := newTestService(t, core.WithReceiptArchive(archive), core.WithLogger(logger))
	ctx := context.Background()
	manager := seedManager(t, svc, "Meredith")
	project := seedProject(t, svc, manager.ID, "Acacia Breeze", 5, 0)
	applicant := seedApplicant(t, svc, "Alice", 40, domain.Single)
	application := approvedApplication(t, svc, applicant.ID, project.ID, domain.FlatTwoRoom)

	// Occupy the receipt key so the create-only write fails.
	if _, err := archive.Put(ctx, "receipts/"+application.ID+".json", strings.NewReader("occupied"), blob.PutOptions{}); err != nil {
		t.Fatalf("seed occupied key: %v", err)
	}

	if _, err := svc.BookFlat(ctx, application.ID); err != nil {
		t.Fatalf("booking must not fail on archive errors: %v", err)
	}
	booked, _ := svc.Application(application.ID)
	if booked.Booking != domain.BookingBooked {
		t.Fatalf("expected booked, got %s", booked.Booking)
	}
	logger.mu.Lock()
	warned := len(logger.warns) > 0
	logger.mu.Unlock()
	if !warned {
		t.Fatalf("expected warn log for failed archive")
	}
}

// vanishingPersonStore hides one person id from transactions, standing in
// for a snapshot whose person records were pruned out from under an
// application.
type vanishingPersonStore struct {
	*memory.Store
	hidden string
}

func (s *vanishingPersonStore) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	return s.Store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return fn(&vanishingPersonTx{Transaction: tx, store: s})
	})
}

type vanishingPersonTx struct {
	domain.Transaction
	store *vanishingPersonStore
}

func (t *vanishingPersonTx) FindPerson(id string) (domain.Person, bool) {
	if t.store.hidden != "" && id == t.store.hidden {
		return domain.Person{}, false
	}
	return t.Transaction.FindPerson(id)
}

func TestBookFlatSkipsReceiptWhenApplicantRecordMissing(t *testing.T) {
	archive := blobmemory.New()
	logger := &captureLogger{}
	store := &vanishingPersonStore{Store: memory.NewStore(core.NewDefaultRulesEngine())}
	svc := core.NewService(store,
		core.WithClock(fixedClock(fixtureNow)),
		core.WithReceiptArchive(archive),
		core.WithLogger(logger),
	)
	ctx := context.Background()
	manager := seedManager(t, svc, "Meredith")
	project := seedProject(t, svc, manager.ID, "Acacia Breeze", 5, 0)
	applicant := seedApplicant(t, svc, "Alice", 40, domain.Single)
	application := approvedApplication(t, svc, applicant.ID, project.ID, domain.FlatTwoRoom)

	store.hidden = applicant.ID
	if _, err := svc.BookFlat(ctx, application.ID); err != nil {
		t.Fatalf("booking must not fail on a missing person record: %v", err)
	}
	booked, _ := svc.Application(application.ID)
	if booked.Booking != domain.BookingBooked {
		t.Fatalf("expected booked, got %s", booked.Booking)
	}
	if _, err := archive.Head(ctx, "receipts/"+application.ID+".json"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected no archived receipt, got %v", err)
	}
	logger.mu.Lock()
	warned := len(logger.warns) > 0
	logger.mu.Unlock()
	if !warned {
		t.Fatalf("expected warn log for skipped receipt")
	}
}

func TestReceiptRender(t *testing.T) {
	receipt := core.Receipt{
		ApplicationID: "app-1",
		ApplicantName: "Alice",
		ApplicantNRIC: "S1234567A",
		Age:           40,
		MaritalStatus: "SINGLE",
		FlatType:      domain.FlatTwoRoom,
		Price:         120000,
		ProjectName:   "Acacia Breeze",
		Neighbourhood: "Yishun",
		BookedAt:      fixtureNow,
	}
	text := receipt.Render()
	for _, want := range []string{"Alice", "S1234567A", "Acacia Breeze", "Yishun", "120000.00"} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered receipt missing %q:\n%s", want, text)
		}
	}
}
