package domain_test

import (
	"testing"
	"time"

	"btocore/pkg/domain"
)

func TestApplicationActive(t *testing.T) {
	cases := []struct {
		name    string
		status  domain.ApplicationStatus
		booking domain.BookingStatus
		want    bool
	}{
		{"pending", domain.ApplicationPending, domain.BookingNotBooked, true},
		{"successful", domain.ApplicationSuccessful, domain.BookingNotBooked, true},
		{"rejected", domain.ApplicationRejected, domain.BookingNotBooked, false},
		{"unsuccessful", domain.ApplicationUnsuccessful, domain.BookingNotBooked, false},
		{"unsuccessful but booked", domain.ApplicationUnsuccessful, domain.BookingBooked, true},
		{"unsuccessful with pending booking", domain.ApplicationUnsuccessful, domain.BookingPending, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := domain.Application{Status: tc.status, Booking: tc.booking}
			if got := a.Active(); got != tc.want {
				t.Fatalf("Active() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestProjectWindow(t *testing.T) {
	open := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	closeDate := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	p := domain.Project{OpenDate: open, CloseDate: closeDate}

	if !p.WindowContains(open) || !p.WindowContains(closeDate) {
		t.Fatalf("window bounds must be inclusive")
	}
	if p.WindowContains(open.Add(-time.Second)) || p.WindowContains(closeDate.Add(time.Second)) {
		t.Fatalf("instants outside the window must be excluded")
	}

	touching := domain.Project{OpenDate: closeDate, CloseDate: closeDate.AddDate(0, 1, 0)}
	if !p.WindowOverlaps(touching) {
		t.Fatalf("windows sharing a boundary day overlap")
	}
	disjoint := domain.Project{OpenDate: closeDate.AddDate(0, 0, 1), CloseDate: closeDate.AddDate(0, 1, 0)}
	if p.WindowOverlaps(disjoint) {
		t.Fatalf("disjoint windows must not overlap")
	}
}

func TestProjectInventoryLedger(t *testing.T) {
	p := domain.Project{
		Capacity:  map[domain.FlatType]int{domain.FlatTwoRoom: 1},
		Remaining: map[domain.FlatType]int{domain.FlatTwoRoom: 1},
	}

	if err := p.ReserveUnit(domain.FlatTwoRoom); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if p.Remaining[domain.FlatTwoRoom] != 0 {
		t.Fatalf("expected 0 remaining, got %d", p.Remaining[domain.FlatTwoRoom])
	}
	if err := p.ReserveUnit(domain.FlatTwoRoom); !domain.IsKind(err, domain.NoRemainingUnits) {
		t.Fatalf("expected no_remaining_units, got %v", err)
	}

	if err := p.ReleaseUnit(domain.FlatTwoRoom); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := p.ReleaseUnit(domain.FlatTwoRoom); !domain.IsKind(err, domain.InvalidTransition) {
		t.Fatalf("release past capacity must fail, got %v", err)
	}
}

func TestPersonCan(t *testing.T) {
	p := domain.Person{Capabilities: []domain.Capability{domain.CanApply, domain.CanAdminister}}
	if !p.Can(domain.CanApply) || !p.Can(domain.CanAdminister) {
		t.Fatalf("expected granted capabilities")
	}
	if p.Can(domain.CanManage) {
		t.Fatalf("unexpected manage capability")
	}
}

func TestResultMergeAndBlocking(t *testing.T) {
	var combined domain.Result
	combined.Merge(domain.Result{})
	if combined.HasBlocking() {
		t.Fatalf("empty result must not block")
	}
	combined.Merge(domain.Result{Violations: []domain.Violation{{Rule: "a", Severity: domain.SeverityWarn}}})
	if combined.HasBlocking() {
		t.Fatalf("warnings must not block")
	}
	combined.Merge(domain.Result{Violations: []domain.Violation{{Rule: "b", Severity: domain.SeverityBlock}}})
	if !combined.HasBlocking() {
		t.Fatalf("blocking violation not detected")
	}
	if len(combined.Violations) != 2 {
		t.Fatalf("expected merged violations, got %d", len(combined.Violations))
	}
}

func TestConflictErrorHelpers(t *testing.T) {
	err := error(&domain.ConflictError{Kind: domain.NotEligible, Entity: domain.EntityProject, ID: "p-1", Detail: "nope"})
	if !domain.IsKind(err, domain.NotEligible) {
		t.Fatalf("IsKind failed for matching kind")
	}
	if domain.IsKind(err, domain.WindowClosed) {
		t.Fatalf("IsKind matched wrong kind")
	}
	if domain.Retryable(err) {
		t.Fatalf("only concurrent_conflict is retryable")
	}
	retry := error(&domain.ConflictError{Kind: domain.ConcurrentConflict, Detail: "lock"})
	if !domain.Retryable(retry) {
		t.Fatalf("concurrent_conflict must be retryable")
	}
}
