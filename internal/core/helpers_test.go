package core_test

import (
	"context"
	"testing"
	"time"

	"btocore/internal/core"
	"btocore/pkg/domain"
)

// Fixture window: projects open mid-March through the end of April 2026.
// The service clock is pinned to the opening day so freshly raised projects
// pass creation validation and their windows are open.
var (
	windowOpen  = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	windowClose = time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC)
	fixtureNow  = windowOpen
)

func fixedClock(at time.Time) core.ClockFunc {
	return core.ClockFunc(func() time.Time { return at })
}

func newTestService(t *testing.T, opts ...core.Option) *core.Service {
	t.Helper()
	opts = append([]core.Option{core.WithClock(fixedClock(fixtureNow))}, opts...)
	return core.NewInMemoryService(core.NewDefaultRulesEngine(), opts...)
}

func seedApplicant(t *testing.T, svc *core.Service, name string, age int, marital domain.MaritalStatus) domain.Person {
	t.Helper()
	person, _, err := svc.RegisterPerson(context.Background(), domain.Person{
		Name:          name,
		NRIC:          "S" + name + "A",
		Age:           age,
		MaritalStatus: marital,
		Capabilities:  []domain.Capability{domain.CanApply},
	})
	if err != nil {
		t.Fatalf("register applicant %s: %v", name, err)
	}
	return person
}

func seedOfficer(t *testing.T, svc *core.Service, name string) domain.Person {
	t.Helper()
	person, _, err := svc.RegisterPerson(context.Background(), domain.Person{
		Name:          name,
		NRIC:          "T" + name + "B",
		Age:           30,
		MaritalStatus: domain.Married,
		Capabilities:  []domain.Capability{domain.CanApply, domain.CanAdminister},
	})
	if err != nil {
		t.Fatalf("register officer %s: %v", name, err)
	}
	return person
}

func seedManager(t *testing.T, svc *core.Service, name string) domain.Person {
	t.Helper()
	person, _, err := svc.RegisterPerson(context.Background(), domain.Person{
		Name:         name,
		NRIC:         "S" + name + "C",
		Age:          45,
		Capabilities: []domain.Capability{domain.CanManage},
	})
	if err != nil {
		t.Fatalf("register manager %s: %v", name, err)
	}
	return person
}

// seedProject raises a visible Yishun project over the fixture window with
// the given unit counts.
func seedProject(t *testing.T, svc *core.Service, managerID, name string, twoRoom, threeRoom int) domain.Project {
	t.Helper()
	project, _, err := svc.CreateProject(context.Background(), managerID, domain.Project{
		Name:          name,
		Neighbourhood: "Yishun",
		Prices: map[domain.FlatType]float64{
			domain.FlatTwoRoom:   120000,
			domain.FlatThreeRoom: 250000,
		},
		Capacity: map[domain.FlatType]int{
			domain.FlatTwoRoom:   twoRoom,
			domain.FlatThreeRoom: threeRoom,
		},
		OfficerSlotCapacity: 3,
		Visibility:          true,
		OpenDate:            windowOpen,
		CloseDate:           windowClose,
	})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return project
}

func wantKind(t *testing.T, err error, kind domain.ConflictKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s conflict, got nil", kind)
	}
	if !domain.IsKind(err, kind) {
		t.Fatalf("expected %s conflict, got %v", kind, err)
	}
}

// approvedApplication walks an applicant through apply and manager approval.
func approvedApplication(t *testing.T, svc *core.Service, applicantID, projectID string, flatType domain.FlatType) domain.Application {
	t.Helper()
	ctx := context.Background()
	application, _, err := svc.ApplyForProject(ctx, applicantID, projectID, flatType)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := svc.DecideApplication(ctx, application.ID, domain.DecisionApprove); err != nil {
		t.Fatalf("approve application: %v", err)
	}
	updated, ok := svc.Application(application.ID)
	if !ok {
		t.Fatalf("application %s missing after approval", application.ID)
	}
	return updated
}
