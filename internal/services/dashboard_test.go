package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"colloquium/internal/domain"
)

func ts(offset time.Duration) *time.Time {
	t := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC).Add(offset)
	return &t
}

func sampleRegistration(id, name, event string, createdAt *time.Time) *domain.Registration {
	return &domain.Registration{
		ID:        id,
		FullName:  name,
		Email:     fmt.Sprintf("%s@example.com", id),
		Event:     event,
		CreatedAt: createdAt,
		Status:    domain.StatusPending,
	}
}

func newTestDashboard(repo domain.RegistrationRepository) *Dashboard {
	return NewDashboard(repo, domain.DefaultCatalog(), testLogger())
}

func TestDashboard_Load_SortsNewestFirst(t *testing.T) {
	repo := &mockRegistrationRepository{regs: []*domain.Registration{
		sampleRegistration("r1", "Oldest", "ACME", ts(0)),
		sampleRegistration("r2", "NoTimeA", "ACME", nil),
		sampleRegistration("r3", "Newest", "ACME", ts(2*time.Hour)),
		sampleRegistration("r4", "NoTimeB", "ACME", nil),
		sampleRegistration("r5", "Middle", "ACME", ts(time.Hour)),
	}}
	d := newTestDashboard(repo)

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got := d.View()
	wantOrder := []string{"r3", "r5", "r1", "r2", "r4"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d registrations, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
	if d.Message() != "" {
		t.Errorf("message = %q, want empty", d.Message())
	}
}

func TestDashboard_Load_EmptySet(t *testing.T) {
	repo := &mockRegistrationRepository{}
	d := newTestDashboard(repo)

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := d.Message(); got != "No registrations found in database" {
		t.Errorf("message = %q", got)
	}
	if len(d.View()) != 0 {
		t.Errorf("expected empty view")
	}
}

func TestDashboard_Load_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "permission denied",
			err:     fmt.Errorf("permission denied for table registrations: %w", domain.ErrPermissionDenied),
			message: "Permission denied. Please check database access rules.",
		},
		{
			name:    "unavailable",
			err:     fmt.Errorf("the database system is shutting down: %w", domain.ErrUnavailable),
			message: "Database is unavailable. Please check your connection.",
		},
		{
			name:    "other",
			err:     errors.New("syntax error"),
			message: "Error: syntax error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRegistrationRepository{listErr: tt.err}
			d := newTestDashboard(repo)

			if err := d.Load(context.Background()); err == nil {
				t.Fatal("expected error")
			}
			if got := d.Message(); got != tt.message {
				t.Errorf("message = %q, want %q", got, tt.message)
			}
			if len(d.View()) != 0 {
				t.Errorf("expected view cleared on error")
			}
		})
	}
}

// sequencedRepo serves one prepared result set per ListAll call. The first
// call blocks until released so a second call can overtake it.
type sequencedRepo struct {
	mockRegistrationRepository
	mu      sync.Mutex
	calls   int
	release chan struct{}
	results [][]*domain.Registration
}

func (s *sequencedRepo) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()
	if call == 0 {
		<-s.release
	}
	return s.results[call], nil
}

func TestDashboard_Load_StaleResultDiscarded(t *testing.T) {
	repo := &sequencedRepo{
		release: make(chan struct{}),
		results: [][]*domain.Registration{
			{sampleRegistration("stale", "Old Fetch", "ACME", ts(0))},
			{sampleRegistration("fresh", "New Fetch", "ACME", ts(time.Hour))},
		},
	}
	d := newTestDashboard(repo)

	done := make(chan error, 1)
	go func() { done <- d.Load(context.Background()) }()

	// A newer load starts and completes while the first is still in flight.
	for {
		repo.mu.Lock()
		started := repo.calls > 0
		repo.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	close(repo.release)
	if err := <-done; err != nil {
		t.Fatalf("first load returned error: %v", err)
	}

	got := d.View()
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Fatalf("stale result overwrote the newer one: %+v", got)
	}
}

func TestDashboard_FilterAndSearch(t *testing.T) {
	repo := &mockRegistrationRepository{regs: []*domain.Registration{
		sampleRegistration("r1", "Ravi Kumar", "ACME", ts(4*time.Hour)),
		sampleRegistration("r2", "Anita Nair", "ACME", ts(3*time.Hour)),
		sampleRegistration("r3", "Ravi Menon", "Robowar", ts(2*time.Hour)),
		sampleRegistration("r4", "John Doe", "Robowar", ts(time.Hour)),
	}}
	d := newTestDashboard(repo)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	d.SetFilter("ACME")
	d.SetSearch("ravi")

	got := d.View()
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("filter+search view = %+v, want only r1", got)
	}

	// Export ignores search but keeps the filter.
	filterOnly := d.FilterOnlyView()
	if len(filterOnly) != 2 {
		t.Fatalf("filter-only view has %d entries, want 2", len(filterOnly))
	}

	// Clearing the filter resets to all.
	d.SetFilter("")
	if d.Filter() != FilterAll {
		t.Errorf("filter = %q, want %q", d.Filter(), FilterAll)
	}
	d.SetSearch("")
	if len(d.View()) != 4 {
		t.Errorf("expected full view after reset")
	}
}

func TestDashboard_SearchFields(t *testing.T) {
	reg := sampleRegistration("r1", "Ravi Kumar", "ACME", ts(0))
	reg.Phone = "9876543210"
	reg.College = "GEC Kozhikode"
	reg.Department = "CSE - 4"
	reg.Year = "2"
	reg.TransactionID = "UTR998877"

	repo := &mockRegistrationRepository{regs: []*domain.Registration{reg}}
	d := newTestDashboard(repo)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	for _, needle := range []string{"ravi", "r1@example", "98765", "kozhikode", "cse", "acme", "utr9988"} {
		d.SetSearch(needle)
		if len(d.View()) != 1 {
			t.Errorf("search %q missed the record", needle)
		}
	}

	d.SetSearch("nomatch")
	if len(d.View()) != 0 {
		t.Errorf("search %q should match nothing", "nomatch")
	}
}

func TestDashboard_Stats_MissingStatusCountsAsPending(t *testing.T) {
	approved := sampleRegistration("r1", "A", "ACME", ts(0))
	approved.Status = domain.StatusApproved
	rejected := sampleRegistration("r2", "B", "ACME", ts(0))
	rejected.Status = domain.StatusRejected
	missing := sampleRegistration("r3", "C", "ACME", ts(0))
	missing.Status = ""
	pending := sampleRegistration("r4", "D", "ACME", ts(0))

	repo := &mockRegistrationRepository{regs: []*domain.Registration{approved, rejected, missing, pending}}
	d := newTestDashboard(repo)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got := d.Stats()
	want := Stats{Total: 4, Approved: 1, Pending: 2}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestDashboard_EventCounts(t *testing.T) {
	repo := &mockRegistrationRepository{regs: []*domain.Registration{
		sampleRegistration("r1", "A", "Robowar", ts(0)),
		sampleRegistration("r2", "B", "Robowar", ts(0)),
		sampleRegistration("r3", "C", "Robowar", ts(0)),
		sampleRegistration("r4", "D", "ACME", ts(0)),
		sampleRegistration("r5", "E", "ACME", ts(0)),
	}}
	d := newTestDashboard(repo)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	counts := d.EventCounts()
	if counts.All != 5 {
		t.Errorf("all = %d, want 5", counts.All)
	}
	if len(counts.Events) != len(domain.DefaultCatalog()) {
		t.Fatalf("expected one entry per catalog event, got %d", len(counts.Events))
	}
	byName := make(map[string]int)
	for _, ec := range counts.Events {
		byName[ec.Name] = ec.Count
	}
	if byName["Robowar"] != 3 {
		t.Errorf("robowar count = %d, want 3", byName["Robowar"])
	}
	if byName["ACME"] != 2 {
		t.Errorf("acme count = %d, want 2", byName["ACME"])
	}
	if byName["Debate"] != 0 {
		t.Errorf("debate count = %d, want 0", byName["Debate"])
	}
}

func TestDashboard_SetStatus_Transitions(t *testing.T) {
	repo := &mockRegistrationRepository{regs: []*domain.Registration{
		sampleRegistration("r1", "Ravi Kumar", "ACME", ts(0)),
	}}
	d := newTestDashboard(repo)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// No terminal state: every transition is allowed and persisted.
	for _, status := range []domain.Status{domain.StatusApproved, domain.StatusRejected, domain.StatusApproved} {
		if err := d.SetStatus(context.Background(), "r1", status); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		reg, err := d.Get("r1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if reg.Status != status {
			t.Errorf("in-memory status = %s, want %s", reg.Status, status)
		}
	}
	if len(repo.updates) != 3 {
		t.Fatalf("expected 3 persisted updates, got %d", len(repo.updates))
	}
	if repo.updates[1].status != domain.StatusRejected {
		t.Errorf("second update = %s, want rejected", repo.updates[1].status)
	}
}

func TestDashboard_SetStatus_FailureLeavesMemoryUnchanged(t *testing.T) {
	repo := &mockRegistrationRepository{regs: []*domain.Registration{
		sampleRegistration("r1", "Ravi Kumar", "ACME", ts(0)),
	}}
	d := newTestDashboard(repo)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	repo.updateErr = errors.New("write denied")
	if err := d.SetStatus(context.Background(), "r1", domain.StatusApproved); err == nil {
		t.Fatal("expected error")
	}
	reg, _ := d.Get("r1")
	if reg.Status != domain.StatusPending {
		t.Errorf("status mutated despite persist failure: %s", reg.Status)
	}
}

func TestDashboard_SetStatus_InvalidStatus(t *testing.T) {
	repo := &mockRegistrationRepository{}
	d := newTestDashboard(repo)

	err := d.SetStatus(context.Background(), "r1", domain.Status("archived"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Errorf("invalid status must not reach the gateway")
	}
}

func TestDashboard_ViewIsolatedFromStatusUpdates(t *testing.T) {
	repo := &mockRegistrationRepository{regs: []*domain.Registration{
		sampleRegistration("r1", "Ravi Kumar", "ACME", ts(0)),
	}}
	d := newTestDashboard(repo)
	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// A view taken before an update keeps the old status: accessors hand out
	// copies, so encoding a view never reads memory a later update writes.
	before := d.View()
	if err := d.SetStatus(context.Background(), "r1", domain.StatusApproved); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if before[0].Status != domain.StatusPending {
		t.Fatalf("earlier view mutated by status update: %s", before[0].Status)
	}
	got, err := d.Get("r1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want approved", got.Status)
	}

	// Concurrent encodes and updates, as two admins would produce.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			status := domain.StatusApproved
			if i%2 == 1 {
				status = domain.StatusRejected
			}
			if err := d.SetStatus(context.Background(), "r1", status); err != nil {
				t.Errorf("set status failed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if _, err := json.Marshal(d.View()); err != nil {
				t.Errorf("marshal failed: %v", err)
				return
			}
		}
	}()
	wg.Wait()
}

func TestDashboard_Get_NotFound(t *testing.T) {
	d := newTestDashboard(&mockRegistrationRepository{})
	if _, err := d.Get("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
