package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"colloquium/internal/domain"
)

// FilterAll is the sentinel event filter meaning "no filter".
const FilterAll = "all"

// Stats summarizes the loaded registration set. A missing status counts as
// pending.
type Stats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
}

// EventCount is the number of registrations for one known event.
type EventCount struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// EventCounts reports per-event counts over the fixed catalog plus the grand
// total. Events with zero registrations are present with count zero.
type EventCounts struct {
	All    int          `json:"all"`
	Events []EventCount `json:"events"`
}

// Dashboard is the admin list view-model: the in-memory registration set with
// its active filter and search state. It is the only admin-side write path
// (status transitions). All mutation happens behind the mutex; a load
// replaces the whole set atomically.
type Dashboard struct {
	repo    domain.RegistrationRepository
	catalog domain.Catalog
	logger  *slog.Logger

	mu      sync.Mutex
	regs    []*domain.Registration
	filter  string
	search  string
	message string
	loadGen uint64
}

// NewDashboard returns an empty Dashboard; call Load before reading views.
func NewDashboard(repo domain.RegistrationRepository, catalog domain.Catalog, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		filter:  FilterAll,
	}
}

// Load fetches all registrations and replaces the in-memory set, sorted
// newest first. Records without a timestamp compare equal and keep their
// relative order. Overlapping loads are resolved last-request-wins: a fetch
// that completes after a newer one started is discarded.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	d.loadGen++
	gen := d.loadGen
	d.mu.Unlock()

	regs, err := d.repo.ListAll(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.loadGen {
		d.logger.Debug("discarding stale registration load", "gen", gen, "latest", d.loadGen)
		return nil
	}

	if err != nil {
		d.regs = nil
		d.message = loadErrorMessage(err)
		return fmt.Errorf("load registrations: %w", err)
	}

	sort.SliceStable(regs, func(i, j int) bool {
		a, b := regs[i].CreatedAt, regs[j].CreatedAt
		if a == nil || b == nil {
			return false
		}
		return a.After(*b)
	})

	d.regs = regs
	if len(regs) == 0 {
		d.message = "No registrations found in database"
	} else {
		d.message = ""
	}
	return nil
}

func loadErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return "Permission denied. Please check database access rules."
	case errors.Is(err, domain.ErrUnavailable):
		return "Database is unavailable. Please check your connection."
	default:
		return "Error: " + err.Error()
	}
}

// SetFilter sets the active event filter. The filter persists across
// searches and status updates.
func (d *Dashboard) SetFilter(event string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if event == "" {
		event = FilterAll
	}
	d.filter = event
}

// Filter returns the active event filter.
func (d *Dashboard) Filter() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// SetSearch sets the active search text.
func (d *Dashboard) SetSearch(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.search = text
}

// Message returns the empty/error state text, or "" when data is loaded.
func (d *Dashboard) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}

// View returns the registrations visible under the active filter and search.
// The filter restricts first; the search is then an OR-substring match.
func (d *Dashboard) View() []*domain.Registration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visibleLocked(true)
}

// FilterOnlyView returns the filtered set ignoring the search text. Export
// always works from this set.
func (d *Dashboard) FilterOnlyView() []*domain.Registration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visibleLocked(false)
}

// visibleLocked returns copies of the visible records. Callers encode and
// display them outside the lock, so they must never share memory with the
// set SetStatus mutates.
func (d *Dashboard) visibleLocked(applySearch bool) []*domain.Registration {
	needle := strings.ToLower(d.search)
	out := make([]*domain.Registration, 0, len(d.regs))
	for _, reg := range d.regs {
		if d.filter != FilterAll && reg.Event != d.filter {
			continue
		}
		if applySearch && needle != "" && !matchesSearch(reg, needle) {
			continue
		}
		c := *reg
		out = append(out, &c)
	}
	return out
}

func matchesSearch(reg *domain.Registration, needle string) bool {
	fields := []string{
		reg.FullName,
		reg.Email,
		reg.Phone,
		reg.College,
		reg.Department,
		reg.Year,
		reg.Event,
		reg.TransactionID,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Get returns a copy of the loaded registration with the given id.
func (d *Dashboard) Get(id string) (*domain.Registration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, reg := range d.regs {
		if reg.ID == id {
			c := *reg
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Stats computes total/approved/pending counts over the full loaded set.
func (d *Dashboard) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Stats{Total: len(d.regs)}
	for _, reg := range d.regs {
		switch reg.EffectiveStatus() {
		case domain.StatusApproved:
			s.Approved++
		case domain.StatusPending:
			s.Pending++
		}
	}
	return s
}

// EventCounts computes per-event counts over the catalog's fixed enumeration
// plus the grand total.
func (d *Dashboard) EventCounts() EventCounts {
	d.mu.Lock()
	defer d.mu.Unlock()
	counts := EventCounts{All: len(d.regs)}
	for _, entry := range d.catalog {
		n := 0
		for _, reg := range d.regs {
			if reg.Event == entry.Name {
				n++
			}
		}
		counts.Events = append(counts.Events, EventCount{Name: entry.Name, Slug: entry.Slug, Count: n})
	}
	return counts
}

// SetStatus transitions a registration to the given status. Every status is
// reachable from every other; there is no terminal state. The change is
// persisted first and the in-memory copy mutated only on acknowledged
// success. Concurrent updates are last-write-wins at the gateway.
func (d *Dashboard) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return err
	}
	if err := d.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, reg := range d.regs {
		if reg.ID == id {
			reg.Status = status
			break
		}
	}
	return nil
}
