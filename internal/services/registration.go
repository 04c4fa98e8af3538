package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"colloquium/internal/domain"
)

var (
	phoneRegexp  = regexp.MustCompile(`^\d{10}$`)
	digitsRegexp = regexp.MustCompile(`^[0-9]{1,12}$`)
	mobileRegexp = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)
)

// guardTTL bounds how long a session id stays marked as submitted.
const guardTTL = 12 * time.Hour

type registrationService struct {
	repo    domain.RegistrationRepository
	catalog domain.Catalog
	pricing *PricingService
	email   domain.EmailService
	logger  *slog.Logger
	guard   *submitGuard
}

// NewRegistrationService creates a RegistrationService. email may be nil to
// skip confirmation emails.
func NewRegistrationService(
	repo domain.RegistrationRepository,
	catalog domain.Catalog,
	pricing *PricingService,
	email domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		repo:    repo,
		catalog: catalog,
		pricing: pricing,
		email:   email,
		logger:  logger,
		guard:   newSubmitGuard(guardTTL),
	}
}

func (s *registrationService) Submit(ctx context.Context, input *domain.SubmitInput) (*domain.Registration, error) {
	if input.SessionID != "" && s.guard.submitted(input.SessionID) {
		return nil, domain.ErrAlreadySubmitted
	}

	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	phone := strings.TrimSpace(input.Phone)
	college := strings.TrimSpace(input.College)
	department := strings.TrimSpace(input.Department)
	year := strings.TrimSpace(input.Year)
	event := strings.TrimSpace(input.Event)
	teamDetails := strings.TrimSpace(input.TeamDetails)
	transactionID := strings.TrimSpace(input.TransactionID)
	membership := strings.TrimSpace(input.Membership)
	memberID := strings.TrimSpace(input.MemberID)

	if membership == "" {
		membership = domain.MembershipNonMember
	}

	// Validation short-circuits: first failing rule wins.
	if utf8.RuneCountInString(fullName) < 3 {
		return nil, &domain.ValidationError{Field: "full_name", Message: "Please enter a valid full name (at least 3 characters)."}
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, &domain.ValidationError{Field: "email", Message: "Please enter a valid email address."}
	}
	if !phoneRegexp.MatchString(phone) {
		return nil, &domain.ValidationError{Field: "phone", Message: "Please enter exactly 10 digits for your phone number."}
	}
	if college == "" {
		return nil, &domain.ValidationError{Field: "college", Message: "Please enter your college / institution name."}
	}
	if department == "" {
		return nil, &domain.ValidationError{Field: "department", Message: "Please enter your department."}
	}
	if year == "" {
		return nil, &domain.ValidationError{Field: "year", Message: "Please select your year of study."}
	}
	if event == "" {
		return nil, &domain.ValidationError{Field: "event", Message: "Please select an event to register for."}
	}

	entry, ok := s.catalog.Find(event)
	if !ok {
		return nil, &domain.ValidationError{Field: "event", Message: "Please select an event to register for."}
	}

	isMember := membership == domain.MembershipMember
	amount, priced := ResolvePrice(entry, entry.Category == domain.CategoryIEEE && isMember)

	if input.Flow == domain.FlowQuick {
		// The quick-register page requires the transaction id only while the
		// payment section is shown, and restricts it to at most 12 digits.
		if priced && !digitsRegexp.MatchString(transactionID) {
			return nil, &domain.ValidationError{Field: "transaction_id", Message: "Please enter a valid UPI Transaction ID (digits only, up to 12)."}
		}
	} else {
		if utf8.RuneCountInString(transactionID) < 6 {
			return nil, &domain.ValidationError{Field: "transaction_id", Message: "Please enter a valid UPI Transaction ID (UTR) — at least 6 characters."}
		}
	}

	isIEEE := entry.Category == domain.CategoryIEEE
	if isIEEE && isMember && utf8.RuneCountInString(memberID) < 3 {
		return nil, &domain.ValidationError{Field: "member_id", Message: "Please enter your IEEE Membership ID to avail the member discount."}
	}

	if teamDetails == "" {
		teamDetails = "N/A"
	}

	storedMembership := domain.MembershipNotApplicable
	storedMemberID := domain.MembershipNotApplicable
	if isIEEE {
		storedMembership = membership
		if isMember {
			storedMemberID = memberID
		}
	}

	note := PaymentNote(entry.Name, fullName, input.Flow)
	device := "desktop"
	if mobileRegexp.MatchString(input.UserAgent) {
		device = "mobile"
	}

	reg := &domain.Registration{
		FullName:      fullName,
		Email:         email,
		Phone:         phone,
		College:       college,
		Department:    department,
		Year:          year,
		Event:         entry.Name,
		EventCategory: entry.Category,
		TeamDetails:   teamDetails,
		Membership:    storedMembership,
		MemberID:      storedMemberID,
		Fee:           "₹" + amount,
		UPIPaidTo:     s.pricing.payeeID,
		TxnNote:       note,
		PaymentDevice: device,
		TransactionID: transactionID,
		Status:        domain.StatusPending,
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		// The guard is deliberately not set on failure so the user can retry.
		return nil, fmt.Errorf("create registration: %w", err)
	}

	if input.SessionID != "" {
		s.guard.mark(input.SessionID)
	}

	if s.email != nil {
		data := &domain.RegistrationConfirmationData{
			FullName:      reg.FullName,
			Email:         reg.Email,
			Event:         reg.Event,
			Fee:           reg.Fee,
			TransactionID: reg.TransactionID,
		}
		go func() {
			if err := s.email.SendRegistrationConfirmation(context.Background(), data); err != nil {
				s.logger.Error("confirmation email failed", "email", data.Email, "err", err)
			}
		}()
	}

	return reg, nil
}

// submitGuard blocks duplicate submissions per client session. It mirrors the
// page-local submitted flag: one successful submit locks the session until it
// is reset (or the entry expires).
type submitGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func newSubmitGuard(ttl time.Duration) *submitGuard {
	return &submitGuard{seen: make(map[string]time.Time), ttl: ttl}
}

func (g *submitGuard) submitted(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	at, ok := g.seen[sessionID]
	if !ok {
		return false
	}
	if time.Since(at) > g.ttl {
		delete(g.seen, sessionID)
		return false
	}
	return true
}

func (g *submitGuard) mark(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, at := range g.seen {
		if time.Since(at) > g.ttl {
			delete(g.seen, id)
		}
	}
	g.seen[sessionID] = time.Now()
}
