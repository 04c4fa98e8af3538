package domain

import (
	"context"
	"time"
)

// Status is the review state of a registration.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a raw status string. Every status is reachable from
// every other, so any valid value is an acceptable transition target.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", ErrInvalidInput
}

// Membership values stored on a registration. NotApplicable is stored for
// events outside the IEEE category.
const (
	MembershipMember        = "member"
	MembershipNonMember     = "non-member"
	MembershipNotApplicable = "N/A"
)

// Registration represents one submitted conference registration.
// All fields except Status are write-once; the ID and CreatedAt are assigned
// by the repository on create.
// swagger:model Registration
type Registration struct {
	ID            string     `json:"id"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	College       string     `json:"college"`
	Department    string     `json:"department"`
	Year          string     `json:"year"`
	Event         string     `json:"event"`
	EventCategory Category   `json:"event_category"`
	TeamDetails   string     `json:"team_details"`
	Membership    string     `json:"membership"`
	MemberID      string     `json:"member_id"`
	Fee           string     `json:"fee"`
	UPIPaidTo     string     `json:"upi_paid_to"`
	TxnNote       string     `json:"txn_note"`
	PaymentDevice string     `json:"payment_device"`
	TransactionID string     `json:"transaction_id"`
	CreatedAt     *time.Time `json:"created_at"`
	Status        Status     `json:"status"`
}

// EffectiveStatus treats a missing status as pending.
func (r *Registration) EffectiveStatus() Status {
	if r.Status == "" {
		return StatusPending
	}
	return r.Status
}

// RegistrationRepository defines storage operations for registrations.
// ListAll returns the entire collection; ordering is left to callers.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	ListAll(ctx context.Context) ([]*Registration, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// Flow identifies which registration surface a submission came from. The two
// surfaces differ in transaction-id rules and payment note format.
type Flow string

const (
	// FlowRegistration is the full registration page.
	FlowRegistration Flow = "registration"
	// FlowQuick is the quick-register page embedded on the landing site.
	FlowQuick Flow = "quick"
)

// SubmitInput carries the raw form fields of a registration submission.
type SubmitInput struct {
	FullName      string
	Email         string
	Phone         string
	College       string
	Department    string
	Year          string
	Event         string
	TeamDetails   string
	Membership    string
	MemberID      string
	TransactionID string

	// SessionID keys the duplicate-submission guard. Empty means no guard.
	SessionID string
	// UserAgent is used to record the payment device.
	UserAgent string
	Flow      Flow
}

// RegistrationService validates and persists registration submissions.
type RegistrationService interface {
	Submit(ctx context.Context, input *SubmitInput) (*Registration, error)
}

// ValidationError reports a single failed validation rule with the
// user-facing message for it. Validation short-circuits, so a submission
// yields at most one ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
