package services

import (
	"fmt"
	"net/url"
	"strings"

	"colloquium/internal/domain"
)

type PricingService struct {
	catalog   domain.Catalog
	payeeID   string
	payeeName string
}

// PaymentPreview is the resolved payment details for an event selection.
type PaymentPreview struct {
	Event     string `json:"event"`
	Amount    string `json:"amount"`
	Note      string `json:"note"`
	UPIURI    string `json:"upi_uri"`
	PayeeID   string `json:"payee_id"`
	PayeeName string `json:"payee_name"`
}

// NewPricingService returns a PricingService over the given catalog. The
// payee id and name identify the UPI account receiving registration fees.
func NewPricingService(catalog domain.Catalog, payeeID, payeeName string) *PricingService {
	return &PricingService{catalog: catalog, payeeID: payeeID, payeeName: payeeName}
}

// ResolvePrice returns the fee for the given entry. IEEE events split on
// membership; all other categories have a single flat price. The second
// return is false when no event is selected, in which case callers must hide
// the payment section.
func ResolvePrice(entry *domain.CatalogEntry, isMember bool) (string, bool) {
	if entry == nil || entry.Name == "" {
		return "", false
	}
	if entry.Category == domain.CategoryIEEE {
		if isMember {
			return entry.MemberPrice, true
		}
		return entry.NonMemberPrice, true
	}
	return entry.Price, true
}

// PaymentNote builds the transaction note for a flow. The registration page
// uses "<event> - <name>"; the quick-register page uses
// "<event>_<name>" with all spaces collapsed to underscores.
func PaymentNote(event, participant string, flow domain.Flow) string {
	if flow == domain.FlowQuick {
		if participant == "" {
			participant = "Participant"
		}
		safeEvent := strings.Join(strings.Fields(event), "_")
		safeName := strings.Join(strings.Fields(participant), "_")
		return safeEvent + "_" + safeName
	}
	if participant == "" {
		participant = "User"
	}
	return event + " - " + participant
}

// PaymentURI builds a upi://pay deep link with all dynamic segments
// percent-encoded.
func (s *PricingService) PaymentURI(amount, note string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s",
		escapeURIComponent(s.payeeID),
		escapeURIComponent(s.payeeName),
		escapeURIComponent(amount),
		escapeURIComponent(note),
	)
}

// Preview resolves the price and payment link for an event selection.
// Returns (nil, nil) when eventName is empty: no event selected means no
// payment section. Returns ErrNotFound for an unknown event.
func (s *PricingService) Preview(eventName, participant string, isMember bool, flow domain.Flow) (*PaymentPreview, error) {
	if eventName == "" {
		return nil, nil
	}
	entry, ok := s.catalog.Find(eventName)
	if !ok {
		return nil, domain.ErrNotFound
	}
	amount, ok := ResolvePrice(entry, isMember)
	if !ok {
		return nil, nil
	}
	note := PaymentNote(entry.Name, strings.TrimSpace(participant), flow)
	return &PaymentPreview{
		Event:     entry.Name,
		Amount:    amount,
		Note:      note,
		UPIURI:    s.PaymentURI(amount, note),
		PayeeID:   s.payeeID,
		PayeeName: s.payeeName,
	}, nil
}

// escapeURIComponent percent-encodes like JS encodeURIComponent: spaces
// become %20, not +.
func escapeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
