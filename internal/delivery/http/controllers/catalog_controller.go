package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"colloquium/internal/delivery/http/helpers"
	"colloquium/internal/domain"
	"colloquium/internal/services"
)

type CatalogController struct {
	Logger  *slog.Logger
	Catalog domain.Catalog
	Pricing *services.PricingService
}

func NewCatalogController(logger *slog.Logger, catalog domain.Catalog, pricing *services.PricingService) *CatalogController {
	return &CatalogController{Logger: logger, Catalog: catalog, Pricing: pricing}
}

// ListEventsSuccessResponse is the success envelope for GET /catalog/events (200).
type ListEventsSuccessResponse struct {
	Data  []domain.CatalogEntry `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListEvents godoc
// @Summary List the event catalog
// @Description Returns the static event catalog with categories and prices.
// @Tags catalog
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Router /catalog/events [get]
func (c *CatalogController) ListEvents(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, []domain.CatalogEntry(c.Catalog))
}

// PaymentPreviewSuccessResponse is the success envelope for GET /payments/preview (200).
// Data is null when no event is selected, in which case the payment section
// stays hidden.
type PaymentPreviewSuccessResponse struct {
	Data  *services.PaymentPreview `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// PaymentPreview godoc
// @Summary Resolve price and payment link for an event selection
// @Description Resolves the fee for the event and membership selection and builds the UPI deep link and transaction note. IEEE events price by membership; other categories have a flat price. Without an event parameter data is null.
// @Tags catalog
// @Produce json
// @Param event query string false "Event name (exact catalog match)"
// @Param name query string false "Participant name for the transaction note"
// @Param membership query string false "member or non-member (default non-member)"
// @Param flow query string false "registration (default) or quick"
// @Success 200 {object} controllers.PaymentPreviewSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown event)"
// @Router /payments/preview [get]
func (c *CatalogController) PaymentPreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flow := domain.FlowRegistration
	if q.Get("flow") == string(domain.FlowQuick) {
		flow = domain.FlowQuick
	}
	// Changing the event resets membership to non-member on the form, so the
	// preview defaults the same way.
	isMember := q.Get("membership") == domain.MembershipMember

	preview, err := c.Pricing.Preview(q.Get("event"), q.Get("name"), isMember, flow)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, preview)
}
