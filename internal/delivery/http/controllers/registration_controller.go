package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"colloquium/internal/delivery/http/helpers"
	"colloquium/internal/domain"
)

// alreadySubmittedMessage is the duplicate-submission guard message.
const alreadySubmittedMessage = "You have already submitted. Refresh the page to register again."

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{Logger: logger, Service: svc}
}

// SubmitRegistrationRequest is the request body for POST /registrations.
type SubmitRegistrationRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	College       string `json:"college"`
	Department    string `json:"department"`
	Year          string `json:"year"`
	Event         string `json:"event"`
	TeamDetails   string `json:"team_details"`
	Membership    string `json:"membership"`
	MemberID      string `json:"member_id"`
	TransactionID string `json:"transaction_id"`
	Flow          string `json:"flow"`
}

// SubmitRegistrationSuccessResponse is the success envelope for POST /registrations (201).
type SubmitRegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Submit godoc
// @Summary Submit a registration
// @Description Validates the form fields in order (first failure wins) and creates exactly one pending registration. A session that already submitted (X-Session-ID header) is rejected until reset.
// @Tags registration
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Client session id for the duplicate-submission guard"
// @Param body body controllers.SubmitRegistrationRequest true "Registration form fields"
// @Success 201 {object} controllers.SubmitRegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (validation message)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already submitted)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [post]
func (c *RegistrationController) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	flow := domain.FlowRegistration
	if req.Flow == string(domain.FlowQuick) {
		flow = domain.FlowQuick
	}

	input := &domain.SubmitInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		College:       req.College,
		Department:    req.Department,
		Year:          req.Year,
		Event:         req.Event,
		TeamDetails:   req.TeamDetails,
		Membership:    req.Membership,
		MemberID:      req.MemberID,
		TransactionID: req.TransactionID,
		SessionID:     r.Header.Get("X-Session-ID"),
		UserAgent:     r.Header.Get("User-Agent"),
		Flow:          flow,
	}

	reg, err := c.Service.Submit(r.Context(), input)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, vErr.Message)
			return
		}
		if errors.Is(err, domain.ErrAlreadySubmitted) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, alreadySubmittedMessage)
			return
		}
		// Gateway failures surface their raw message so the user can retry.
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}
