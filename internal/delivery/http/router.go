package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"colloquium/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// requireAuth wraps every /admin and /auth/me handler.
func NewRouter(
	registrationController *controllers.RegistrationController,
	catalogController *controllers.CatalogController,
	authController *controllers.AuthController,
	adminController *controllers.AdminController,
	requireAuth func(http.HandlerFunc) http.HandlerFunc,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /catalog/events", catalogController.ListEvents)
	mux.HandleFunc("GET /payments/preview", catalogController.PaymentPreview)
	mux.HandleFunc("POST /registrations", registrationController.Submit)

	// Auth
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /auth/me", requireAuth(authController.Me))

	// Admin dashboard
	mux.HandleFunc("POST /admin/registrations/refresh", requireAuth(adminController.Refresh))
	mux.HandleFunc("GET /admin/registrations", requireAuth(adminController.List))
	mux.HandleFunc("GET /admin/registrations/{id}", requireAuth(adminController.Details))
	mux.HandleFunc("PATCH /admin/registrations/{id}/status", requireAuth(adminController.UpdateStatus))
	mux.HandleFunc("PUT /admin/filter", requireAuth(adminController.SetFilter))
	mux.HandleFunc("PUT /admin/search", requireAuth(adminController.SetSearch))
	mux.HandleFunc("GET /admin/stats", requireAuth(adminController.Stats))
	mux.HandleFunc("GET /admin/event-counts", requireAuth(adminController.EventCounts))
	mux.HandleFunc("GET /admin/export", requireAuth(adminController.Export))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
