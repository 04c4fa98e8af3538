package domain

import "context"

// Mailer sends a single email message.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named template set into subject, html, and
// text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// RegistrationConfirmationData feeds the registration_confirmed template.
type RegistrationConfirmationData struct {
	FullName      string
	Email         string
	Event         string
	Fee           string
	TransactionID string
}

// EmailService sends application emails.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationConfirmationData) error
}
