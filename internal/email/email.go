// Package email delivers transactional mail for the application.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers transactional emails.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, firstName, organisationName string) error
}

const subjectWelcome = "Welcome aboard"

type baseEmailData struct {
	Title   string
	Heading string
}

type welcomeEmailData struct {
	baseEmailData
	FirstName        string
	OrganisationName string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// NoopSender drops all mail. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(context.Context, string, string, string) error { return nil }

var _ Sender = NoopSender{}
