package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"natours/internal/model"
)

const (
	KindConfirm = "confirm"
	KindWelcome = "welcome"
	KindReset   = "reset"
)

// Mailer composes the account emails and hands them to a Sender.
type Mailer struct {
	sender  Sender
	baseURL string
}

// NewMailer creates a mailer whose links point at baseURL.
func NewMailer(sender Sender, baseURL string) *Mailer {
	return &Mailer{sender: sender, baseURL: strings.TrimRight(baseURL, "/")}
}

// SendConfirmation mails the account verification link.
func (m *Mailer) SendConfirmation(ctx context.Context, user *model.User, token string) error {
	link := m.baseURL + "/api/v1/users/signup/confirm_account?confirmation_token=" + url.QueryEscape(token)
	return m.send(ctx, user, "Please confirm your Natours account", templateData{
		Heading: "Confirm your account",
		Lines: []string{
			"Thanks for signing up to Natours.",
			"Please verify your email address to start booking tours.",
		},
		Action: "Confirm my account",
		URL:    link,
	})
}

// SendWelcome greets a freshly verified user.
func (m *Mailer) SendWelcome(ctx context.Context, user *model.User) error {
	return m.send(ctx, user, "Welcome to the Natours Family!", templateData{
		Heading: "Welcome to Natours",
		Lines: []string{
			"Your email is verified and your account is ready.",
			"We're glad to have you. Go find your next adventure!",
		},
		Action: "Browse tours",
		URL:    m.baseURL + "/api/v1/tours",
	})
}

// SendPasswordReset mails the single-use reset link.
func (m *Mailer) SendPasswordReset(ctx context.Context, user *model.User, token string) error {
	link := m.baseURL + "/api/v1/users/resetPassword?reset_token=" + url.QueryEscape(token)
	return m.send(ctx, user, "Your password reset token (valid for only 10 minutes)", templateData{
		Heading: "Reset your password",
		Lines: []string{
			"Forgot your password? Submit a PATCH request with your new password and passwordConfirm to the link below.",
			"If you didn't forget your password, please ignore this email.",
		},
		Action: "Reset password",
		URL:    link,
	})
}

func (m *Mailer) send(ctx context.Context, user *model.User, subject string, data templateData) error {
	data.FirstName = firstName(user.Name)

	var html, text bytes.Buffer
	if err := htmlLayout.Execute(&html, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if err := textLayout.Execute(&text, data); err != nil {
		return fmt.Errorf("render text: %w", err)
	}

	return m.sender.Send(ctx, Message{
		To:       user.Email,
		ToName:   user.Name,
		Subject:  subject,
		HTMLBody: html.String(),
		TextBody: text.String(),
	})
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}
