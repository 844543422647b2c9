// Package mail renders account emails and delivers them through SES, Kafka or the log.
package mail

import "context"

// Message is a fully rendered email.
type Message struct {
	To       string `json:"to"`
	ToName   string `json:"toName"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
	TextBody string `json:"textBody"`
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Event is the Kafka payload consumed by cmd/mailer.
type Event struct {
	Kind    string  `json:"kind"`
	Message Message `json:"message"`
}
