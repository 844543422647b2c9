package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them. Used in development.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("mail",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.TextBody))
	return nil
}
