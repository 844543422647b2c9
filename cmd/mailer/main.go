// Command mailer delivers the account emails published to Kafka by the API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"natours/internal/config"
	"natours/internal/logger"
	"natours/internal/mail"
)

func main() {
	cfg := config.Load()
	log := logger.WithComponent(logger.New(cfg.LogLevel, cfg.Env), "mailer")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender mail.Sender = mail.NewLogSender(log)
	if cfg.MailFrom != "" {
		ses, err := mail.NewSESSender(ctx, cfg.AWSRegion, cfg.MailFrom, cfg.MailFromName)
		if err != nil {
			log.Fatal("ses init", zap.Error(err))
		}
		sender = ses
	} else {
		log.Warn("MAIL_FROM not configured, emails are only logged")
	}

	consumer := mail.NewKafkaConsumer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaGroupID, cfg.KafkaUsername, cfg.KafkaPassword, sender, log)
	defer consumer.Close()

	log.Info("consuming mail events", zap.String("topic", cfg.KafkaTopic), zap.String("group", cfg.KafkaGroupID))
	if err := consumer.Run(ctx); err != nil {
		log.Fatal("consumer stopped", zap.Error(err))
	}
}
