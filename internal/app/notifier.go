package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Wael-BenAbid/vfRH/internal/notification"
	"github.com/Wael-BenAbid/vfRH/internal/notification/notifier"
	"github.com/Wael-BenAbid/vfRH/internal/shared/connection"

	"go.uber.org/zap"
)

// RunNotifier consumes notification events from the broker and delivers
// them as email.
func RunNotifier() error {
	logger := zap.L().Named("app.notifier")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("SMTP_PORT must be a number: %w", err)
	}

	mailer := notification.NewSMTPMailer(
		os.Getenv("SMTP_HOST"),
		smtpPort,
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("SMTP_FROM"),
	)

	reader := connection.NewKafkaReader(kafkaBroker, notification.Topic, "vfrh-notifier")
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go notifier.ConsumeMailEvents(ctx, reader, mailer, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("notifier shutting down")
	cancel()

	return nil
}
