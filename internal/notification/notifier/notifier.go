package notifier

import (
	"context"
	"encoding/json"

	"github.com/Wael-BenAbid/vfRH/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeMailEvents delivers notification events as email. Offsets commit
// only after a successful send, so delivery is at-least-once; the state
// transition that produced the event has long since committed and is never
// affected by a delivery failure.
func ConsumeMailEvents(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer notification.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("notification.notifier")
	log.Info("mail notifier started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("mail notifier stopped")
				return
			}
			log.Error("fetch mail event failed", zap.Error(err))
			continue
		}

		var event notification.MailEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// poison message, drop it
			log.Error("decode mail event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := mailer.Send(event.Recipient, event.Subject, event.Body); err != nil {
			log.Error("send mail failed",
				zap.String("event_type", event.EventType),
				zap.String("recipient", event.Recipient),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit mail event failed", zap.Error(err))
			continue
		}

		log.Info("mail sent",
			zap.String("event_type", event.EventType),
			zap.String("recipient", event.Recipient),
		)
	}
}
