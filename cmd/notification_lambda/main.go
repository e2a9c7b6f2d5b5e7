package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/referral-ledger/pkg/notify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Handler delivers notifications from the outbox queue.
type Handler struct {
	Notifier notify.Notifier
}

// HandleRequest delivers each message. Messages that cannot be decoded are
// dropped; messages whose delivery fails are reported back to SQS for retry.
func (h *Handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		n, err := notify.Decode(message.Body)
		if err != nil {
			log.Printf("ERROR: dropping undecodable message %s: %v", message.MessageId, err)
			continue
		}

		if err := h.Notifier.Notify(ctx, n); err != nil {
			log.Printf("ERROR: failed to deliver %s notification from message %s: %v", n.Kind, message.MessageId, err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}

		log.Printf("Delivered %s notification to %s", n.Kind, n.Recipient)
	}
	return resp, nil
}

func main() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	viper.AutomaticEnv()

	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		log.Fatal("BOT_TOKEN environment variable not set")
	}
	notifier, err := notify.NewTelegramNotifier(token)
	if err != nil {
		log.Fatalf("unable to create notifier: %v", err)
	}

	h := &Handler{Notifier: notifier}
	lambda.Start(h.HandleRequest)
}
