package scoring

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"cloud.google.com/go/pubsub"
)

// ContentTypeMsgpack marks binary frames in the "content-type" message attribute.
const ContentTypeMsgpack = "application/msgpack"

func isBinary(attrs map[string]string) bool {
	return attrs["content-type"] == ContentTypeMsgpack
}

// Subscriber pulls PSS frames from a Pub/Sub subscription, for venues where the
// consoles publish to a queue instead of holding a socket open.
type Subscriber struct {
	client *pubsub.Client
	sub    *pubsub.Subscription
	ingest FrameHandler
	logger *slog.Logger
}

func NewSubscriber(ctx context.Context, projectID, subscriptionID string, ingest FrameHandler, logger *slog.Logger) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sub := client.Subscription(subscriptionID)
	// Один обработчик за раз сохраняет порядок действий внутри матча.
	sub.ReceiveSettings.NumGoroutines = 1
	sub.ReceiveSettings.MaxOutstandingMessages = 1
	return &Subscriber{
		client: client,
		sub:    sub,
		ingest: ingest,
		logger: logger.With(slog.String("component", "pss_subscriber"), slog.String("subscription", subscriptionID)),
	}, nil
}

// Run blocks until ctx is cancelled. Messages are always acked: a frame that failed
// once fails again on redelivery.
func (s *Subscriber) Run(ctx context.Context) error {
	s.logger.Info("PSS subscriber started")
	err := s.sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		_ = s.ingest.Handle(ctx, msg.Data, isBinary(msg.Attributes))
		msg.Ack()
	})
	s.logger.Info("PSS subscriber stopped")
	return err
}

func (s *Subscriber) Close() error {
	return s.client.Close()
}

// PushHandler serves Pub/Sub push deliveries on /pubsub/pss.
func PushHandler(ingest FrameHandler, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("Failed to read push body", slog.Any("error", err))
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		var push struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data       string            `json:"data"`
				Attributes map[string]string `json:"attributes"`
				MessageID  string            `json:"messageId"`
			} `json:"message"`
		}
		if err := json.Unmarshal(body, &push); err != nil {
			logger.Error("Failed to unmarshal push wrapper", slog.Any("error", err))
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		raw, err := base64.StdEncoding.DecodeString(push.Message.Data)
		if err != nil {
			logger.Error("Failed to decode push data", slog.String("message_id", push.Message.MessageID), slog.Any("error", err))
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		// Ответ 2xx подтверждает сообщение; ошибки обработки повторять бессмысленно.
		_ = ingest.Handle(r.Context(), raw, isBinary(push.Message.Attributes))
		w.WriteHeader(http.StatusNoContent)
	}
}
