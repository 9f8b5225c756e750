package realtime

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Sink receives telemetry for a room. Hub and PubSubPublisher both implement it.
type Sink interface {
	Notify(roomID, msgType string, payload interface{})
}

// Fanout forwards every notification to each sink in order.
type Fanout []Sink

func (f Fanout) Notify(roomID, msgType string, payload interface{}) {
	for _, s := range f {
		if s != nil {
			s.Notify(roomID, msgType, payload)
		}
	}
}

const publishTimeout = 10 * time.Second

// PubSubPublisher mirrors telemetry to a Pub/Sub topic as MessagePack so that scoreboards
// and downstream consumers outside this process can subscribe.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	logger *slog.Logger
}

func NewPubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &PubSubPublisher{
		client: client,
		topic:  client.Topic(topicID),
		logger: logger.With(slog.String("component", "pubsub_publisher"), slog.String("topic", topicID)),
	}, nil
}

func encodeMessage(msg WebSocketMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *PubSubPublisher) Notify(roomID, msgType string, payload interface{}) {
	msg := WebSocketMessage{
		ID:      uuid.NewString(),
		Type:    msgType,
		Payload: payload,
		RoomID:  roomID,
		SentAt:  time.Now().UTC(),
	}
	data, err := encodeMessage(msg)
	if err != nil {
		p.logger.Error("MessagePack marshal error", slog.String("type", msgType), slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"type": msgType,
			"room": roomID,
		},
	})
	go func() {
		defer cancel()
		serverID, err := result.Get(ctx)
		if err != nil {
			p.logger.Error("failed to publish telemetry", slog.String("type", msgType), slog.Any("error", err))
			return
		}
		p.logger.Debug("telemetry published", slog.String("type", msgType), slog.String("server_id", serverID))
	}()
}

func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
