package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Publisher forwards user notifications to a Pub/Sub topic so that other
// services (mobile gateways, analytics) can consume them.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

func NewPublisher(ctx context.Context, projectID, topicName, credentialsFile string) (*Publisher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to check topic %s: %w", topicName, err)
	}
	if !exists {
		if topic, err = client.CreateTopic(ctx, topicName); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to create topic %s: %w", topicName, err)
		}
		log.Printf("[PubSub] Created topic: %s", topicName)
	}

	return &Publisher{client: client, topic: topic}, nil
}

// Publish sends payload as JSON with the recipient in the message attributes
// and waits for the server ack.
func (p *Publisher) Publish(ctx context.Context, userID uint, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"userId": strconv.FormatUint(uint64(userID), 10),
			"event":  event,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("pubsub publish failed: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
