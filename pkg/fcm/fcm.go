package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Client sends push messages to registered browser and mobile devices.
type Client struct {
	messagingClient *messaging.Client
}

// NewClient builds a Firebase messaging client from a service-account file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized")
	return &Client{messagingClient: messagingClient}, nil
}

// Message is the device-facing part of a notification.
type Message struct {
	Title string
	Body  string
	Link  string            // opened by the web push handler on click
	Data  map[string]string // must be flat strings for FCM
}

// SendToDevices multicasts msg and returns the tokens FCM rejected so the
// caller can prune them.
func (c *Client) SendToDevices(ctx context.Context, tokens []string, msg Message) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	multicast := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
				Icon:  "/icon-192.png",
			},
		},
	}
	if msg.Link != "" {
		multicast.Webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: msg.Link}
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, multicast)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast: %w", err)
	}

	var failed []string
	for i, resp := range response.Responses {
		if !resp.Success {
			failed = append(failed, tokens[i])
		}
	}
	log.Printf("[FCM] Multicast sent: %d ok, %d failed", response.SuccessCount, response.FailureCount)
	return failed, nil
}
