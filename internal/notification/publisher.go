package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	authrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/channel"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/fcm"
)

// Publisher delivers a notification payload to one user over some transport.
type Publisher interface {
	Publish(ctx context.Context, userID uint, payload notifdomain.Payload) error
}

// FanOut publishes to every configured transport and joins their errors.
type FanOut []Publisher

func (f FanOut) Publish(ctx context.Context, userID uint, payload notifdomain.Payload) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, userID, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PusherPublisher triggers the notification event on the user's private channel.
type PusherPublisher struct {
	publisher *channel.Publisher
}

func NewPusherPublisher(client channel.Client) *PusherPublisher {
	return &PusherPublisher{publisher: channel.NewPublisher(client)}
}

func (p *PusherPublisher) Publish(_ context.Context, userID uint, payload notifdomain.Payload) error {
	return p.publisher.PublishToUser(userID, payload)
}

// SocketHub is the in-process WebSocket hub.
type SocketHub interface {
	PublishToUser(userID uint, event string, payload interface{}) error
}

type HubPublisher struct {
	hub SocketHub
}

func NewHubPublisher(hub SocketHub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, userID uint, payload notifdomain.Payload) error {
	if err := p.hub.PublishToUser(userID, channel.NotificationEvent, payload); err != nil {
		return fmt.Errorf("websocket publish: %w", err)
	}
	return nil
}

// DevicePusher is the FCM client.
type DevicePusher interface {
	SendToDevices(ctx context.Context, tokens []string, msg fcm.Message) ([]string, error)
}

// FCMPublisher pushes to every device the user registered and prunes tokens
// Firebase rejects.
type FCMPublisher struct {
	client      DevicePusher
	tokens      authrepo.FCMTokenRepository
	frontendURL string
}

func NewFCMPublisher(client DevicePusher, tokens authrepo.FCMTokenRepository, frontendURL string) *FCMPublisher {
	return &FCMPublisher{client: client, tokens: tokens, frontendURL: frontendURL}
}

func (p *FCMPublisher) Publish(ctx context.Context, userID uint, payload notifdomain.Payload) error {
	registered, err := p.tokens.GetTokensByUserID(userID)
	if err != nil {
		return fmt.Errorf("load device tokens: %w", err)
	}
	if len(registered) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(registered))
	for _, t := range registered {
		tokens = append(tokens, t.Token)
	}

	data := map[string]string{
		"id":   payload.ID,
		"type": string(payload.Type),
	}
	if payload.Resource != nil {
		data["resourceKind"] = string(payload.Resource.Kind)
		data["resourceId"] = strconv.FormatUint(uint64(payload.Resource.ID), 10)
	}

	failed, err := p.client.SendToDevices(ctx, tokens, fcm.Message{
		Title: payload.Title,
		Body:  payload.Message,
		Link:  DeepLink(p.frontendURL, payload.Resource),
		Data:  data,
	})
	if err != nil {
		return err
	}

	if len(failed) > 0 {
		log.Printf("[FCM] Pruning %d invalid tokens for user %d", len(failed), userID)
		if err := p.tokens.DeleteTokens(failed); err != nil {
			log.Printf("[FCM] Failed to prune tokens: %v", err)
		}
	}
	return nil
}

// BusPublisher is the Pub/Sub topic publisher.
type BusPublisher interface {
	Publish(ctx context.Context, userID uint, event string, payload interface{}) error
}

type EventBusPublisher struct {
	bus BusPublisher
}

func NewEventBusPublisher(bus BusPublisher) *EventBusPublisher {
	return &EventBusPublisher{bus: bus}
}

func (p *EventBusPublisher) Publish(ctx context.Context, userID uint, payload notifdomain.Payload) error {
	return p.bus.Publish(ctx, userID, channel.NotificationEvent, payload)
}
