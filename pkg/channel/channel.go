// Package channel wraps the hosted real-time channel provider (Pusher).
package channel

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/pusher/pusher-http-go/v5"
)

// NotificationEvent is the event name clients bind to on their private channel.
const NotificationEvent = "notification"

// Client is the subset of the Pusher SDK the service uses.
type Client interface {
	Trigger(channel string, eventName string, data interface{}) error
	AuthorizePrivateChannel(params []byte) ([]byte, error)
}

// Options holds Pusher application credentials.
type Options struct {
	AppID   string
	Key     string
	Secret  string
	Cluster string
}

// NewPusher constructs the process-wide Pusher client. It is built once at
// startup and handed to every component that publishes or authorizes.
func NewPusher(opts Options) *pusher.Client {
	return &pusher.Client{
		AppID:   opts.AppID,
		Key:     opts.Key,
		Secret:  opts.Secret,
		Cluster: opts.Cluster,
		Secure:  true,
	}
}

// PrivateUserChannel is the only channel a user may subscribe to.
func PrivateUserChannel(userID uint) string {
	return "private-user-" + strconv.FormatUint(uint64(userID), 10)
}

// AuthParams encodes the form body the SDK expects when signing a subscription.
func AuthParams(channelName, socketID string) []byte {
	v := url.Values{}
	v.Set("channel_name", channelName)
	v.Set("socket_id", socketID)
	return []byte(v.Encode())
}

// Publisher triggers notification events on users' private channels.
type Publisher struct {
	client Client
}

func NewPublisher(client Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishToUser(userID uint, payload interface{}) error {
	ch := PrivateUserChannel(userID)
	if err := p.client.Trigger(ch, NotificationEvent, payload); err != nil {
		return fmt.Errorf("pusher trigger on %s: %w", ch, err)
	}
	return nil
}
