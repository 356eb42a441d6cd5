package ws

import "errors"

var (
	errHubSaturated = errors.New("websocket hub saturated")
	errHubStopped   = errors.New("websocket hub stopped")
)
