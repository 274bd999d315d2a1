package remote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

// Bus bridges session traffic through Valkey pub/sub so several relay
// instances can serve the same session. Frames are prefixed with the
// publishing instance's id so a relay never replays its own traffic.
type Bus struct {
	client  valkey.Client
	channel string
	id      string
	log     *slog.Logger
}

// NewBus connects to Valkey. channel is the pub/sub channel prefix; each
// session publishes on "<channel>:<session>".
func NewBus(addr, channel string, log *slog.Logger) (*Bus, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("connect valkey %s: %w", addr, err)
	}
	return &Bus{client: client, channel: channel, id: uuid.NewString(), log: log}, nil
}

func (b *Bus) Close() { b.client.Close() }

func (b *Bus) sessionChannel(session string) string {
	return b.channel + ":" + session
}

// Publish mirrors one frame to the session channel. Shaped to slot into
// Hub.Publish.
func (b *Bus) Publish(session string, data []byte) {
	ctx := context.Background()
	payload := b.id + "|" + string(data)
	cmd := b.client.B().Publish().Channel(b.sessionChannel(session)).Message(payload).Build()
	if err := b.client.Do(ctx, cmd).Error(); err != nil {
		b.log.Warn("bus publish failed", "session", session, "error", err)
	}
}

// Subscribe feeds frames published by other relays into the hub. It blocks
// until ctx is cancelled or the connection drops.
func (b *Bus) Subscribe(ctx context.Context, hub *Hub) error {
	pattern := b.channel + ":*"
	cmd := b.client.B().Psubscribe().Pattern(pattern).Build()
	err := b.client.Receive(ctx, cmd, func(msg valkey.PubSubMessage) {
		origin, data, ok := strings.Cut(msg.Message, "|")
		if !ok || origin == b.id {
			return
		}
		session := strings.TrimPrefix(msg.Channel, b.channel+":")
		hub.Deliver(session, []byte(data))
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("bus subscribe: %w", err)
	}
	return nil
}
