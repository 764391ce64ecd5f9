package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dlshad/drawerledger/internal/domain"
)

// Broadcaster implements usecase.SettlementBroadcaster on Redis pub/sub.
// Broadcast never blocks the settlement path: events are queued on a
// buffered channel and published by a background worker; when the buffer is
// full the event is dropped and counted.
type Broadcaster struct {
	client  *redis.Client
	channel string
	events  chan domain.SettlementEvent
	done    chan struct{}
	logger  zerolog.Logger

	onPublish func()
	onDrop    func()
}

// Config for Broadcaster.
type Config struct {
	Client *redis.Client
	// Channel defaults to domain.ChannelSettlements.
	Channel string
	// Buffer is the event queue size; defaults to 256.
	Buffer int
	Logger zerolog.Logger
	// OnPublish, when set, is called once per event delivered to Redis.
	OnPublish func()
	// OnDrop, when set, is called once per dropped event.
	OnDrop func()
}

// New creates a new Broadcaster. Call Start before broadcasting and Stop on
// shutdown.
func New(cfg Config) *Broadcaster {
	if cfg.Channel == "" {
		cfg.Channel = domain.ChannelSettlements
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}

	return &Broadcaster{
		client:  cfg.Client,
		channel: cfg.Channel,
		events:  make(chan domain.SettlementEvent, cfg.Buffer),
		done:    make(chan struct{}),
		logger:  cfg.Logger,

		onPublish: cfg.OnPublish,
		onDrop:    cfg.OnDrop,
	}
}

// Start runs the publishing worker until the context is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	defer close(b.done)

	b.logger.Info().
		Str("channel", b.channel).
		Int("buffer", cap(b.events)).
		Msg("settlement broadcaster started")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("settlement broadcaster shutting down")
			return
		case event := <-b.events:
			b.publish(event)
		}
	}
}

// Stop waits for the worker to exit after its context is cancelled.
func (b *Broadcaster) Stop(timeout time.Duration) {
	select {
	case <-b.done:
	case <-time.After(timeout):
		b.logger.Warn().Msg("settlement broadcaster did not stop in time")
	}
}

// Broadcast queues an event for publishing. It never blocks; when the queue
// is full the event is dropped.
func (b *Broadcaster) Broadcast(event domain.SettlementEvent) {
	select {
	case b.events <- event:
	default:
		if b.onDrop != nil {
			b.onDrop()
		}

		b.logger.Warn().
			Str("transaction_id", event.TransactionID).
			Msg("broadcast buffer full, event dropped")
	}
}

func (b *Broadcaster) publish(event domain.SettlementEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to marshal settlement event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.logger.Error().
			Err(err).
			Str("transaction_id", event.TransactionID).
			Msg("failed to publish settlement event")

		return
	}

	if b.onPublish != nil {
		b.onPublish()
	}

	b.logger.Debug().
		Str("transaction_id", event.TransactionID).
		Str("drawer_id", event.DrawerID).
		Msg("settlement event published")
}
