package broadcast

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dlshad/drawerledger/internal/domain"
)

func TestBroadcasterPublishes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	defer client.Close()

	sub := client.Subscribe(context.Background(), domain.ChannelSettlements)
	defer sub.Close()
	if _, err := sub.Receive(context.Background()); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	published := make(chan struct{}, 1)
	b := New(Config{
		Client:    client,
		Logger:    zerolog.Nop(),
		OnPublish: func() { published <- struct{}{} },
	})

	ctx, cancel := context.WithCancel(context.Background())
	go b.Start(ctx)

	b.Broadcast(domain.SettlementEvent{
		TransactionID: "txn-1",
		DrawerID:      "drawer-1",
		AmountIn:      "100",
	})

	select {
	case msg := <-sub.Channel():
		var event domain.SettlementEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if event.TransactionID != "txn-1" || event.DrawerID != "drawer-1" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for publish hook")
	}

	cancel()
	b.Stop(time.Second)
}

func TestBroadcasterDropsWhenFull(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	defer client.Close()

	dropped := 0
	b := New(Config{
		Client: client,
		Buffer: 1,
		Logger: zerolog.Nop(),
		OnDrop: func() { dropped++ },
	})

	// Worker not started: the first event fills the buffer, the second drops.
	b.Broadcast(domain.SettlementEvent{TransactionID: "txn-1"})
	b.Broadcast(domain.SettlementEvent{TransactionID: "txn-2"})

	if dropped != 1 {
		t.Fatalf("expected 1 dropped event, got %d", dropped)
	}
}
