package events

import (
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
	if bus.Events == nil {
		t.Fatal("Events channel is nil")
	}
}

func TestBus_PublishReceive(t *testing.T) {
	bus := NewBus()
	ev := Event{Kind: KindLobbyCreated, LobbyCode: "AB3K9", OccurredAt: time.Now()}

	if !bus.Publish(ev) {
		t.Fatal("Publish() on an empty bus should succeed")
	}

	select {
	case received := <-bus.Events:
		if received.Kind != KindLobbyCreated || received.LobbyCode != "AB3K9" {
			t.Errorf("received %+v, want kind=%s code=AB3K9", received, KindLobbyCreated)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_PublishDropsWhenFull(t *testing.T) {
	bus := NewBus()

	for i := 0; i < cap(bus.Events); i++ {
		if !bus.Publish(Event{Kind: KindWordSubmitted}) {
			t.Fatalf("Publish() failed at %d with capacity %d", i, cap(bus.Events))
		}
	}

	// Bus is full: the next publish must drop, not block.
	if bus.Publish(Event{Kind: KindWordSubmitted}) {
		t.Error("Publish() on a full bus should report a drop")
	}
}
