package notify

import (
	"context"
	"testing"
	"time"

	authkit "github.com/MrEthical07/authkit"
)

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus()

	var got []authkit.LoginEvent
	if err := bus.Subscribe(func(event authkit.LoginEvent) {
		got = append(got, event)
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	bus.LoginSucceeded(context.Background(), authkit.LoginEvent{UserID: "42", DeviceID: "d1"})

	if len(got) != 1 {
		t.Fatalf("delivered %d events, want 1", len(got))
	}
	if got[0].UserID != "42" || got[0].DeviceID != "d1" {
		t.Fatalf("event = %+v", got[0])
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	count := 0
	fn := func(event authkit.LoginEvent) { count++ }

	if err := bus.Subscribe(fn); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	bus.LoginSucceeded(context.Background(), authkit.LoginEvent{UserID: "1"})

	if err := bus.Unsubscribe(fn); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	bus.LoginSucceeded(context.Background(), authkit.LoginEvent{UserID: "2"})

	if count != 1 {
		t.Fatalf("delivered %d events after unsubscribe, want 1", count)
	}
}

func TestBusAsyncSubscriber(t *testing.T) {
	bus := NewBus()

	done := make(chan authkit.LoginEvent, 1)
	if err := bus.SubscribeAsync(func(event authkit.LoginEvent) {
		done <- event
	}); err != nil {
		t.Fatalf("subscribe async: %v", err)
	}

	bus.LoginSucceeded(context.Background(), authkit.LoginEvent{UserID: "42"})
	bus.WaitAsync()

	select {
	case event := <-done:
		if event.UserID != "42" {
			t.Fatalf("event = %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("async subscriber never ran")
	}
}

func TestBusAsEngineSink(t *testing.T) {
	var _ authkit.EventSink = (*Bus)(nil)
}
