package notify

import (
	"context"

	evbus "github.com/asaskevich/EventBus"

	authkit "github.com/MrEthical07/authkit"
)

// TopicLogin is the bus topic login events are published on.
const TopicLogin = "authkit:login"

// Bus defines a public type used by authkit APIs.
//
// Bus is an [authkit.EventSink] backed by an in-process topic bus. Pass it to
// the builder via WithEventSink and register any number of subscribers.
type Bus struct {
	bus evbus.Bus
}

// NewBus describes the newbus operation and its observable behavior.
//
// NewBus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewBus() *Bus {
	return &Bus{bus: evbus.New()}
}

// LoginSucceeded describes the loginsucceeded operation and its observable behavior.
//
// LoginSucceeded publishes the event to every subscriber of [TopicLogin].
func (b *Bus) LoginSucceeded(ctx context.Context, event authkit.LoginEvent) {
	b.bus.Publish(TopicLogin, event)
}

// Subscribe describes the subscribe operation and its observable behavior.
//
// Subscribe registers a synchronous listener. The handler runs on the
// engine's event dispatcher goroutine; keep it fast or use SubscribeAsync.
func (b *Bus) Subscribe(fn func(authkit.LoginEvent)) error {
	return b.bus.Subscribe(TopicLogin, fn)
}

// SubscribeAsync describes the subscribeasync operation and its observable behavior.
//
// SubscribeAsync registers a listener that runs on its own goroutine per
// event. Use WaitAsync in tests to flush in-flight deliveries.
func (b *Bus) SubscribeAsync(fn func(authkit.LoginEvent)) error {
	return b.bus.SubscribeAsync(TopicLogin, fn, false)
}

// Unsubscribe describes the unsubscribe operation and its observable behavior.
//
// Unsubscribe removes a previously registered listener.
func (b *Bus) Unsubscribe(fn func(authkit.LoginEvent)) error {
	return b.bus.Unsubscribe(TopicLogin, fn)
}

// WaitAsync describes the waitasync operation and its observable behavior.
//
// WaitAsync blocks until all async deliveries in flight have completed.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
