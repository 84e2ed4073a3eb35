package authkit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// LoginEvent defines a public type used by authkit APIs.
//
// LoginEvent instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginEvent struct {
	UserID     string
	Username   string
	TenantID   string
	DeviceID   string
	SessionKey string
	ClientIP   string
	UserAgent  string
	At         time.Time
}

// EventSink receives login events from the Engine. Delivery is best-effort
// and asynchronous: a slow or failing sink can never fail a login.
type EventSink interface {
	LoginSucceeded(ctx context.Context, event LoginEvent)
}

// NoOpSink defines a public type used by authkit APIs.
//
// NoOpSink discards all events.
type NoOpSink struct{}

// LoginSucceeded describes the loginsucceeded operation and its observable behavior.
//
// LoginSucceeded does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (NoOpSink) LoginSucceeded(ctx context.Context, event LoginEvent) {}

type eventDispatcher struct {
	cfg       EventConfig
	sink      EventSink
	ch        chan LoginEvent
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newEventDispatcher(cfg EventConfig, sink EventSink) *eventDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &eventDispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan LoginEvent, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *eventDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.ch:
			d.sink.LoginSucceeded(context.Background(), event)
		case <-d.done:
			for {
				select {
				case event := <-d.ch:
					d.sink.LoginSucceeded(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (d *eventDispatcher) emit(ctx context.Context, event LoginEvent) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- event:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- event:
	case <-ctx.Done():
	case <-d.done:
	}
}

func (d *eventDispatcher) close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *eventDispatcher) droppedCount() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
