// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package events provides an in-process notification bus. Completion and
// failure notices are published here so observers (the CLI status printer,
// tests) can watch a batch without the queue knowing about them.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Event is one notification about a file in the batch.
type Event struct {
	Level   Level
	FileID  uuid.UUID
	Message string
	Time    time.Time
}

// Token identifies a subscription for later removal.
type Token uint64

// Bus fans events out to subscribers. It has an owning lifecycle rather than
// being package-level state: construct one, share it, close it.
type Bus struct {
	mu     sync.Mutex
	next   Token
	subs   map[Token]chan Event
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Token]chan Event)}
}

// Subscribe registers a new observer with the given channel buffer. Publish
// never blocks, so a subscriber that falls more than buffer events behind
// loses the overflow.
func (b *Bus) Subscribe(buffer int) (<-chan Event, Token) {
	if buffer < 1 {
		buffer = 16
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, b.next
	}
	b.subs[b.next] = ch
	return ch, b.next
}

// Unsubscribe removes a subscription and closes its channel. Unknown tokens
// are ignored.
func (b *Bus) Unsubscribe(t Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[t]; ok {
		delete(b.subs, t)
		close(ch)
	}
}

// Publish delivers e to every subscriber without blocking.
func (b *Bus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close ends all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for t, ch := range b.subs {
		delete(b.subs, t)
		close(ch)
	}
}
