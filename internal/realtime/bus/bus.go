// Package bus carries encoded contract events between processes.
package bus

import (
	"context"
	"errors"
	"sync"
)

// Bus publishes opaque payloads on one channel and forwards everything
// received on it to a callback.
type Bus interface {
	Publish(ctx context.Context, payload []byte) error
	StartForwarder(ctx context.Context, onMsg func(payload []byte)) error
	Close() error
}

var ErrClosed = errors.New("bus closed")

// MemoryBus is an in-process Bus. Delivery is synchronous, in publish order.
type MemoryBus struct {
	mu        sync.RWMutex
	closed    bool
	listeners []func([]byte)
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Publish(_ context.Context, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for _, fn := range b.listeners {
		fn(append([]byte(nil), payload...))
	}
	return nil
}

func (b *MemoryBus) StartForwarder(ctx context.Context, onMsg func(payload []byte)) error {
	if onMsg == nil {
		return errors.New("onMsg callback required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.listeners = append(b.listeners, onMsg)
	return nil
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.listeners = nil
	return nil
}
