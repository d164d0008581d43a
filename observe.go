package wishlist

import (
	"github.com/anacrolix/sync"
)

// ObserverHandle is returned by a Mediator's Observe* methods. Closing it unsubscribes the
// observer. Close is idempotent: closing a handle more than once, or closing it after the
// Publisher it came from has gone away, is a no-op.
type ObserverHandle interface {
	Close()
}

// Publisher is a minimal building block for implementing the Mediator's eight event
// subscriptions: a set of callbacks of a single function type, fired in subscription order, with
// handles that unsubscribe on Close. It doesn't need to be used by Mediator implementations, but
// saves reimplementing the same bookkeeping eight times.
type Publisher[F any] struct {
	mu        sync.Mutex
	observers []*F
}

// Subscribe registers f and returns a handle that removes it again when closed.
func (p *Publisher[F]) Subscribe(f F) ObserverHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry := &f
	p.observers = append(p.observers, entry)
	return &publisherHandle[F]{p: p, entry: entry}
}

// Emit calls call once for every currently-subscribed observer, in subscription order, against a
// snapshot taken under lock. Observers added or removed by call itself do not affect this Emit.
func (p *Publisher[F]) Emit(call func(F)) {
	p.mu.Lock()
	observers := append([]*F(nil), p.observers...)
	p.mu.Unlock()
	for _, f := range observers {
		call(*f)
	}
}

type publisherHandle[F any] struct {
	p     *Publisher[F]
	entry *F
}

func (h *publisherHandle[F]) Close() {
	h.p.mu.Lock()
	defer h.p.mu.Unlock()
	for i, f := range h.p.observers {
		if f == h.entry {
			h.p.observers = append(h.p.observers[:i], h.p.observers[i+1:]...)
			return
		}
	}
}
