package wishlist

import (
	"context"
	"sync"
)

// ItemStore is the document-store contract the wishlist service writes
// through. Implementations assign ids on Create and must deliver a fresh
// Snapshot to every live subscription after each successful write.
type ItemStore interface {
	// Load returns the current id→item mapping for a list; an empty mapping
	// if the list has no items yet.
	Load(ctx context.Context, listCode string) (Snapshot, error)

	// Subscribe registers a live listener for a list. The subscription
	// receives the current snapshot immediately and again after every
	// change until it is closed.
	Subscribe(ctx context.Context, listCode string) (*Subscription, error)

	// Create appends a new item and returns its store-assigned id.
	Create(ctx context.Context, listCode string, item Item) (string, error)

	// Patch merges the named fields into an existing item. Untouched fields
	// are preserved. Field names are the wire names (title, notes, link,
	// price, priority, status, reservedBy, updatedAt).
	Patch(ctx context.Context, listCode, id string, fields map[string]string) error

	// Delete removes an item. Deleting an absent item is a no-op.
	Delete(ctx context.Context, listCode, id string) error
}

// Subscription is a cancellable live listener on one list's items. Exactly
// one subscription is held per viewing connection; Close detaches it and must
// be called before a subscription for another list code is attached.
type Subscription struct {
	ch   <-chan Snapshot
	stop func()
	once sync.Once
}

// NewSubscription wraps a snapshot channel and a detach function.
func NewSubscription(ch <-chan Snapshot, stop func()) *Subscription {
	return &Subscription{ch: ch, stop: stop}
}

// Items returns the snapshot channel. It is closed after Close or when the
// subscription's context ends.
func (s *Subscription) Items() <-chan Snapshot {
	return s.ch
}

// Close detaches the listener. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.stop)
}
