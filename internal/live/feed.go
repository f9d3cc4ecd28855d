// Package live delivers point-in-time list snapshots to subscribers.
//
// A Feed reloads the full, ordered listing of one journal after every
// committed write and fans the result out to its subscribers. Each subscriber
// owns a one-slot mailbox: when a consumer falls behind, the pending snapshot
// is replaced by the newer one, so writers never block and a consumer always
// converges on the latest state. Snapshots are delivered in commit order
// because publishes are serialised.
package live

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrClosed is returned by Subscribe after the feed has been closed.
var ErrClosed = errors.New("live: feed closed")

// Loader produces the current snapshot.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Feed fans out snapshots produced by a Loader. The zero value is not usable;
// construct with New.
type Feed[T any] struct {
	load Loader[T]

	// pub serialises loads so that snapshots reach subscribers in the same
	// order the writes were committed.
	pub sync.Mutex

	mu     sync.Mutex
	subs   map[uint64]chan []T
	nextID uint64
	closed bool
	done   chan struct{}
}

// New returns a Feed that reads snapshots with load.
func New[T any](load Loader[T]) *Feed[T] {
	return &Feed[T]{
		load: load,
		subs: make(map[uint64]chan []T),
		done: make(chan struct{}),
	}
}

// Subscribe registers a subscriber and returns its channel. The current
// snapshot is delivered first, followed by one snapshot per Publish. The
// channel is closed when ctx is done or the feed is closed.
//
// Receivers must treat each snapshot as read-only.
func (f *Feed[T]) Subscribe(ctx context.Context) (<-chan []T, error) {
	f.pub.Lock()
	defer f.pub.Unlock()

	if f.isClosed() {
		return nil, ErrClosed
	}

	initial, err := f.load(ctx)
	if err != nil {
		return nil, err
	}

	mailbox := make(chan []T, 1)
	mailbox <- initial

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = mailbox
	f.mu.Unlock()

	out := make(chan []T)
	go f.forward(ctx, id, mailbox, out)
	return out, nil
}

// forward moves snapshots from the mailbox to the consumer until the
// subscription ends.
func (f *Feed[T]) forward(ctx context.Context, id uint64, mailbox <-chan []T, out chan<- []T) {
	defer close(out)
	defer f.unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.done:
			return
		case snap := <-mailbox:
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			case <-f.done:
				return
			}
		}
	}
}

// Publish loads a fresh snapshot and offers it to every subscriber. It is a
// no-op when nobody is subscribed.
func (f *Feed[T]) Publish(ctx context.Context) error {
	f.pub.Lock()
	defer f.pub.Unlock()

	f.mu.Lock()
	if f.closed || len(f.subs) == 0 {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	snap, err := f.load(ctx)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, mailbox := range f.subs {
		offer(mailbox, slices.Clone(snap))
	}
	return nil
}

// offer places snap in the mailbox, replacing a snapshot the consumer has not
// picked up yet. Only Publish writes to mailboxes and it holds f.pub, so the
// second send cannot fail.
func offer[T any](mailbox chan []T, snap []T) {
	select {
	case mailbox <- snap:
		return
	default:
	}
	select {
	case <-mailbox:
	default:
	}
	select {
	case mailbox <- snap:
	default:
	}
}

// Subscribers returns the number of live subscriptions.
func (f *Feed[T]) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close ends every subscription and rejects new ones. It is safe to call
// more than once.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.done)
}

func (f *Feed[T]) unsubscribe(id uint64) {
	f.mu.Lock()
	delete(f.subs, id)
	f.mu.Unlock()
}

func (f *Feed[T]) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
