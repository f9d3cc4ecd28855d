package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// scope is the cancellation boundary a service runs its background writes
// in. Launches share the scope's context, so Close stops them at their next
// database call. A failed launch does not cancel its siblings.
type scope struct {
	name   string
	ctx    context.Context
	cancel context.CancelFunc
	g      errgroup.Group

	mu     sync.Mutex
	closed bool
}

func newScope(parent context.Context, name string) *scope {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &scope{name: name, ctx: ctx, cancel: cancel}
}

// launch runs fn in the background. Failures are logged and kept for Wait.
func (s *scope) launch(op string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.ctx.Err() != nil {
		log.Warn().Str("service", s.name).Str("op", op).Msg("launch after close dropped")
		s.g.Go(func() error { return ErrServiceClosed })
		return
	}
	s.g.Go(func() error {
		if err := fn(s.ctx); err != nil {
			log.Error().Err(err).Str("service", s.name).Str("op", op).Msg("background write failed")
			return err
		}
		return nil
	})
}

// bind derives a context that ends with either parent or the scope.
func (s *scope) bind(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(s.ctx, cancel)
	context.AfterFunc(ctx, func() { stop() })
	return ctx
}

// wait blocks until every launch so far has finished and returns the first
// failure.
func (s *scope) wait() error { return s.g.Wait() }

// close cancels in-flight launches and rejects new ones.
func (s *scope) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

func (s *scope) done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
