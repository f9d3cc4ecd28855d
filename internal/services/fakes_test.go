package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tbourn/memomiles-backend/internal/domain"
)

// ----- Fake repos -----

type fakePersonalRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]domain.PersonalEntry
	clock   int64
	failAll error
	block   chan struct{} // when set, writes wait on it or ctx
}

func newFakePersonalRepo() *fakePersonalRepo {
	return &fakePersonalRepo{rows: map[int64]domain.PersonalEntry{}, clock: 1000}
}

func (r *fakePersonalRepo) wait(ctx context.Context) error {
	if r.block == nil {
		return nil
	}
	select {
	case <-r.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *fakePersonalRepo) Insert(ctx context.Context, e *domain.PersonalEntry) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	r.nextID++
	e.ID = r.nextID
	if e.CreatedAt == 0 {
		r.clock++
		e.CreatedAt = r.clock
	}
	r.rows[e.ID] = *e
	return nil
}

func (r *fakePersonalRepo) Update(ctx context.Context, e domain.PersonalEntry) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	cur, ok := r.rows[e.ID]
	if !ok {
		return nil
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = cur.CreatedAt
	}
	r.rows[e.ID] = e
	return nil
}

func (r *fakePersonalRepo) Delete(ctx context.Context, e domain.PersonalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	delete(r.rows, e.ID)
	return nil
}

func (r *fakePersonalRepo) GetByID(ctx context.Context, id int64) (*domain.PersonalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	e, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *fakePersonalRepo) ListOnce(ctx context.Context) ([]domain.PersonalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	out := make([]domain.PersonalEntry, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (r *fakePersonalRepo) Watch(ctx context.Context) (<-chan []domain.PersonalEntry, error) {
	snap, err := r.ListOnce(ctx)
	if err != nil {
		return nil, err
	}
	ch := make(chan []domain.PersonalEntry, 1)
	ch <- snap
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

type fakeTravelRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]domain.TravelEntry
	failAll error
	inserts int
	updates int
}

func newFakeTravelRepo() *fakeTravelRepo {
	return &fakeTravelRepo{rows: map[int64]domain.TravelEntry{}}
}

func (r *fakeTravelRepo) Insert(ctx context.Context, e *domain.TravelEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	r.inserts++
	r.nextID++
	e.ID = r.nextID
	r.rows[e.ID] = *e
	return nil
}

func (r *fakeTravelRepo) Update(ctx context.Context, e domain.TravelEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	r.updates++
	if _, ok := r.rows[e.ID]; ok {
		r.rows[e.ID] = e
	}
	return nil
}

func (r *fakeTravelRepo) Delete(ctx context.Context, e domain.TravelEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, e.ID)
	return nil
}

func (r *fakeTravelRepo) GetByID(ctx context.Context, id int64) (*domain.TravelEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	e, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *fakeTravelRepo) ListOnce(ctx context.Context) ([]domain.TravelEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	out := make([]domain.TravelEntry, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeTravelRepo) Watch(ctx context.Context) (<-chan []domain.TravelEntry, error) {
	return nil, errors.New("not implemented")
}
