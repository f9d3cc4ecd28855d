package services

import (
	"context"
	"errors"
	"testing"
)

func TestTravelService_CreateUpdateUsesUpdate(t *testing.T) {
	r := newFakeTravelRepo()
	s := NewTravelService(context.Background(), r)
	defer s.Close()
	ctx := context.Background()

	e, err := s.Create(ctx, TravelFields{Destination: "Kyoto", Date: "April", Rating: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID != 1 {
		t.Fatalf("id = %d", e.ID)
	}

	upd, err := s.Update(ctx, e.ID, TravelFields{Destination: "Osaka", Date: "May", Food: "okonomiyaki", Rating: 4})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.ID != e.ID || upd.Destination != "Osaka" || upd.Food != "okonomiyaki" {
		t.Fatalf("unexpected update result: %+v", upd)
	}
	if r.inserts != 1 || r.updates != 1 {
		t.Fatalf("update must not insert: inserts=%d updates=%d", r.inserts, r.updates)
	}

	got, _ := s.GetEntryByID(ctx, e.ID)
	if *got != *upd {
		t.Fatalf("stored %+v want %+v", got, upd)
	}
}

func TestTravelService_UpdateEntryUnknownIDDoesNotInsert(t *testing.T) {
	r := newFakeTravelRepo()
	s := NewTravelService(context.Background(), r)
	defer s.Close()

	s.UpdateEntry(77, TravelFields{Destination: "Nowhere", Date: "never", Rating: 1})
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	list, _ := s.ListAllOnce(context.Background())
	if len(list) != 0 {
		t.Fatalf("unknown id was inserted: %+v", list)
	}
}

func TestTravelService_AddEntryOrder(t *testing.T) {
	s := NewTravelService(context.Background(), newFakeTravelRepo())
	defer s.Close()

	s.AddEntry(TravelFields{Destination: "A", Date: "1", Rating: 1})
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	s.AddEntry(TravelFields{Destination: "B", Date: "2", Rating: 2})
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	list, err := s.ListAllOnce(context.Background())
	if err != nil {
		t.Fatalf("ListAllOnce: %v", err)
	}
	if len(list) != 2 || list[0].Destination != "B" {
		t.Fatalf("newest insert must come first: %+v", list)
	}
}

func TestTravelService_Errors(t *testing.T) {
	r := newFakeTravelRepo()
	s := NewTravelService(context.Background(), r)
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Update(ctx, 1, TravelFields{}); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Delete(ctx, 1); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Delete: %v", err)
	}

	boom := errors.New("io error")
	r.failAll = boom
	if _, err := s.Create(ctx, TravelFields{Destination: "x"}); !errors.Is(err, boom) {
		t.Fatalf("Create must propagate storage error, got %v", err)
	}
	if _, err := s.GetEntryByID(ctx, 1); !errors.Is(err, boom) {
		t.Fatalf("GetEntryByID must propagate storage error, got %v", err)
	}
}
