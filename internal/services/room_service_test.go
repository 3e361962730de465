package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kosku/internal/core"
)

type fakeRoomStore struct {
	rooms      map[int64]core.Room
	nextID     int64
	occupancy  []core.RoomOccupancy
	deleted    []int64
	setErr     error
	occupants  map[int64]string
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: map[int64]core.Room{}, nextID: 1}
}

func (f *fakeRoomStore) CreateRoom(_ context.Context, room core.Room) (core.Room, error) {
	room.ID = f.nextID
	f.nextID++
	f.rooms[room.ID] = room
	return room, nil
}

func (f *fakeRoomStore) UpdateRoom(_ context.Context, room core.Room) error {
	if _, ok := f.rooms[room.ID]; !ok {
		return errors.New("room not found")
	}
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomStore) GetRoom(_ context.Context, id int64) (core.Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return core.Room{}, errors.New("room not found")
	}
	return room, nil
}

func (f *fakeRoomStore) ListRooms(_ context.Context) ([]core.Room, error) {
	var rooms []core.Room
	for _, room := range f.rooms {
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (f *fakeRoomStore) DeleteRoom(_ context.Context, id int64) error {
	delete(f.rooms, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRoomStore) SetOccupant(_ context.Context, roomID int64, month core.Month, tenantName string, now time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.occupancy = append(f.occupancy, core.RoomOccupancy{
		RoomID:     roomID,
		Month:      month.First(),
		TenantName: tenantName,
		CreatedAt:  now,
	})
	return nil
}

func (f *fakeRoomStore) OccupantHistory(_ context.Context, roomID int64) ([]core.RoomOccupancy, error) {
	var history []core.RoomOccupancy
	for _, o := range f.occupancy {
		if o.RoomID == roomID {
			history = append(history, o)
		}
	}
	return history, nil
}

func (f *fakeRoomStore) EffectiveOccupants(_ context.Context, _ core.Month) (map[int64]string, error) {
	return f.occupants, nil
}

func TestValidRoomNumber(t *testing.T) {
	tests := []struct {
		number string
		want   bool
	}{
		{"1B", true},
		{"1T", true},
		{"2A", true},
		{"2W", true},
		{"3A", true},
		{"3P", true},
		{"1A", false}, // first floor starts at B
		{"1U", false},
		{"2X", false},
		{"3Q", false},
		{"4A", false},
		{"1", false},
		{"", false},
		{"10B", false},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			if got := ValidRoomNumber(tt.number); got != tt.want {
				t.Errorf("ValidRoomNumber(%q) = %v, want %v", tt.number, got, tt.want)
			}
		})
	}
}

func TestRoomCodes(t *testing.T) {
	codes := RoomCodes()

	// 1B-1T (19) + 2A-2W (23) + 3A-3P (16)
	if len(codes) != 58 {
		t.Errorf("RoomCodes() returned %d codes, want 58", len(codes))
	}
	if codes[0] != "1B" {
		t.Errorf("first code = %q, want %q", codes[0], "1B")
	}
	if codes[len(codes)-1] != "3P" {
		t.Errorf("last code = %q, want %q", codes[len(codes)-1], "3P")
	}
}

func TestRoomService_CreateRoom(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	t.Run("occupied room records occupancy", func(t *testing.T) {
		store := newFakeRoomStore()
		svc := NewRoomService(store)
		svc.now = func() time.Time { return now }

		created, err := svc.CreateRoom(context.Background(), core.Room{
			Number:     "2A",
			RentPrice:  core.Money{Rupiah: 1_000_000},
			Status:     core.RoomOccupied,
			TenantName: "Budi",
			DueDay:     10,
		})
		if err != nil {
			t.Fatalf("CreateRoom() error = %v", err)
		}
		if created.ID == 0 {
			t.Error("CreateRoom() should assign an id")
		}
		if len(store.occupancy) != 1 {
			t.Fatalf("occupancy records = %d, want 1", len(store.occupancy))
		}
		if got := store.occupancy[0].Month.YearMonth(); got != "2025-06" {
			t.Errorf("occupancy month = %q, want %q", got, "2025-06")
		}
		if store.occupancy[0].TenantName != "Budi" {
			t.Errorf("occupancy tenant = %q, want %q", store.occupancy[0].TenantName, "Budi")
		}
	})

	t.Run("vacant room drops tenant name", func(t *testing.T) {
		store := newFakeRoomStore()
		svc := NewRoomService(store)
		svc.now = func() time.Time { return now }

		created, err := svc.CreateRoom(context.Background(), core.Room{
			Number:     "1B",
			RentPrice:  core.Money{Rupiah: 900_000},
			Status:     core.RoomVacant,
			TenantName: "stale tenant",
		})
		if err != nil {
			t.Fatalf("CreateRoom() error = %v", err)
		}
		if created.TenantName != "" {
			t.Errorf("TenantName = %q, want empty", created.TenantName)
		}
		if len(store.occupancy) != 0 {
			t.Errorf("vacant room should not record occupancy, got %d records", len(store.occupancy))
		}
	})

	t.Run("missing due day gets default", func(t *testing.T) {
		store := newFakeRoomStore()
		svc := NewRoomService(store)
		svc.now = func() time.Time { return now }

		created, err := svc.CreateRoom(context.Background(), core.Room{
			Number:    "3A",
			RentPrice: core.Money{Rupiah: 900_000},
			Status:    core.RoomVacant,
		})
		if err != nil {
			t.Fatalf("CreateRoom() error = %v", err)
		}
		if created.DueDay != core.DefaultDueDay {
			t.Errorf("DueDay = %d, want %d", created.DueDay, core.DefaultDueDay)
		}
	})

	t.Run("unknown room number rejected", func(t *testing.T) {
		store := newFakeRoomStore()
		svc := NewRoomService(store)

		_, err := svc.CreateRoom(context.Background(), core.Room{
			Number:    "9Z",
			RentPrice: core.Money{Rupiah: 900_000},
			Status:    core.RoomVacant,
		})
		if !errors.Is(err, ErrUnknownRoomNumber) {
			t.Errorf("CreateRoom() error = %v, want ErrUnknownRoomNumber", err)
		}
	})

	t.Run("lowercase number is normalized", func(t *testing.T) {
		store := newFakeRoomStore()
		svc := NewRoomService(store)
		svc.now = func() time.Time { return now }

		created, err := svc.CreateRoom(context.Background(), core.Room{
			Number:    " 2b ",
			RentPrice: core.Money{Rupiah: 900_000},
			Status:    core.RoomVacant,
		})
		if err != nil {
			t.Fatalf("CreateRoom() error = %v", err)
		}
		if created.Number != "2B" {
			t.Errorf("Number = %q, want %q", created.Number, "2B")
		}
	})
}

func TestRoomService_UpdateRoom(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	store := newFakeRoomStore()
	svc := NewRoomService(store)
	svc.now = func() time.Time { return now }

	created, err := svc.CreateRoom(context.Background(), core.Room{
		Number:     "2C",
		RentPrice:  core.Money{Rupiah: 1_100_000},
		Status:     core.RoomOccupied,
		TenantName: "Sari",
		DueDay:     5,
	})
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	// Tenant change shows up in occupancy history
	created.TenantName = "Dewi"
	if _, err := svc.UpdateRoom(context.Background(), created); err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	history, err := svc.OccupantHistory(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("OccupantHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[1].TenantName != "Dewi" {
		t.Errorf("latest tenant = %q, want %q", history[1].TenantName, "Dewi")
	}

	// Marking vacant clears the tenant
	created.Status = core.RoomVacant
	updated, err := svc.UpdateRoom(context.Background(), created)
	if err != nil {
		t.Fatalf("UpdateRoom() error = %v", err)
	}
	if updated.TenantName != "" {
		t.Errorf("TenantName after vacancy = %q, want empty", updated.TenantName)
	}
}

func TestRoomService_OccupancyFailureDoesNotFailWrite(t *testing.T) {
	store := newFakeRoomStore()
	store.setErr = errors.New("occupancy table locked")
	svc := NewRoomService(store)

	created, err := svc.CreateRoom(context.Background(), core.Room{
		Number:     "2D",
		RentPrice:  core.Money{Rupiah: 1_000_000},
		Status:     core.RoomOccupied,
		TenantName: "Budi",
		DueDay:     5,
	})
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if created.ID == 0 {
		t.Error("room should be created even when occupancy write fails")
	}
}

func TestRoomService_OccupantsFor(t *testing.T) {
	store := newFakeRoomStore()
	store.occupants = map[int64]string{1: "Budi", 2: "Sari"}
	svc := NewRoomService(store)

	occupants, err := svc.OccupantsFor(context.Background(), "2025-06")
	if err != nil {
		t.Fatalf("OccupantsFor() error = %v", err)
	}
	if occupants[1] != "Budi" || occupants[2] != "Sari" {
		t.Errorf("OccupantsFor() = %v", occupants)
	}

	if _, err := svc.OccupantsFor(context.Background(), "June 2025"); !errors.Is(err, core.ErrInvalidMonth) {
		t.Errorf("OccupantsFor() error = %v, want ErrInvalidMonth", err)
	}
}
