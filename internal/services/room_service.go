package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kosku/internal/core"
)

// ErrUnknownRoomNumber is returned when a room number is outside the
// building's numbering scheme.
var ErrUnknownRoomNumber = errors.New("unknown room number")

// roomCodeRanges describes the building layout: a letter range per floor.
var roomCodeRanges = []struct {
	floor byte
	from  byte
	to    byte
}{
	{'1', 'B', 'T'},
	{'2', 'A', 'W'},
	{'3', 'A', 'P'},
}

// RoomCodes returns every valid room number in floor order.
func RoomCodes() []string {
	var codes []string
	for _, r := range roomCodeRanges {
		for letter := r.from; letter <= r.to; letter++ {
			codes = append(codes, string([]byte{r.floor, letter}))
		}
	}
	return codes
}

// ValidRoomNumber reports whether number belongs to the building's scheme.
func ValidRoomNumber(number string) bool {
	if len(number) != 2 {
		return false
	}
	for _, r := range roomCodeRanges {
		if number[0] == r.floor && number[1] >= r.from && number[1] <= r.to {
			return true
		}
	}
	return false
}

// RoomStore is the slice of storage the room service needs.
type RoomStore interface {
	CreateRoom(ctx context.Context, room core.Room) (core.Room, error)
	UpdateRoom(ctx context.Context, room core.Room) error
	GetRoom(ctx context.Context, id int64) (core.Room, error)
	ListRooms(ctx context.Context) ([]core.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	SetOccupant(ctx context.Context, roomID int64, month core.Month, tenantName string, now time.Time) error
	OccupantHistory(ctx context.Context, roomID int64) ([]core.RoomOccupancy, error)
	EffectiveOccupants(ctx context.Context, month core.Month) (map[int64]string, error)
}

// RoomService owns the room roster and its occupancy history.
type RoomService struct {
	store RoomStore
	now   func() time.Time
}

func NewRoomService(store RoomStore) *RoomService {
	return &RoomService{
		store: store,
		now:   time.Now,
	}
}

// normalizeRoom applies defaults and keeps status and tenant consistent.
func normalizeRoom(room core.Room) core.Room {
	room.Number = strings.ToUpper(strings.TrimSpace(room.Number))
	room.TenantName = strings.TrimSpace(room.TenantName)
	if room.Status == core.RoomVacant {
		room.TenantName = ""
	}
	if room.DueDay == 0 {
		room.DueDay = core.DefaultDueDay
	}
	return room
}

// CreateRoom validates and saves a new room. When the room starts out
// occupied, the tenant is recorded in the occupancy history for the current
// month.
func (s *RoomService) CreateRoom(ctx context.Context, room core.Room) (core.Room, error) {
	room = normalizeRoom(room)
	if !ValidRoomNumber(room.Number) {
		return core.Room{}, fmt.Errorf("room number %q: %w", room.Number, ErrUnknownRoomNumber)
	}
	if err := room.Validate(); err != nil {
		return core.Room{}, fmt.Errorf("validate room: %w", err)
	}

	now := s.now()
	room.CreatedAt = now
	room.UpdatedAt = now

	created, err := s.store.CreateRoom(ctx, room)
	if err != nil {
		return core.Room{}, fmt.Errorf("create room: %w", err)
	}

	s.recordOccupancy(ctx, created, now)
	return created, nil
}

// UpdateRoom validates and saves changes to a room. Marking a room vacant
// clears its tenant; an occupancy record is written whenever the room ends up
// occupied.
func (s *RoomService) UpdateRoom(ctx context.Context, room core.Room) (core.Room, error) {
	room = normalizeRoom(room)
	if !ValidRoomNumber(room.Number) {
		return core.Room{}, fmt.Errorf("room number %q: %w", room.Number, ErrUnknownRoomNumber)
	}
	if err := room.Validate(); err != nil {
		return core.Room{}, fmt.Errorf("validate room: %w", err)
	}

	now := s.now()
	room.UpdatedAt = now

	if err := s.store.UpdateRoom(ctx, room); err != nil {
		return core.Room{}, fmt.Errorf("update room: %w", err)
	}

	s.recordOccupancy(ctx, room, now)
	return room, nil
}

// recordOccupancy writes the current tenant into the per-month history.
// Failures are logged, not returned: the room write already succeeded.
func (s *RoomService) recordOccupancy(ctx context.Context, room core.Room, now time.Time) {
	if room.Status != core.RoomOccupied || room.TenantName == "" {
		return
	}
	month := core.MonthOf(now)
	if err := s.store.SetOccupant(ctx, room.ID, month, room.TenantName, now); err != nil {
		slog.ErrorContext(ctx, "Failed to record occupancy",
			"room_id", room.ID,
			"month", month.String(),
			"error", err)
	}
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (core.Room, error) {
	return s.store.GetRoom(ctx, id)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]core.Room, error) {
	return s.store.ListRooms(ctx)
}

// DeleteRoom removes a room and everything that hangs off it. Payments,
// penalties and occupancy history go with the room.
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}

// OccupantHistory lists who held a room, month by month.
func (s *RoomService) OccupantHistory(ctx context.Context, roomID int64) ([]core.RoomOccupancy, error) {
	return s.store.OccupantHistory(ctx, roomID)
}

// OccupantsFor resolves which tenant held each room in the given YYYY-MM
// month, falling back to the latest record at or before it.
func (s *RoomService) OccupantsFor(ctx context.Context, month string) (map[int64]string, error) {
	m, err := core.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	return s.store.EffectiveOccupants(ctx, m)
}
