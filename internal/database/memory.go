package database

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"chalet-booking/internal/models"

	"github.com/google/uuid"
)

// Memory is an in-process datastore used when no PostgreSQL instance is
// configured (DB_DRIVER=memory) and in tests. Every write emits a change
// signal, mirroring the NOTIFY trigger of the SQL schema.
type Memory struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
	changes  chan struct{}

	// Now is the clock used for created_at/updated_at.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		bookings: map[string]models.Booking{},
		changes:  make(chan struct{}, 1),
		Now:      time.Now,
	}
}

// Changes is signalled after every successful write. Signals coalesce.
func (m *Memory) Changes() <-chan struct{} {
	return m.changes
}

func (m *Memory) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Memory) Health() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]string{
		"status":   "up",
		"message":  "in-memory store",
		"bookings": strconv.Itoa(len(m.bookings)),
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) ListBookings(ctx context.Context) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CheckIn.Before(out[j].CheckIn)
	})
	return out, nil
}

func (m *Memory) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return models.Booking{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, ErrNotFound
	}
	return b, nil
}

func (m *Memory) CreateBooking(ctx context.Context, in models.BookingInsert) (models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return models.Booking{}, err
	}
	now := m.Now().UTC()
	b := models.Booking{
		ID:           uuid.NewString(),
		FamilyMember: in.FamilyMember,
		CheckIn:      in.CheckIn,
		CheckOut:     in.CheckOut,
		GuestCount:   in.GuestCount,
		Notes:        in.Notes,
		Rooms:        append(models.RoomSelections{}, in.Rooms...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	m.mu.Lock()
	m.bookings[b.ID] = b
	m.mu.Unlock()

	m.notify()
	return b, nil
}

func (m *Memory) UpdateBooking(ctx context.Context, id string, patch models.BookingPatch) (models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return models.Booking{}, err
	}
	m.mu.Lock()
	existing, ok := m.bookings[id]
	if !ok {
		m.mu.Unlock()
		return models.Booking{}, ErrNotFound
	}
	merged := patch.Apply(existing)
	updated := existing
	updated.FamilyMember = merged.FamilyMember
	updated.CheckIn = merged.CheckIn
	updated.CheckOut = merged.CheckOut
	updated.GuestCount = merged.GuestCount
	updated.Notes = merged.Notes
	updated.Rooms = append(models.RoomSelections{}, merged.Rooms...)
	updated.UpdatedAt = m.Now().UTC()
	m.bookings[id] = updated
	m.mu.Unlock()

	m.notify()
	return updated, nil
}

func (m *Memory) DeleteBooking(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	if _, ok := m.bookings[id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.bookings, id)
	m.mu.Unlock()

	m.notify()
	return nil
}
