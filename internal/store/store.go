// Package store keeps the in-memory copy of the bookings that every view is
// derived from. Writes go to the datastore first and touch the cache only
// once the datastore has confirmed them.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"chalet-booking/internal/catalog"
	"chalet-booking/internal/database"
	"chalet-booking/internal/models"
	"chalet-booking/internal/schedule"

	"go.uber.org/zap"
)

// Publisher announces a successful local write to other instances.
type Publisher interface {
	Publish(ctx context.Context, event string) error
}

// State describes the outcome of the last load, for the UI's error and
// retry handling.
type State struct {
	Loaded   bool      `json:"loaded"`
	Loading  bool      `json:"loading"`
	LastLoad time.Time `json:"last_load"`
	Err      error     `json:"-"`
}

type Store struct {
	db        database.Service
	catalog   *catalog.Catalog
	logger    *zap.Logger
	publisher Publisher

	mu        sync.RWMutex
	bookings  []models.Booking
	state     State
	listeners []func()
}

type Option func(*Store)

// WithPublisher makes every successful write publish an event.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

func New(db database.Service, cat *catalog.Catalog, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		db:       db,
		catalog:  cat,
		logger:   logger,
		bookings: []models.Booking{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to run after every change of the cached list.
// fn runs on the goroutine that made the change and must not block.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) changed(ctx context.Context, event string) {
	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}

	if s.publisher != nil && event != "" {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("publish booking change", zap.String("event", event), zap.Error(err))
		}
	}
}

// Load replaces the cache with a fresh fetch. On failure the cache is kept
// and the error is recorded in State. When two loads overlap, the last one
// to complete wins.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()

	bookings, err := s.db.ListBookings(ctx)

	s.mu.Lock()
	s.state.Loading = false
	if err != nil {
		s.state.Err = err
		s.mu.Unlock()
		s.logger.Error("load bookings", zap.Error(err))
		return fmt.Errorf("load bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	schedule.SortByCheckIn(bookings)
	s.bookings = bookings
	s.state = State{Loaded: true, LastLoad: time.Now()}
	s.mu.Unlock()

	s.logger.Debug("bookings loaded", zap.Int("count", len(bookings)))
	s.changed(ctx, "")
	return nil
}

// Run reloads the cache on every signal until ctx is done.
func (s *Store) Run(ctx context.Context, signals <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			// errors are recorded in State by Load
			_ = s.Load(ctx)
		}
	}
}

func (s *Store) validate(in models.BookingInsert) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if s.catalog != nil {
		return s.catalog.CheckSelections(in.Rooms)
	}
	return nil
}

// Create validates the booking locally, stores it remotely and inserts the
// stored record into the cache.
func (s *Store) Create(ctx context.Context, in models.BookingInsert) (models.Booking, error) {
	in = in.Normalized()
	if err := s.validate(in); err != nil {
		return models.Booking{}, err
	}

	b, err := s.db.CreateBooking(ctx, in)
	if err != nil {
		s.logger.Error("create booking", zap.String("family_member", in.FamilyMember), zap.Error(err))
		return models.Booking{}, err
	}

	s.mu.Lock()
	s.bookings = append(s.bookings, b)
	schedule.SortByCheckIn(s.bookings)
	s.mu.Unlock()

	s.logger.Info("booking created",
		zap.String("id", b.ID),
		zap.String("family_member", b.FamilyMember),
		zap.Stringer("check_in", b.CheckIn),
		zap.Stringer("check_out", b.CheckOut),
	)
	s.changed(ctx, "created")
	return b, nil
}

// Update validates the patched booking, sends the patch and swaps the
// cached entry for the stored result.
func (s *Store) Update(ctx context.Context, id string, patch models.BookingPatch) (models.Booking, error) {
	current, ok := s.Get(id)
	if !ok {
		var err error
		current, err = s.db.GetBooking(ctx, id)
		if err != nil {
			return models.Booking{}, err
		}
	}

	if patch.FamilyMember != nil {
		name := strings.TrimSpace(*patch.FamilyMember)
		patch.FamilyMember = &name
	}
	if patch.Notes != nil && strings.TrimSpace(*patch.Notes) == "" {
		// an empty string clears the stored notes
		cleared := ""
		patch.Notes = &cleared
	}
	merged := patch.Apply(current).Normalized()
	if err := s.validate(merged); err != nil {
		return models.Booking{}, err
	}

	b, err := s.db.UpdateBooking(ctx, id, patch)
	if err != nil {
		s.logger.Error("update booking", zap.String("id", id), zap.Error(err))
		return models.Booking{}, err
	}

	s.mu.Lock()
	replaced := false
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i] = b
			replaced = true
			break
		}
	}
	if !replaced {
		s.bookings = append(s.bookings, b)
	}
	schedule.SortByCheckIn(s.bookings)
	s.mu.Unlock()

	s.logger.Info("booking updated", zap.String("id", id))
	s.changed(ctx, "updated")
	return b, nil
}

// Delete removes the booking remotely, then from the cache. A booking
// already gone remotely is dropped from the cache too, and ErrNotFound is
// still returned.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.db.DeleteBooking(ctx, id)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		s.logger.Error("delete booking", zap.String("id", id), zap.Error(err))
		return err
	}

	if s.remove(id) {
		s.logger.Info("booking deleted", zap.String("id", id))
		s.changed(ctx, "deleted")
	}
	return err
}

// remove drops id from the cache and reports whether it was there.
func (s *Store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.bookings[:0:0]
	for _, b := range s.bookings {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	found := len(kept) != len(s.bookings)
	s.bookings = kept
	return found
}

// Bookings returns a copy of the cached list, ordered by check-in.
func (s *Store) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Booking{}, s.bookings...)
}

func (s *Store) Get(id string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Conflicts maps rooms taken during [start, end) to their occupant,
// ignoring the booking excludeID.
func (s *Store) Conflicts(start, end models.Date, excludeID string) map[string]string {
	return schedule.FindConflicts(start, end, s.Bookings(), excludeID)
}

func (s *Store) MonthGrid(year int, month time.Month, today models.Date) schedule.MonthGrid {
	return schedule.BuildMonthGrid(year, month, s.Bookings(), today)
}

func (s *Store) Upcoming(today models.Date) []models.Booking {
	return schedule.Upcoming(today, s.Bookings())
}
