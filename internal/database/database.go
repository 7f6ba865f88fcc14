package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"chalet-booking/internal/models"

	// PostgreSQL driver
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no booking has the requested id.
var ErrNotFound = errors.New("booking not found")

// Service represents the remote datastore holding the bookings.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	// ListBookings returns every booking ordered by check-in ascending.
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	// CreateBooking stores a new booking and returns it with its
	// server-assigned id and timestamps.
	CreateBooking(ctx context.Context, in models.BookingInsert) (models.Booking, error)
	// UpdateBooking applies a partial update and refreshes updated_at.
	UpdateBooking(ctx context.Context, id string, patch models.BookingPatch) (models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	logger *zap.Logger
}

const bookingColumns = `id, family_member, check_in, check_out, guest_count, notes, rooms, created_at, updated_at`

// New opens a connection pool to PostgreSQL through the pgx stdlib driver.
func New(dsn string, logger *zap.Logger) (Service, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &service{db: db, logger: logger}, nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	// Ping the database
	err := s.db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.logger.Error("database ping failed", zap.Error(err))
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	s.logger.Info("disconnected from database")
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b     models.Booking
		notes sql.NullString
	)
	err := row.Scan(
		&b.ID,
		&b.FamilyMember,
		&b.CheckIn,
		&b.CheckOut,
		&b.GuestCount,
		&notes,
		&b.Rooms,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if notes.Valid {
		b.Notes = &notes.String
	}
	return b, nil
}

func (s *service) ListBookings(ctx context.Context) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY check_in ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *service) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("get booking %s: %w", id, err)
	}
	return b, nil
}

func (s *service) CreateBooking(ctx context.Context, in models.BookingInsert) (models.Booking, error) {
	query := `
		INSERT INTO bookings (family_member, check_in, check_out, guest_count, notes, rooms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bookingColumns

	b, err := scanBooking(s.db.QueryRowContext(ctx, query,
		in.FamilyMember,
		in.CheckIn,
		in.CheckOut,
		in.GuestCount,
		nullString(in.Notes),
		in.Rooms,
	))
	if err != nil {
		return models.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}

// UpdateBooking only touches the columns present in the patch. An empty
// notes string clears the notes.
func (s *service) UpdateBooking(ctx context.Context, id string, patch models.BookingPatch) (models.Booking, error) {
	query := `
		UPDATE bookings SET
			family_member = COALESCE($2, family_member),
			check_in      = COALESCE($3::date, check_in),
			check_out     = COALESCE($4::date, check_out),
			guest_count   = COALESCE($5, guest_count),
			notes         = CASE WHEN $6 THEN NULLIF($7, '') ELSE notes END,
			rooms         = COALESCE($8::jsonb, rooms),
			updated_at    = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns

	var (
		notesSet bool
		notes    string
		rooms    any
	)
	if patch.Notes != nil {
		notesSet = true
		notes = *patch.Notes
	}
	if patch.Rooms != nil {
		rooms = patch.Rooms
	}

	b, err := scanBooking(s.db.QueryRowContext(ctx, query,
		id,
		nullString(patch.FamilyMember),
		nullDate(patch.CheckIn),
		nullDate(patch.CheckOut),
		nullInt(patch.GuestCount),
		notesSet,
		notes,
		rooms,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("update booking %s: %w", id, err)
	}
	return b, nil
}

func (s *service) DeleteBooking(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullDate(d *models.Date) any {
	if d == nil {
		return nil
	}
	return *d
}
