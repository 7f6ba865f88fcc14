package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DefaultPGChannel matches the channel used by the bookings trigger.
const DefaultPGChannel = "bookings_changed"

// PostgresListener holds a dedicated connection on LISTEN and raises the
// signal for every NOTIFY on the channel.
type PostgresListener struct {
	DSN     string
	Channel string
	// Backoff is the pause before reconnecting after the connection drops.
	Backoff time.Duration
	Logger  *zap.Logger
}

func NewPostgresListener(dsn string, logger *zap.Logger) *PostgresListener {
	return &PostgresListener{
		DSN:     dsn,
		Channel: DefaultPGChannel,
		Backoff: 5 * time.Second,
		Logger:  logger,
	}
}

// Run blocks until ctx is done, reconnecting when the connection is lost.
// Each (re)connection raises the signal once since notifications sent while
// disconnected are lost.
func (l *PostgresListener) Run(ctx context.Context, sig *Signal) error {
	for {
		err := l.listen(ctx, sig)
		if ctx.Err() != nil {
			return nil
		}
		l.Logger.Warn("bookings listener disconnected", zap.Error(err), zap.Duration("backoff", l.Backoff))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.Backoff):
		}
	}
}

func (l *PostgresListener) listen(ctx context.Context, sig *Signal) error {
	conn, err := pgx.Connect(ctx, l.DSN)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.Channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.Channel, err)
	}
	l.Logger.Info("listening for booking changes", zap.String("channel", l.Channel))
	sig.Notify()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.Logger.Debug("booking change notified", zap.String("operation", n.Payload))
		sig.Notify()
	}
}
