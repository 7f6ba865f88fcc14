package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chalet-booking/internal/catalog"
	"chalet-booking/internal/config"
	"chalet-booking/internal/database"
	"chalet-booking/internal/logger"
	"chalet-booking/internal/notify"
	"chalet-booking/internal/server"
	"chalet-booking/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "chalet-booking")
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer lg.Sync()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		lg.Fatal("load catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := notify.NewSignal()

	// Datastore
	var db database.Service
	switch cfg.DBDriver {
	case "memory":
		mem := database.NewMemory()
		go notify.Forward(ctx, mem.Changes(), sig)
		db = mem
	default:
		if cfg.DBAutoMigrate {
			if err := database.Migrate(cfg.DatabaseURL(), cfg.MigrationsPath, lg); err != nil {
				lg.Fatal("migrate database", zap.Error(err))
			}
		}
		db, err = database.New(cfg.DatabaseURL(), lg)
		if err != nil {
			lg.Fatal("open database", zap.Error(err))
		}
	}
	defer db.Close()

	// Change notifications
	var opts []store.Option
	switch cfg.NotifyBackend {
	case "postgres":
		listener := notify.NewPostgresListener(cfg.DatabaseURL(), lg)
		go func() {
			if err := listener.Run(ctx, sig); err != nil {
				lg.Error("postgres listener stopped", zap.Error(err))
			}
		}()
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		subscriber := notify.NewRedisSubscriber(rdb, cfg.RedisChannel, lg)
		go func() {
			if err := subscriber.Run(ctx, sig); err != nil {
				lg.Error("redis subscriber stopped", zap.Error(err))
			}
		}()
		opts = append(opts, store.WithPublisher(notify.NewRedisPublisher(rdb, cfg.RedisChannel)))
	}

	if cfg.RefreshCron != "" {
		poller, err := notify.NewPoller(cfg.RefreshCron, sig, lg)
		if err != nil {
			lg.Fatal("refresh schedule", zap.Error(err))
		}
		poller.Start()
		defer poller.Stop()
	}

	// Store and websocket hub
	st := store.New(db, cat, lg, opts...)
	hub := server.NewHub(lg)
	st.Subscribe(hub.BookingsChanged)

	if err := st.Load(ctx); err != nil {
		// served as a retry prompt until a reload succeeds
		lg.Warn("initial load failed", zap.Error(err))
	}
	go st.Run(ctx, sig.C())

	// Create a new server instance
	srv := server.NewServer(cfg, server.Deps{
		DB:      db,
		Store:   st,
		Catalog: cat,
		Hub:     hub,
		Logger:  lg,
	})

	// Create a listener on the desired address
	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		lg.Fatal("create listener", zap.String("addr", srv.Addr), zap.Error(err))
	}

	// Channel to receive errors from the server
	errChan := make(chan error, 1)

	go func() {
		lg.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Set up channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Wait for an interrupt or server error
	select {
	case err := <-errChan:
		lg.Error("server error", zap.Error(err))
	case s := <-stop:
		lg.Info("initiating graceful shutdown", zap.Stringer("signal", s))
	}

	cancel()
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("could not gracefully shut down the server", zap.Error(err))
		return
	}
	lg.Info("server gracefully stopped")
}
