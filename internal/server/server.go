package server

import (
	"net/http"
	"time"

	"chalet-booking/internal/catalog"
	"chalet-booking/internal/config"
	"chalet-booking/internal/database"
	"chalet-booking/internal/models"
	"chalet-booking/internal/store"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Deps are the components the HTTP layer works with.
type Deps struct {
	DB      database.Service
	Store   *store.Store
	Catalog *catalog.Catalog
	Hub     *Hub
	Logger  *zap.Logger
}

type Server struct {
	db      database.Service
	store   *store.Store
	catalog *catalog.Catalog
	hub     *Hub
	limiter *visitorLimiter
	logger  *zap.Logger

	// today is the reference day for upcoming stays and the calendar.
	today func() models.Date
}

func newServer(deps Deps, limit rate.Limit, burst int) *Server {
	return &Server{
		db:      deps.DB,
		store:   deps.Store,
		catalog: deps.Catalog,
		hub:     deps.Hub,
		limiter: newVisitorLimiter(limit, burst),
		logger:  deps.Logger,
		today:   models.Today,
	}
}

// NewServer builds the HTTP server for the booking API.
func NewServer(cfg *config.Config, deps Deps) *http.Server {
	s := newServer(deps, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
