package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"chalet-booking/internal/database"
	"chalet-booking/internal/export"
	"chalet-booking/internal/models"
	"chalet-booking/internal/schedule"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RegisterRoutes sets up the router with all endpoints.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(s.limiter.middleware)
	r.Get("/health", s.healthHandler)

	// Catalog
	r.Get("/rooms", s.roomsHandler)
	r.Get("/floors", s.floorsHandler)
	r.Get("/members", s.membersHandler)

	// Endpoints for bookings
	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", s.listBookingsHandler)
		r.Post("/", s.createBookingHandler)
		r.Get("/upcoming", s.upcomingHandler)
		r.Get("/{id}", s.getBookingHandler)
		r.Patch("/{id}", s.updateBookingHandler)
		r.Delete("/{id}", s.deleteBookingHandler)
	})
	r.Get("/conflicts", s.conflictsHandler)
	r.Get("/calendar/{year}/{month}", s.calendarHandler)
	r.Post("/refresh", s.refreshHandler)

	// Exports
	r.Get("/export/csv", s.exportCSVHandler)
	r.Get("/export/text", s.exportTextHandler)
	r.Get("/export/xlsx", s.exportXLSXHandler)
	r.Get("/calendar.ics", s.exportICSHandler)

	if s.hub != nil {
		r.Get("/ws", s.hub.ServeWS)
	}

	return r
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Retry bool   `json:"retry,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps a store error to its HTTP status.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "Réservation introuvable")
	default:
		writeError(w, http.StatusBadGateway, "Erreur lors de l'enregistrement, veuillez réessayer")
	}
}

// healthHandler provides health information.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.db.Health()
	state := s.store.State()
	stats["cache_loaded"] = strconv.FormatBool(state.Loaded)
	stats["cached_bookings"] = strconv.Itoa(len(s.store.Bookings()))
	if !state.LastLoad.IsZero() {
		stats["last_load"] = state.LastLoad.UTC().Format(time.RFC3339)
	}
	if state.Err != nil {
		stats["cache_error"] = state.Err.Error()
	}
	if s.hub != nil {
		stats["ws_clients"] = strconv.Itoa(s.hub.Len())
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) roomsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Rooms)
}

func (s *Server) floorsHandler(w http.ResponseWriter, r *http.Request) {
	type floor struct {
		models.Floor
		Rooms []models.Room `json:"rooms"`
	}
	out := make([]floor, 0, len(s.catalog.Floors))
	for _, f := range s.catalog.Floors {
		out = append(out, floor{Floor: f, Rooms: s.catalog.RoomsByFloor(f.Level)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) membersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Members)
}

// listBookingsHandler serves the cached list. A failed load is reported
// in X-Cache-Error while the stale list is still served; with nothing
// loaded yet the client is asked to retry.
func (s *Server) listBookingsHandler(w http.ResponseWriter, r *http.Request) {
	state := s.store.State()
	if state.Err != nil {
		if !state.Loaded {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{
				Error: "Impossible de charger les réservations",
				Retry: true,
			})
			return
		}
		w.Header().Set("X-Cache-Error", state.Err.Error())
	}
	writeJSON(w, http.StatusOK, s.store.Bookings())
}

type upcomingBooking struct {
	models.Booking
	Nights  int    `json:"nights"`
	Ongoing bool   `json:"ongoing"`
	Color   string `json:"color"`
}

func (s *Server) upcomingHandler(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	upcoming := s.store.Upcoming(today)
	out := make([]upcomingBooking, 0, len(upcoming))
	for _, b := range upcoming {
		out = append(out, upcomingBooking{
			Booking: b,
			Nights:  schedule.Nights(b),
			Ongoing: schedule.IsOngoing(b, today),
			Color:   s.catalog.MemberColor(b.FamilyMember),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getBookingHandler(w http.ResponseWriter, r *http.Request) {
	b, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Réservation introuvable")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// bookingResponse carries the stored booking and, when the rooms cannot
// sleep every guest, a non-blocking warning.
type bookingResponse struct {
	models.Booking
	CapacityWarning string `json:"capacity_warning,omitempty"`
}

func (s *Server) respondBooking(w http.ResponseWriter, status int, b models.Booking) {
	resp := bookingResponse{Booking: b}
	if capacity := s.catalog.Capacity(b.Rooms); b.GuestCount > capacity {
		resp.CapacityWarning = fmt.Sprintf("%d personnes pour %d couchages", b.GuestCount, capacity)
	}
	writeJSON(w, status, resp)
}

func (s *Server) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	var in models.BookingInsert
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.logger.Debug("invalid booking data", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	b, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.respondBooking(w, http.StatusCreated, b)
}

func (s *Server) updateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var patch models.BookingPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.logger.Debug("invalid booking patch", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	b, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.respondBooking(w, http.StatusOK, b)
}

func (s *Server) deleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type conflictsResponse struct {
	Conflicts map[string]string     `json:"conflicts"`
	Rooms     []schedule.RoomStatus `json:"rooms"`
}

func (s *Server) conflictsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	checkIn, err := models.ParseDate(q.Get("check_in"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Date d'arrivée invalide", Field: "check_in"})
		return
	}
	checkOut, err := models.ParseDate(q.Get("check_out"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Date de départ invalide", Field: "check_out"})
		return
	}
	if !checkOut.After(checkIn) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: models.MsgCheckOutAfterCheckIn, Field: "check_out"})
		return
	}

	conflicts := s.store.Conflicts(checkIn, checkOut, q.Get("exclude"))
	writeJSON(w, http.StatusOK, conflictsResponse{
		Conflicts: conflicts,
		Rooms:     schedule.RoomAvailability(s.catalog.Rooms, conflicts),
	})
}

type calendarResponse struct {
	schedule.MonthGrid
	Colors map[string]string `json:"colors"`
}

func (s *Server) calendarHandler(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Année invalide")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Mois invalide")
		return
	}

	grid := s.store.MonthGrid(year, time.Month(month), s.today())
	colors := map[string]string{}
	for _, week := range grid.Weeks {
		for _, bar := range week.Bars {
			colors[bar.FamilyMember] = s.catalog.MemberColor(bar.FamilyMember)
		}
	}
	writeJSON(w, http.StatusOK, calendarResponse{MonthGrid: grid, Colors: colors})
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Load(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: "Impossible de charger les réservations",
			Retry: true,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"bookings": len(s.store.Bookings())})
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (s *Server) exportCSVHandler(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	attachment(w, "text/csv; charset=utf-8", export.Filename(today, "csv"))
	if err := export.WriteCSV(w, s.store.Upcoming(today)); err != nil {
		s.logger.Error("csv export", zap.Error(err))
	}
}

func (s *Server) exportTextHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.Text(s.store.Upcoming(s.today()))))
}

func (s *Server) exportXLSXHandler(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	data, err := export.XLSX(s.store.Upcoming(today), s.catalog)
	if err != nil {
		s.logger.Error("xlsx export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.Filename(today, "xlsx"))
	w.Write(data)
}

func (s *Server) exportICSHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Write([]byte(export.ICS(s.store.Upcoming(s.today()), time.Now())))
}
