// Package api exposes the reservation service over HTTP. Handlers
// translate JSON requests to and from the booking engine and the
// read-side helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/booking"
	"github.com/camilacarbajal07032013-dev/sistema-reservas-edificio/internal/models"
)

// Booker is the write side of the reservation engine.
type Booker interface {
	Submit(ctx context.Context, req booking.SubmitRequest) (booking.SubmitResult, error)
	Delete(ctx context.Context, officeID int64, ids []int64) (int64, error)
}

// SpaceReader serves the space catalog.
type SpaceReader interface {
	FindSpace(ctx context.Context, id int64) (*models.Space, error)
	ListSpaces(ctx context.Context, activeOnly bool) ([]models.Space, error)
}

// ReservationReader serves an office's reservations for the grouped view.
type ReservationReader interface {
	FindByOffice(ctx context.Context, officeID int64) ([]models.Reservation, error)
}

// OccupancyMarker flags catalog blocks already taken on a date.
type OccupancyMarker interface {
	MarkOccupancy(ctx context.Context, spaceID int64, date string, blocks []models.TimeBlock) ([]models.TimeBlock, error)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	engine    Booker
	spaces    SpaceReader
	records   ReservationReader
	occupancy OccupancyMarker
	limiter   *rate.Limiter
	logger    *zerolog.Logger
}

// Options tunes the server. Zero RateLimitRPS disables rate limiting.
type Options struct {
	RateLimitRPS float64
	RateBurst    int
}

func NewServer(engine Booker, spaces SpaceReader, records ReservationReader, occupancy OccupancyMarker, opts Options, logger *zerolog.Logger) *Server {
	s := &Server{
		engine:    engine,
		spaces:    spaces,
		records:   records,
		occupancy: occupancy,
		logger:    logger,
	}
	if opts.RateLimitRPS > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimitRPS)
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}
	return s
}

// Router builds the chi router with the middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.accessLog)
	if s.limiter != nil {
		r.Use(s.rateLimit)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/spaces", s.handleListSpaces)
		r.Get("/spaces/{id}/blocks", s.handleSpaceBlocks)
		r.Post("/reservations", s.handleSubmit)
		r.Get("/reservations", s.handleListReservations)
		r.Delete("/reservations", s.handleDelete)
	})

	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeEngineError maps the engine's sentinel errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, booking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, booking.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, booking.ErrPolicyLimit):
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, err.Error())
}
