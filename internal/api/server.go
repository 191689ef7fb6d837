// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

// package api serves the meal plan HTTP API: the JSON endpoints the original
// service exposed plus week listings, the PDF archive, a manual fetch
// trigger, health and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mensahub/mensad/internal/archive"
	"github.com/mensahub/mensad/internal/logging"
	"github.com/mensahub/mensad/internal/model"
	"github.com/mensahub/mensad/internal/state"
)

// DefaultAddr is the listen address the service has always used.
const DefaultAddr = ":8000"

const shutdownTimeout = 10 * time.Second

// Store is the slice of the database layer the API reads from.
type Store interface {
	GetLatestMealPlan() (*model.MealPlan, error)
	GetMealPlan(year, week int) (*model.MealPlan, error)
	ListPlanWeeks() ([]model.PlanWeek, error)
}

// Refresher triggers a plan fetch on demand. *fetch.Fetcher satisfies it.
type Refresher interface {
	Fetch(ctx context.Context) (*model.MealPlan, error)
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Empty selects ":8000".
	Addr string
	// Token guards POST /fetch when set. Empty disables the check.
	Token string
	// RateRPS and RateBurst configure the per-client limiter. The limiter
	// is off unless both are positive.
	RateRPS   float64
	RateBurst int
	// Ping probes the database for /healthz. Nil reports healthy.
	Ping func(ctx context.Context) error
}

// Server routes meal plan reads, archive downloads and the fetch trigger.
type Server struct {
	opts    Options
	store   Store
	archive *archive.Archive
	cache   *state.PlanCache
	fetcher Refresher
	limiter *clientLimiter
}

// New returns a Server. cache and fetcher may be nil: without a cache every
// read goes to the store, without a fetcher POST /fetch reports 503.
func New(opts Options, store Store, arc *archive.Archive, cache *state.PlanCache, fetcher Refresher) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	return &Server{
		opts:    opts,
		store:   store,
		archive: arc,
		cache:   cache,
		fetcher: fetcher,
		limiter: newClientLimiter(opts.RateRPS, opts.RateBurst),
	}
}

// Handler builds the routing table with logging, CORS and rate limiting
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /mealplan", s.handleCurrentPlan)
	mux.HandleFunc("GET /mealplan/{year}/{week}", s.handlePlanWeek)
	mux.HandleFunc("GET /weeks", s.handleWeeks)
	mux.HandleFunc("GET /archive", s.handleArchiveList)
	mux.HandleFunc("GET /archive/{file}", s.handleArchiveFile)
	mux.HandleFunc("POST /fetch", s.handleFetch)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleNotFound)

	return s.logRequests(s.cors(s.rateLimit(mux)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logging.Infof("HTTP API listening on %s", s.opts.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		logging.Debugf("HTTP API stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// statusWriter captures the response code for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
		logging.Debugf("%s %s -> %d (%s)", r.Method, r.URL.Path, sw.status, time.Since(start).Round(time.Millisecond))
	})
}

// cors sits outside the limiter so preflights never spend tokens and
// rejected requests still carry the headers a browser needs to read them.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Probes and scrapers stay exempt so monitoring keeps working
		// while clients are throttled.
		if s.limiter != nil && r.URL.Path != "/metrics" && r.URL.Path != "/healthz" {
			if !s.limiter.allow(clientKey(r), time.Now()) {
				rateLimited.Inc()
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
