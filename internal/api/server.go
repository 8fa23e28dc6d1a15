// Package api exposes the simulator over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
)

// TeamSource supplies the rated teams for a simulation.
type TeamSource interface {
	GetTeams() ([]league.Team, error)
}

// Config wires a Server.
type Config struct {
	Addr    string
	Teams   TeamSource
	Params  league.Params
	Runs    int // default runs for /odds
	MaxRuns int
	// OddsRate and OddsBurst throttle /odds (requests per second). A zero
	// rate disables throttling.
	OddsRate  float64
	OddsBurst int
	Logger    *slog.Logger
	// Seed returns the seed used when a request names none.
	Seed func() uint64
}

// Server holds the handler dependencies.
type Server struct {
	teams   TeamSource
	params  league.Params
	runs    int
	maxRuns int
	limiter *rate.Limiter
	logger  *slog.Logger
	seed    func() uint64
}

// NewServer builds a Server from cfg, filling unset optional fields.
func NewServer(cfg Config) *Server {
	limit := rate.Inf
	if cfg.OddsRate > 0 {
		limit = rate.Limit(cfg.OddsRate)
	}
	s := &Server{
		teams:   cfg.Teams,
		params:  cfg.Params,
		runs:    cfg.Runs,
		maxRuns: cfg.MaxRuns,
		limiter: rate.NewLimiter(limit, max(cfg.OddsBurst, 1)),
		logger:  cfg.Logger,
		seed:    cfg.Seed,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.seed == nil {
		s.seed = func() uint64 { return uint64(time.Now().UnixNano()) }
	}
	if s.runs <= 0 {
		s.runs = 1000
	}
	if s.maxRuns < s.runs {
		s.maxRuns = s.runs
	}
	return s
}

// Router returns the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/teams", s.handleTeams).Methods(http.MethodGet)
	r.HandleFunc("/teams/{name}", s.handleTeam).Methods(http.MethodGet)
	r.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	r.Handle("/odds", s.throttle(http.HandlerFunc(s.handleOdds))).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeError(w, http.StatusTooManyRequests, "odds requests are rate limited, retry later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// Start binds an HTTP server to cfg.Addr and blocks until it fails.
func Start(cfg Config) error {
	s := NewServer(cfg)
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("HTTP server listening", "addr", cfg.Addr)
	return srv.ListenAndServe()
}
