package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/billheat/internal/heatmap"
	"github.com/emiliopalmerini/billheat/internal/infrastructure/config"
	"github.com/emiliopalmerini/billheat/internal/logging"
	"github.com/emiliopalmerini/billheat/internal/ports"
	"github.com/emiliopalmerini/billheat/internal/shared/middleware"
	"github.com/emiliopalmerini/billheat/internal/theme"
)

//go:embed static/*
var staticFiles embed.FS

type Server struct {
	router   chi.Router
	port     int
	logger   *log.Logger
	bills    ports.BillRepository
	theme    *theme.Service
	metrics  ports.MetricsExporter
	gradient config.Gradient
	rankMode heatmap.RankMode
	palettes sync.Map // steps -> heatmap.Palette
	now      func() time.Time
}

func NewServer(
	cfg *config.Server,
	logger *log.Logger,
	bills ports.BillRepository,
	prefs ports.PreferenceRepository,
	metrics ports.MetricsExporter,
) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rankMode, err := heatmap.ParseRankMode(cfg.Gradient.RankMode)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:   chi.NewRouter(),
		port:     cfg.Port,
		logger:   logger,
		bills:    bills,
		theme:    theme.NewService(prefs),
		metrics:  metrics,
		gradient: cfg.Gradient,
		rankMode: rankMode,
		now:      time.Now,
	}

	if cfg.Gradient.Steps > 0 {
		if _, err := s.palette(cfg.Gradient.Steps); err != nil {
			return nil, err
		}
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Middleware(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.HTMX)
	r.Use(middleware.ClientID)
	r.Use(middleware.ColorScheme)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	r.Get("/", s.handleIndex)
	r.Get("/bills/{month}", s.handleBill)

	// API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/theme", s.handleAPITheme)
		r.Post("/theme/toggle", s.handleAPIToggleTheme)
		r.Get("/palette", s.handleAPIPalette)

		r.Get("/bills", s.handleAPIBills)
		r.Post("/bills", s.handleAPICreateBill)
		r.Get("/bills/{month}", s.handleAPIBill)
		r.Get("/subscribers", s.handleAPISubscribers)
		r.Get("/subscribers/{number}", s.handleAPISubscriber)
	})
}

// ServeHTTP makes the server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server", "url", fmt.Sprintf("http://localhost:%d", s.port))

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown error", "err", err)
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil // Graceful shutdown
	}
	return err
}

// palette returns the gradient for steps, building it on first use.
func (s *Server) palette(steps int) (heatmap.Palette, error) {
	if p, ok := s.palettes.Load(steps); ok {
		return p.(heatmap.Palette), nil
	}
	p, err := s.gradient.Palette(steps)
	if err != nil {
		return nil, err
	}
	s.palettes.Store(steps, p)
	return p, nil
}
