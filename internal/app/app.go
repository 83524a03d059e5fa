package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/studygrid/internal/config"
	"github.com/klokku/studygrid/internal/utils"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, router, scheduler and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	cron   *cron.Cron
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}
	return newApplication(cfg, &utils.SystemClock{})
}

func newApplication(cfg config.Application, clock utils.Clock) (*Application, error) {
	deps, err := BuildDependencies(cfg, clock)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	scheduler := cron.New()
	if cfg.Gesture.Sweep != "" {
		_, err := scheduler.AddFunc(cfg.Gesture.Sweep, func() {
			deps.GestureTracker.ExpireStale(context.Background())
		})
		if err != nil {
			return nil, fmt.Errorf("invalid gesture sweep schedule %q: %w", cfg.Gesture.Sweep, err)
		}
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, cron: scheduler, srv: srv}, nil
}

// Run starts the scheduler and the HTTP server and blocks until the process is
// interrupted.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.cron.Start()
	defer func() {
		<-a.cron.Stop().Done()
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		serverErr <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}
