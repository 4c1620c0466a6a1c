package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirinyoku/aero-go/internal/backend"
	"github.com/kirinyoku/aero-go/internal/config"
	redisx "github.com/kirinyoku/aero-go/internal/redis"
	"github.com/kirinyoku/aero-go/internal/session"
	"github.com/kirinyoku/aero-go/internal/store"
	httpgin "github.com/kirinyoku/aero-go/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Session store and cache: Redis when configured, in-memory otherwise.
	var (
		sessions store.Store
		cache    *store.Cache
		limiter  *redisx.SlidingWindowLimiter
	)

	if cfg.Redis.Addr != "" {
		rdb, err := redisx.New(context.Background(), redisx.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		sessions = store.NewRedis(rdb)
		cache = store.NewCache(store.NewRedis(rdb))
		limiter = redisx.NewSlidingWindowLimiter(rdb, "code", cfg.Session.CodeRequestLimit, cfg.Session.CodeRequestWindow)
	} else {
		sessions = store.NewMemory()
		cache = store.NewCache(store.NewMemory())
	}

	// Backend client against the remote airline API
	client := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Profile: backend.ProfileByName(cfg.Backend.Profile),
	}, logger)

	// Booking session controller
	svc := session.New(client, sessions, cache, session.Config{
		SessionTTL: cfg.Session.TTL,
		CacheTTL:   cfg.Session.CacheTTL,
	}, logger)

	// Initialize Gin router
	router := httpgin.NewRouter(svc, limiter, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening",
			"host", a.cfg.Server.Host,
			"port", a.cfg.Server.Port,
			"backend", a.cfg.Backend.BaseURL,
			"profile", a.cfg.Backend.Profile,
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
