package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"location_picker/internal/events"
	apphttp "location_picker/internal/http"
	"location_picker/internal/http/router"
	"location_picker/internal/maps"
	"location_picker/internal/notification/sse"
	"location_picker/internal/picker"
	"location_picker/platform/config"
	"location_picker/platform/httpkit"
	"location_picker/platform/logger"
	"location_picker/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	var searcher maps.Searcher = maps.NewService(cfg, log)
	health := map[string]apphttp.HealthChecker{}

	if cfg.IsGeocodeCacheEnabled() {
		rdb, closeCache := initGeocodeCache(ctx, cfg, log)
		if rdb != nil {
			defer closeCache()
			searcher = maps.NewCachedSearcher(searcher, rdb, cfg.GetGeocodeCacheTTL(), log)
			health["geocode_cache"] = maps.NewCacheHealth(rdb)
		}
	} else {
		log.Info("REDIS_URL not configured; geocode cache disabled")
	}

	lookupLimiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetLookupRatePerSecond()), cfg.GetLookupBurst(), log)

	// ========================================================================
	// Domain Modules
	// ========================================================================

	// SSE hub forwards picker events to connected pages
	stream := sse.New(log)
	stream.RegisterHandlers(eventBus)

	pickerSvc := picker.NewService(
		picker.NewRegistry(time.Now),
		searcher,
		picker.NewBrowserLocator(eventBus),
		eventBus,
		log,
	)

	pickerModule := picker.NewModule(pickerSvc, picker.NewMapSurface(cfg), stream, val, lookupLimiter.RateLimit())
	mapsModule := maps.NewModule(searcher, lookupLimiter.RateLimit())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: health,
		Modules: []apphttp.Module{
			pickerModule,
			mapsModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return pickerSvc.RunJanitor(gctx, cfg.GetSessionSweepInterval(), cfg.GetSessionIdleTTL())
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Closing sessions first ends their event streams so Shutdown can drain.
		pickerSvc.Shutdown(shutdownCtx)
		eventBus.Wait()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func initGeocodeCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (*redis.Client, func()) {
	var rdb *redis.Client
	if err := withRetry(ctx, log, "geocode cache connection", 3, time.Second, func() error {
		client, err := maps.NewRedisClient(ctx, cfg)
		if err != nil {
			return err
		}
		rdb = client
		return nil
	}); err != nil {
		log.Warn("geocode cache unavailable; lookups go straight to the geocoder", "error", err)
		return nil, nil
	}

	log.Info("geocode cache connected", "ttl", cfg.GetGeocodeCacheTTL())
	return rdb, func() {
		_ = rdb.Close()
	}
}

// withRetry runs fn up to attempts times, sleeping attempt² × baseDelay
// between tries. It gives up early when ctx is done.
func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		if attempt == attempts {
			return fmt.Errorf("%s: %w", name, err)
		}

		timer := time.NewTimer(time.Duration(attempt*attempt) * baseDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
