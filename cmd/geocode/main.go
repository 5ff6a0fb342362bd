package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"location_picker/internal/maps"
	"location_picker/platform/config"
	"location_picker/platform/logger"
)

func main() {
	timeout := flag.Duration("timeout", 0, "abort the lookup after this long (0 waits indefinitely)")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: geocode [-timeout 10s] <place name...>")
		flag.PrintDefaults()
	}
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Logs go to stderr so stdout stays the result.
	log := logger.NewWithWriter(cfg.Env, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	var searcher maps.Searcher = maps.NewService(cfg, log)
	if cfg.IsGeocodeCacheEnabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		rdb, err := maps.NewRedisClient(connectCtx, cfg)
		cancel()
		if err != nil {
			log.Warn("geocode cache unavailable", "error", err)
		} else {
			defer rdb.Close()
			searcher = maps.NewCachedSearcher(searcher, rdb, cfg.GetGeocodeCacheTTL(), log)
		}
	}

	coord, err := searcher.Lookup(ctx, query)
	switch {
	case err == nil:
		lat, lon := coord.Format()
		fmt.Printf("%s\t%s\n", lat, lon)
	case errors.Is(err, maps.ErrNotFound):
		fmt.Fprintln(os.Stderr, maps.MessageNotFound)
		stop()
		os.Exit(1)
	default:
		log.Error("geocode failed", "query", query, "error", err)
		fmt.Fprintln(os.Stderr, maps.MessageFailure)
		stop()
		os.Exit(1)
	}
}
