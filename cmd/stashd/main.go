package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"

	"github.com/adeilh/go-stash/api"
	"github.com/adeilh/go-stash/cache/memory"
	"github.com/adeilh/go-stash/config"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "listen address")
	flag.Parse()

	logger := log.New("stash")
	logger.SetLevel(cfg.LogLevel)

	store := memory.NewStore(memory.Options{Logger: logger})
	store.StartSweeper()

	server := api.NewServer(store,
		api.WithAddress(*addr),
		api.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
		api.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("listening on %s", *addr)
	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("server stopped: %v", err)
	}
	logger.Infof("shutdown complete")
}
