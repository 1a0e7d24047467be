// Package main is the entry point for the database client service.
// It builds the connection pool and client from the environment and serves
// the admin API until shutdown.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"dbclient/src/app/server"
	"dbclient/src/core/client"
	"dbclient/src/core/pool"
	"dbclient/src/core/usecase"
	"dbclient/src/infra/config"
	"dbclient/src/infra/driver"
	"dbclient/src/infra/logger"
	"dbclient/src/infra/metrics"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info("starting application",
		"client", cfg.Client.Name,
		"driver", cfg.Database.Driver,
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	connector, err := driver.New(cfg.Database, logger.WithComponent(log, "driver"))
	if err != nil {
		return err
	}

	registry := pool.NewRegistry()
	defer func() {
		if err := registry.CloseAll(); err != nil {
			log.Error("failed to close pools", "error", err)
		}
	}()
	promMetrics := metrics.New("dbclient", registry)

	p, err := pool.New(cfg.Pool.PoolConfig(), connector,
		pool.WithName("pool-"+cfg.Client.Name),
		pool.WithLogger(log),
		pool.WithObserver(promMetrics),
	)
	if err != nil {
		return err
	}
	if err := registry.Register(cfg.Client.Name, p); err != nil {
		_ = p.Close()
		return err
	}

	warmCtx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout+cfg.Pool.AcquireTimeout)
	err = p.Warm(warmCtx)
	cancel()
	if err != nil {
		// the reaper keeps retrying; the service starts degraded
		log.Warn("initial pool warm-up failed", "pool", p.Name(), "error", err)
	}

	c, err := client.New(client.Config{Name: cfg.Client.Name, Debug: cfg.Client.Debug}, p,
		client.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	srv := server.New(cfg, log, server.Deps{
		Pools:   registry,
		Clients: []usecase.Executor{c},
		Metrics: promMetrics.Handler(),
	})

	// Run blocks until shutdown signal is received
	return srv.Run()
}
