package main

import (
	"math/rand"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/cirulla-game/cirulla/internal/server"
)

// ServeCmd runs the multiplayer server.
type ServeCmd struct {
	Config          string `kong:"default='cirulla.hcl',help='Path to the HCL configuration file'"`
	Addr            string `kong:"help='Listen address, overrides the configuration file'"`
	Seed            *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug           bool   `kong:"help='Enable debug logging'"`
	MonitorInterval int    `kong:"default='60',help='Seconds between activity reports'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(cfg.Server.LogLevel, c.Debug)

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	s := server.NewServer(addr, cfg.GetWebsocketAddress(), rng, logger)
	s.Provision(cfg.Tables)

	monitor := server.NewMonitor(s, time.Duration(c.MonitorInterval)*time.Second, quartz.NewReal(), logger)

	ctx := signalContext()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(ctx)
	})
	g.Go(func() error {
		return monitor.Run(ctx)
	})
	return g.Wait()
}
