package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Monitor periodically logs a one-line summary of server activity. The
// clock is injectable so tests can advance time themselves.
type Monitor struct {
	server   *Server
	interval time.Duration
	clock    quartz.Clock
	logger   *log.Logger
}

// NewMonitor creates a monitor that reports every interval.
func NewMonitor(server *Server, interval time.Duration, clock quartz.Clock, logger *log.Logger) *Monitor {
	return &Monitor{
		server:   server,
		interval: interval,
		clock:    clock,
		logger:   logger.WithPrefix("monitor"),
	}
}

// Run reports until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := m.clock.TickerFunc(ctx, m.interval, func() error {
		m.report()
		return nil
	}, "monitor")
	if err := ticker.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (m *Monitor) report() {
	m.logger.Info("Server activity",
		"sessions", m.server.sessionCount.Load(),
		"tables", m.server.tableCount.Load(),
		"commands", m.server.commandCount.Load())
}
