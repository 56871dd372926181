package server

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorReportsOnTick(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	s := NewServer("127.0.0.1:0", "", rand.New(rand.NewSource(1)), log.New(io.Discard))
	s.sessionCount.Store(3)
	s.tableCount.Store(2)
	s.commandCount.Store(17)

	mClock := quartz.NewMock(t)
	trap := mClock.Trap().TickerFunc("monitor")
	defer trap.Close()

	m := NewMonitor(s, time.Minute, mClock, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	call, err := trap.Wait(ctx)
	require.NoError(t, err)
	call.Release(ctx)

	mClock.Advance(time.Minute).MustWait(ctx)

	out := buf.String()
	assert.Contains(t, out, "sessions=3")
	assert.Contains(t, out, "tables=2")
	assert.Contains(t, out, "commands=17")

	cancel()
	require.NoError(t, <-done)
}
