package client

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirulla-game/cirulla/internal/game"
	"github.com/cirulla-game/cirulla/internal/protocol"
)

// startFakeServer listens on a loopback port and hands the accepted
// connection to the test.
func startFakeServer(t *testing.T) (addr string, accepted <-chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		ch <- conn
	}()
	return ln.Addr().String(), ch
}

func TestClientSendAndReceive(t *testing.T) {
	addr, accepted := startFakeServer(t)
	logger := log.New(io.Discard)

	c := NewClient(addr, logger)
	require.NoError(t, c.Connect())
	t.Cleanup(func() { _ = c.Disconnect() })

	var server net.Conn
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted")
	}
	t.Cleanup(func() { _ = server.Close() })

	require.NoError(t, c.Send(protocol.Hello{Name: "alice"}))
	line, err := bufio.NewReader(server).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "HELLO alice\n", line)

	_, err = server.Write([]byte("HI alice\n"))
	require.NoError(t, err)
	select {
	case r := <-c.Responses():
		require.IsType(t, protocol.Hi{}, r)
		assert.Equal(t, "alice", r.(protocol.Hi).Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no response received")
	}

	// Server hangup closes the response stream.
	require.NoError(t, server.Close())
	select {
	case _, ok := <-c.Responses():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close")
	}
}

func TestModelTracksGameState(t *testing.T) {
	logger := log.New(io.Discard)
	m := NewModel(nil, "alice", logger)

	m.handleResponse(protocol.Hi{Name: "alice"})
	require.Len(t, m.eventLog, 1)
	assert.Contains(t, m.eventLog[0], "welcome, alice")

	status := protocol.GameStatus{
		TableID: 1,
		Deck:    30,
		WinAt:   51,
		Players: []protocol.PlayerStatus{
			{Name: "alice", You: true, Hand: []game.Card{{Suit: game.Hearts, Rank: 7}}},
			{Name: "bob", HandSize: 3},
		},
	}
	m.handleResponse(protocol.GameStatusResponse{Status: status})
	require.NotNil(t, m.status)
	assert.Equal(t, 1, m.status.TableID)

	m.handleResponse(protocol.PlayPrompt{})
	assert.True(t, m.myTurn)
	m.handleResponse(protocol.Wait{})
	assert.False(t, m.myTurn)

	m.handleResponse(protocol.TableRemoved{ID: 1})
	assert.Nil(t, m.status)
}

func TestModelLogsErrors(t *testing.T) {
	logger := log.New(io.Discard)
	m := NewModel(nil, "alice", logger)

	m.handleResponse(protocol.ErrorResponse{Message: "name already in use"})
	require.Len(t, m.eventLog, 1)
	assert.Contains(t, m.eventLog[0], "name already in use")
}
