package server

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/cirulla-game/cirulla/internal/protocol"
)

// sessionSeq disambiguates connections whose transports report the same
// remote address, such as pipes.
var sessionSeq atomic.Int64

// Session is one connected client: its identity, its transport and its
// reader task. All fields except the transport are owned by the executor.
type Session struct {
	id   string
	name string // empty until HELLO

	table *Table // nil while not seated

	conn      lineConn
	logger    *log.Logger
	closeOnce sync.Once
}

func newSession(conn lineConn, logger *log.Logger) *Session {
	id := fmt.Sprintf("%s#%d", conn.RemoteAddr(), sessionSeq.Add(1))
	return &Session{
		id:     id,
		conn:   conn,
		logger: logger.WithPrefix("session").With("peer", id),
	}
}

// readLoop decodes inbound lines into commands and forwards them on the
// shared queue. It never touches server state itself. Disconnection is
// turned into a synthetic Quit so cleanup happens on the executor.
func (s *Session) readLoop(events chan<- event) {
	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			s.logger.Debug("Read loop ended", "error", err)
			events <- commandEvent{sessionID: s.id, cmd: protocol.Quit{}}
			return
		}
		if line == "" {
			continue
		}

		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			events <- commandEvent{sessionID: s.id, err: err}
			continue
		}
		events <- commandEvent{sessionID: s.id, cmd: cmd}

		if _, quit := cmd.(protocol.Quit); quit {
			return
		}
	}
}

// send writes a response to the session. Called only from the executor.
func (s *Session) send(r protocol.Response) error {
	for _, line := range r.Encode() {
		if err := s.conn.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}
