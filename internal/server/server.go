package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cirulla-game/cirulla/internal/game"
	"github.com/cirulla-game/cirulla/internal/protocol"
)

// event is anything the executor consumes. Sessions and commands ride the
// same channel so arrival order is the order the executor sees.
type event interface{ isEvent() }

// sessionEvent announces a freshly accepted connection.
type sessionEvent struct {
	s *Session
}

// commandEvent carries one parsed command from a session's reader. A parse
// failure travels as err with cmd left nil.
type commandEvent struct {
	sessionID string
	cmd       protocol.Command
	err       error
}

func (sessionEvent) isEvent() {}
func (commandEvent) isEvent() {}

// Server accepts line-protocol connections and drives every table through a
// single executor goroutine. Only the executor touches sessions and tables,
// so none of that state needs locking.
type Server struct {
	addr    string
	wsAddr  string
	rng     *rand.Rand
	logger  *log.Logger
	events  chan event
	started atomic.Bool

	sessions    map[string]*Session
	tables      map[int]*Table
	nextTableID int

	sessionCount atomic.Int64
	tableCount   atomic.Int64
	commandCount atomic.Int64
}

// NewServer builds a server listening on addr. wsAddr optionally adds a
// websocket listener speaking the same line protocol; empty disables it.
func NewServer(addr, wsAddr string, rng *rand.Rand, logger *log.Logger) *Server {
	return &Server{
		addr:        addr,
		wsAddr:      wsAddr,
		rng:         rng,
		logger:      logger.WithPrefix("server"),
		events:      make(chan event, 64),
		sessions:    make(map[string]*Session),
		tables:      make(map[int]*Table),
		nextTableID: 1,
	}
}

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.started.Swap(true) {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.logger.Info("Listening", "addr", ln.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.run(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})
	g.Go(func() error {
		return s.acceptLoop(ctx, ln)
	})
	if s.wsAddr != "" {
		g.Go(func() error {
			return s.serveWebsocket(ctx)
		})
	}
	return g.Wait()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.AttachConn(newTCPConn(conn))
	}
}

// AttachConn hands a connection to the executor and starts its reader.
func (s *Server) AttachConn(conn lineConn) {
	sess := newSession(conn, s.logger)
	s.events <- sessionEvent{s: sess}
	go sess.readLoop(s.events)
}

// run is the executor: the only goroutine that mutates server state.
func (s *Server) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, sess := range s.sessions {
				sess.close()
			}
			return
		case ev := <-s.events:
			switch ev := ev.(type) {
			case sessionEvent:
				s.addSession(ev.s)
			case commandEvent:
				s.dispatch(ev)
			}
		}
	}
}

func (s *Server) addSession(sess *Session) {
	s.sessions[sess.id] = sess
	s.sessionCount.Store(int64(len(s.sessions)))
	s.logger.Info("Client connected", "peer", sess.id, "total", len(s.sessions))
}

func (s *Server) dispatch(ev commandEvent) {
	sess, ok := s.sessions[ev.sessionID]
	if !ok {
		return
	}
	s.commandCount.Add(1)

	if ev.err != nil {
		s.sendTo(sess, protocol.ErrorResponse{Message: ev.err.Error()})
		return
	}

	var err error
	switch cmd := ev.cmd.(type) {
	case protocol.Hello:
		err = s.handleHello(sess, cmd)
	case protocol.Scream:
		err = s.handleScream(sess, cmd)
	case protocol.Status:
		err = s.handleStatus(sess)
	case protocol.TableNew:
		err = s.handleTableNew(sess, cmd)
	case protocol.TableList:
		err = s.handleTableList(sess)
	case protocol.TableJoin:
		err = s.handleTableJoin(sess, cmd)
	case protocol.TableLeave:
		err = s.handleTableLeave(sess)
	case protocol.Play:
		err = s.handlePlay(sess, cmd)
	case protocol.Quit:
		s.removeSession(sess)
		return
	default:
		err = protocol.ErrInvalidCommand
	}
	if err != nil {
		s.sendTo(sess, protocol.ErrorResponse{Message: err.Error()})
	}
}

func (s *Server) handleHello(sess *Session, cmd protocol.Hello) error {
	if len(cmd.Name) < game.MinNameLen {
		return game.ErrNameTooShort
	}
	// ": " separates name from text in SCREAM FROM lines, so a name
	// containing it would not decode back unambiguously.
	if strings.Contains(cmd.Name, ": ") {
		return ErrNameInvalid
	}
	if sess.table != nil {
		return errors.New("cannot change name while at a table")
	}
	for _, other := range s.sessions {
		if other != sess && other.name == cmd.Name {
			return ErrNameInUse
		}
	}
	sess.name = cmd.Name
	s.logger.Info("Player named", "peer", sess.id, "name", cmd.Name)
	s.sendTo(sess, protocol.Hi{Name: cmd.Name})
	return nil
}

func (s *Server) handleScream(sess *Session, cmd protocol.Scream) error {
	if sess.name == "" {
		return ErrNotHello
	}
	s.broadcast(s.allSessions(), protocol.ScreamFrom{Name: sess.name, Text: cmd.Text})
	return nil
}

func (s *Server) handleStatus(sess *Session) error {
	status := protocol.SessionStatus{Name: sess.name}
	if sess.table != nil {
		status.TableID = sess.table.id
		status.TableName = sess.table.name
	}
	s.sendTo(sess, protocol.StatusResponse{Status: status})
	return nil
}

func (s *Server) handleTableNew(sess *Session, cmd protocol.TableNew) error {
	if sess.name == "" {
		return ErrNotHello
	}
	if cmd.MaxPlayers < 2 || cmd.MaxPlayers > game.MaxPlayers {
		return fmt.Errorf("invalid player count %d", cmd.MaxPlayers)
	}
	if cmd.WinAt < 1 {
		return fmt.Errorf("invalid win threshold %d", cmd.WinAt)
	}
	t := newTable(s.nextTableID, cmd.Name, cmd.MaxPlayers, cmd.WinAt, s.rng)
	s.nextTableID++
	s.tables[t.id] = t
	s.tableCount.Store(int64(len(s.tables)))
	s.logger.Info("Table created", "table", t.id, "name", t.name, "win_at", t.winAt)
	s.broadcast(s.allSessions(), protocol.TableCreated{Info: t.info()})
	return nil
}

func (s *Server) handleTableList(sess *Session) error {
	infos := make([]protocol.TableInfo, 0, len(s.tables))
	for id := 1; id < s.nextTableID; id++ {
		if t, ok := s.tables[id]; ok {
			infos = append(infos, t.info())
		}
	}
	s.sendTo(sess, protocol.TableListResponse{Tables: infos})
	return nil
}

func (s *Server) handleTableJoin(sess *Session, cmd protocol.TableJoin) error {
	if sess.name == "" {
		return ErrNotHello
	}
	if sess.table != nil {
		return ErrTableAlreadyJoined
	}
	t, ok := s.tables[cmd.ID]
	if !ok {
		return ErrTableNotFound
	}
	if err := t.seat(sess.id, sess.name); err != nil {
		return err
	}
	sess.table = t
	s.logger.Info("Player joined table", "table", t.id, "name", sess.name)
	s.broadcast(s.tableSessions(t), protocol.TableJoined{ID: t.id})
	if t.full() {
		s.startGame(t)
	}
	return nil
}

func (s *Server) handleTableLeave(sess *Session) error {
	t := sess.table
	if t == nil {
		return ErrTableNotFound
	}
	if t.game.Phase() != game.PhaseNotStarted {
		s.logger.Info("Table abandoned", "table", t.id, "name", sess.name)
		s.retireTable(t)
		return nil
	}
	t.vacate(sess.id)
	sess.table = nil
	s.sendTo(sess, protocol.TableLeft{ID: t.id})
	s.broadcast(s.tableSessions(t), protocol.TableLeft{ID: t.id})
	s.removeIfEmpty(t)
	return nil
}

// removeIfEmpty retires a player-created table once its last seat empties.
// Tables provisioned from configuration stay.
func (s *Server) removeIfEmpty(t *Table) {
	if t.permanent || len(t.seats) > 0 {
		return
	}
	delete(s.tables, t.id)
	s.tableCount.Store(int64(len(s.tables)))
	s.logger.Info("Empty table removed", "table", t.id)
	s.broadcast(s.allSessions(), protocol.TableRemoved{ID: t.id})
}

func (s *Server) handlePlay(sess *Session, cmd protocol.Play) error {
	t := sess.table
	if t == nil {
		return ErrTableNotFound
	}
	if t.game.Phase() != game.PhaseHandInProgress {
		return game.ErrHandNotStarted
	}
	if t.currentSessionID() != sess.id {
		return ErrNotYourTurn
	}
	if _, err := t.game.PlayerPlay(cmd.Card); err != nil {
		return err
	}
	action, err := t.game.NextRoundAction()
	if err != nil {
		return err
	}
	switch action {
	case game.NextPlayer:
		s.broadcastStatus(t)
		s.promptTurn(t)
	case game.NextRound:
		if err := t.game.StartRound(); err != nil {
			return err
		}
		s.broadcastStatus(t)
		s.promptTurn(t)
	case game.EndHand:
		return s.finishHand(t)
	}
	return nil
}

// startGame kicks off a full table: deal, announce, prompt.
func (s *Server) startGame(t *Table) {
	if err := t.game.StartGame(); err != nil {
		s.logger.Error("Start game failed", "table", t.id, "error", err)
		return
	}
	s.logger.Info("Game started", "table", t.id, "players", len(t.seats))
	s.broadcast(s.tableSessions(t), protocol.GameStart{TableID: t.id})
	s.startHand(t)
}

func (s *Server) startHand(t *Table) {
	if err := t.game.StartHand(); err != nil {
		s.logger.Error("Start hand failed", "table", t.id, "error", err)
		return
	}
	if err := t.game.StartRound(); err != nil {
		s.logger.Error("Start round failed", "table", t.id, "error", err)
		return
	}
	s.broadcastStatus(t)
	s.promptTurn(t)
}

// finishHand scores the hand and either deals the next one or ends the game.
func (s *Server) finishHand(t *Table) error {
	result, err := t.game.EndHandScores()
	if err != nil {
		return err
	}
	s.broadcast(s.tableSessions(t), protocol.HandResultResponse{Result: *result})
	if result.GameOver {
		s.logger.Info("Game over", "table", t.id, "winners", result.Winners)
		s.broadcast(s.tableSessions(t), protocol.GameEnd{})
		s.retireTable(t)
		return nil
	}
	s.startHand(t)
	return nil
}

// broadcastStatus sends each seated session its own view of the game.
func (s *Server) broadcastStatus(t *Table) {
	for _, sid := range t.sessionIDs() {
		if sess, ok := s.sessions[sid]; ok {
			s.sendTo(sess, protocol.GameStatusResponse{Status: t.statusFor(sid)})
		}
	}
}

// promptTurn tells the current player to play and everyone else to wait.
func (s *Server) promptTurn(t *Table) {
	current := t.currentSessionID()
	for _, sid := range t.sessionIDs() {
		sess, ok := s.sessions[sid]
		if !ok {
			continue
		}
		if sid == current {
			s.sendTo(sess, protocol.PlayPrompt{})
		} else {
			s.sendTo(sess, protocol.Wait{})
		}
	}
}

// retireTable releases every occupant and takes the table out of play,
// whether the game finished or was abandoned. Provisioned tables are reset
// with a fresh game for the next group; player-created tables are removed
// and announced to everyone.
func (s *Server) retireTable(t *Table) {
	occupants := s.tableSessions(t)
	for _, sid := range t.sessionIDs() {
		if sess, ok := s.sessions[sid]; ok {
			sess.table = nil
		}
		t.vacate(sid)
	}
	if t.permanent {
		t.game = game.New(t.winAt, s.rng)
		s.broadcast(occupants, protocol.TableLeft{ID: t.id})
		return
	}
	delete(s.tables, t.id)
	s.tableCount.Store(int64(len(s.tables)))
	s.broadcast(s.allSessions(), protocol.TableRemoved{ID: t.id})
}

// removeSession is the single teardown path for a session, whether it quit,
// hung up, or failed a write. A started game cannot continue short-handed,
// so leaving one dissolves the whole table.
func (s *Server) removeSession(sess *Session) {
	if _, ok := s.sessions[sess.id]; !ok {
		return
	}
	delete(s.sessions, sess.id)
	s.sessionCount.Store(int64(len(s.sessions)))

	if t := sess.table; t != nil {
		sess.table = nil
		if t.game.Phase() != game.PhaseNotStarted {
			s.logger.Info("Table abandoned", "table", t.id, "name", sess.name)
			s.retireTable(t)
		} else {
			t.vacate(sess.id)
			s.broadcast(s.tableSessions(t), protocol.TableLeft{ID: t.id})
			s.removeIfEmpty(t)
		}
	}
	sess.close()
	s.logger.Info("Client disconnected", "peer", sess.id, "total", len(s.sessions))
}

// sendTo writes one response. A failed write means the peer is gone, so the
// session is torn down instead of retried.
func (s *Server) sendTo(sess *Session, r protocol.Response) {
	if err := sess.send(r); err != nil {
		s.logger.Warn("Write failed", "peer", sess.id, "error", err)
		s.removeSession(sess)
	}
}

func (s *Server) broadcast(targets []*Session, r protocol.Response) {
	var failed []*Session
	for _, sess := range targets {
		if err := sess.send(r); err != nil {
			failed = append(failed, sess)
		}
	}
	for _, sess := range failed {
		s.logger.Warn("Write failed", "peer", sess.id)
		s.removeSession(sess)
	}
}

func (s *Server) allSessions() []*Session {
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

func (s *Server) tableSessions(t *Table) []*Session {
	out := make([]*Session, 0, len(t.seats))
	for _, sid := range t.sessionIDs() {
		if sess, ok := s.sessions[sid]; ok {
			out = append(out, sess)
		}
	}
	return out
}
