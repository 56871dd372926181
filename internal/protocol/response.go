package protocol

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cirulla-game/cirulla/internal/game"
)

// ErrInvalidResponse is returned by ReadResponse for unparseable input.
var ErrInvalidResponse = errors.New("invalid response")

// TableInfo is the public description of a room.
type TableInfo struct {
	ID         int
	Name       string
	Players    int
	MaxPlayers int
	WinAt      int
}

func (i TableInfo) String() string {
	return fmt.Sprintf("%d %q %d/%d %d", i.ID, i.Name, i.Players, i.MaxPlayers, i.WinAt)
}

// PlayerStatus is one seat's view inside a game snapshot. Hand is present
// only for the viewer's own seat or for hands revealed by a knock;
// everyone else is reduced to a hand size.
type PlayerStatus struct {
	Name     string      `json:"name"`
	Points   int         `json:"points"`
	Brooms   int         `json:"brooms"`
	You      bool        `json:"you,omitempty"`
	Current  bool        `json:"current,omitempty"`
	Visible  bool        `json:"visible,omitempty"`
	Hand     []game.Card `json:"hand,omitempty"`
	HandSize int         `json:"hand_size"`
	Captured int         `json:"captured"`
}

// GameStatus is the per-viewer snapshot pushed after every state change.
type GameStatus struct {
	TableID int            `json:"table_id"`
	Table   []game.Card    `json:"table"`
	Deck    int            `json:"deck"`
	WinAt   int            `json:"win_at"`
	Players []PlayerStatus `json:"players"`
}

// SessionStatus answers a STATUS command.
type SessionStatus struct {
	Name      string `json:"name,omitempty"`
	TableID   int    `json:"table_id,omitempty"`
	TableName string `json:"table_name,omitempty"`
}

// Response is a server-to-client message. Encode returns the full wire
// form: one line for simple responses, sentinel-delimited blocks for
// structured payloads.
type Response interface {
	isResponse()
	Encode() []string
}

// Hi acknowledges a HELLO.
type Hi struct {
	Name string
}

// ScreamFrom relays a chat line.
type ScreamFrom struct {
	Name string
	Text string
}

// ErrorResponse reports a recoverable error to the offending session only.
type ErrorResponse struct {
	Message string
}

// TableCreated announces a new room to every session.
type TableCreated struct {
	Info TableInfo
}

// TableJoined confirms a seat.
type TableJoined struct {
	ID int
}

// TableLeft confirms a vacated seat.
type TableLeft struct {
	ID int
}

// TableRemoved announces a dissolved room to every session.
type TableRemoved struct {
	ID int
}

// TableListResponse lists every open room.
type TableListResponse struct {
	Tables []TableInfo
}

// Wait tells a seated player it is someone else's turn.
type Wait struct{}

// PlayPrompt tells the seated player it is their turn.
type PlayPrompt struct{}

// GameStart announces the game beginning at a table.
type GameStart struct {
	TableID int
}

// GameEnd announces that a player reached the win threshold.
type GameEnd struct{}

// GameStatusResponse carries a per-viewer snapshot.
type GameStatusResponse struct {
	Status GameStatus
}

// HandResultResponse carries the end-of-hand scoring breakdown.
type HandResultResponse struct {
	Result game.HandResult
}

// StatusResponse answers STATUS.
type StatusResponse struct {
	Status SessionStatus
}

func (Hi) isResponse()                 {}
func (ScreamFrom) isResponse()         {}
func (ErrorResponse) isResponse()      {}
func (TableCreated) isResponse()       {}
func (TableJoined) isResponse()        {}
func (TableLeft) isResponse()          {}
func (TableRemoved) isResponse()       {}
func (TableListResponse) isResponse()  {}
func (Wait) isResponse()               {}
func (PlayPrompt) isResponse()         {}
func (GameStart) isResponse()          {}
func (GameEnd) isResponse()            {}
func (GameStatusResponse) isResponse() {}
func (HandResultResponse) isResponse() {}
func (StatusResponse) isResponse()     {}

func (r Hi) Encode() []string         { return []string{"HI " + r.Name} }
func (r ScreamFrom) Encode() []string { return []string{"SCREAM FROM " + r.Name + ": " + r.Text} }
func (r ErrorResponse) Encode() []string {
	return []string{"ERROR: " + r.Message}
}
func (r TableCreated) Encode() []string {
	return []string{"TABLE CREATED " + r.Info.String()}
}
func (r TableJoined) Encode() []string  { return []string{fmt.Sprintf("TABLE JOINED %d", r.ID)} }
func (r TableLeft) Encode() []string    { return []string{fmt.Sprintf("TABLE LEAVED %d", r.ID)} }
func (r TableRemoved) Encode() []string { return []string{fmt.Sprintf("TABLE REMOVED %d", r.ID)} }
func (r TableListResponse) Encode() []string {
	lines := make([]string, 0, len(r.Tables)+2)
	lines = append(lines, "TABLE LIST START")
	for _, info := range r.Tables {
		lines = append(lines, info.String())
	}
	return append(lines, "TABLE LIST END")
}
func (Wait) Encode() []string        { return []string{"WAIT"} }
func (PlayPrompt) Encode() []string  { return []string{"PLAY"} }
func (r GameStart) Encode() []string { return []string{fmt.Sprintf("GAME START %d", r.TableID)} }
func (GameEnd) Encode() []string     { return []string{"GAME END"} }
func (r GameStatusResponse) Encode() []string {
	return jsonBlock("GAME STATUS", r.Status)
}
func (r HandResultResponse) Encode() []string {
	return jsonBlock("HAND RESULT", r.Result)
}
func (r StatusResponse) Encode() []string {
	return jsonBlock("STATUS", r.Status)
}

// jsonBlock wraps a JSON payload in sentinel lines so receivers can frame
// it without understanding the content.
func jsonBlock(tag string, payload any) []string {
	data, err := json.Marshal(payload)
	if err != nil {
		// all payload types are plain structs; this cannot fail at runtime
		return []string{tag + " START", "{}", tag + " END"}
	}
	return []string{tag + " START", string(data), tag + " END"}
}

// WriteResponse encodes a response onto the wire, one line at a time.
func WriteResponse(w io.Writer, r Response) error {
	for _, line := range r.Encode() {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ReadResponse reads and decodes the next response, consuming the extra
// lines of sentinel-delimited payloads. The inverse of WriteResponse.
func ReadResponse(br *bufio.Reader) (Response, error) {
	line, err := readLine(br)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(line, "HI "):
		return Hi{Name: line[len("HI "):]}, nil
	case strings.HasPrefix(line, "SCREAM FROM "):
		rest := line[len("SCREAM FROM "):]
		name, text, ok := strings.Cut(rest, ": ")
		if !ok {
			return nil, ErrInvalidResponse
		}
		return ScreamFrom{Name: name, Text: text}, nil
	case strings.HasPrefix(line, "ERROR: "):
		return ErrorResponse{Message: line[len("ERROR: "):]}, nil
	case strings.HasPrefix(line, "TABLE CREATED "):
		info, err := parseTableInfo(line[len("TABLE CREATED "):])
		if err != nil {
			return nil, err
		}
		return TableCreated{Info: info}, nil
	case strings.HasPrefix(line, "TABLE JOINED "):
		id, err := strconv.Atoi(line[len("TABLE JOINED "):])
		if err != nil {
			return nil, ErrInvalidResponse
		}
		return TableJoined{ID: id}, nil
	case strings.HasPrefix(line, "TABLE LEAVED "):
		id, err := strconv.Atoi(line[len("TABLE LEAVED "):])
		if err != nil {
			return nil, ErrInvalidResponse
		}
		return TableLeft{ID: id}, nil
	case strings.HasPrefix(line, "TABLE REMOVED "):
		id, err := strconv.Atoi(line[len("TABLE REMOVED "):])
		if err != nil {
			return nil, ErrInvalidResponse
		}
		return TableRemoved{ID: id}, nil
	case line == "TABLE LIST START":
		return readTableList(br)
	case line == "WAIT":
		return Wait{}, nil
	case line == "PLAY":
		return PlayPrompt{}, nil
	case strings.HasPrefix(line, "GAME START "):
		id, err := strconv.Atoi(line[len("GAME START "):])
		if err != nil {
			return nil, ErrInvalidResponse
		}
		return GameStart{TableID: id}, nil
	case line == "GAME END":
		return GameEnd{}, nil
	case line == "GAME STATUS START":
		var r GameStatusResponse
		if err := readJSONBlock(br, "GAME STATUS END", &r.Status); err != nil {
			return nil, err
		}
		return r, nil
	case line == "HAND RESULT START":
		var r HandResultResponse
		if err := readJSONBlock(br, "HAND RESULT END", &r.Result); err != nil {
			return nil, err
		}
		return r, nil
	case line == "STATUS START":
		var r StatusResponse
		if err := readJSONBlock(br, "STATUS END", &r.Status); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, ErrInvalidResponse
	}
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readTableList(br *bufio.Reader) (Response, error) {
	var list TableListResponse
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if line == "TABLE LIST END" {
			return list, nil
		}
		info, err := parseTableInfo(line)
		if err != nil {
			return nil, err
		}
		list.Tables = append(list.Tables, info)
	}
}

func readJSONBlock(br *bufio.Reader, sentinel string, payload any) error {
	var body strings.Builder
	for {
		line, err := readLine(br)
		if err != nil {
			return err
		}
		if line == sentinel {
			break
		}
		body.WriteString(line)
	}
	if err := json.Unmarshal([]byte(body.String()), payload); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}
	return nil
}

// parseTableInfo parses `<id> "<name>" <count>/<max> <win_at>`.
func parseTableInfo(s string) (TableInfo, error) {
	open := strings.Index(s, `"`)
	end := strings.LastIndex(s, `"`)
	if open < 0 || end <= open {
		return TableInfo{}, ErrInvalidResponse
	}

	var info TableInfo
	name, err := strconv.Unquote(s[open : end+1])
	if err != nil {
		return TableInfo{}, ErrInvalidResponse
	}
	info.Name = name

	info.ID, err = strconv.Atoi(strings.TrimSpace(s[:open]))
	if err != nil {
		return TableInfo{}, ErrInvalidResponse
	}

	rest := strings.Fields(s[end+1:])
	if len(rest) != 2 {
		return TableInfo{}, ErrInvalidResponse
	}
	count, max, ok := strings.Cut(rest[0], "/")
	if !ok {
		return TableInfo{}, ErrInvalidResponse
	}
	if info.Players, err = strconv.Atoi(count); err != nil {
		return TableInfo{}, ErrInvalidResponse
	}
	if info.MaxPlayers, err = strconv.Atoi(max); err != nil {
		return TableInfo{}, ErrInvalidResponse
	}
	if info.WinAt, err = strconv.Atoi(rest[1]); err != nil {
		return TableInfo{}, ErrInvalidResponse
	}
	return info, nil
}
