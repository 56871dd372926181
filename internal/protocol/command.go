// Package protocol defines the line-oriented text protocol spoken between
// client and server: one command or response per newline-terminated UTF-8
// line, with multi-line payloads delimited by sentinel lines. Encoding and
// decoding are kept symmetric so every constructible message round-trips.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Decode errors. Malformed input is reported to the sender, never fatal.
var (
	ErrInvalidCommand     = errors.New("invalid command")
	ErrTableNameNotQuoted = errors.New("table name must be quoted")
)

// Command is a client-to-server message. The set is closed: the executor
// switches exhaustively over these types.
type Command interface {
	isCommand()
	// Encode returns the single wire line for the command, without the
	// trailing newline.
	Encode() string
}

// Hello introduces a session and claims a display name.
type Hello struct {
	Name string
}

// Scream broadcasts a chat line to every connected session.
type Scream struct {
	Text string
}

// Status asks for the session's own status snapshot.
type Status struct{}

// Quit terminates the session. Readers synthesize it on disconnect so
// teardown always runs on the executor.
type Quit struct{}

// Play plays the named card from the player's hand.
type Play struct {
	Card string
}

// TableNew creates a room.
type TableNew struct {
	Name       string
	MaxPlayers int
	WinAt      int
}

// TableList asks for the room list.
type TableList struct{}

// TableJoin seats the session at a room.
type TableJoin struct {
	ID int
}

// TableLeave vacates the session's seat.
type TableLeave struct{}

func (Hello) isCommand()      {}
func (Scream) isCommand()     {}
func (Status) isCommand()     {}
func (Quit) isCommand()       {}
func (Play) isCommand()       {}
func (TableNew) isCommand()   {}
func (TableList) isCommand()  {}
func (TableJoin) isCommand()  {}
func (TableLeave) isCommand() {}

func (c Hello) Encode() string  { return "HELLO " + c.Name }
func (c Scream) Encode() string { return "SCREAM " + c.Text }
func (Status) Encode() string   { return "STATUS" }
func (Quit) Encode() string     { return "QUIT" }
func (c Play) Encode() string   { return "PLAY " + c.Card }
func (c TableNew) Encode() string {
	return fmt.Sprintf("TABLE NEW %q %d %d", c.Name, c.MaxPlayers, c.WinAt)
}
func (TableList) Encode() string   { return "TABLE LIST" }
func (c TableJoin) Encode() string { return fmt.Sprintf("TABLE JOIN %d", c.ID) }
func (TableLeave) Encode() string  { return "TABLE LEAVE" }

// ParseCommand decodes one wire line into a Command. Verbs are
// case-insensitive; arguments keep their case.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrInvalidCommand
	}

	switch strings.ToUpper(fields[0]) {
	case "HELLO":
		if len(fields) < 2 {
			return nil, ErrInvalidCommand
		}
		return Hello{Name: strings.Join(fields[1:], " ")}, nil
	case "SCREAM":
		rest := strings.TrimSpace(line[len(fields[0]):])
		if rest == "" {
			return nil, ErrInvalidCommand
		}
		return Scream{Text: rest}, nil
	case "STATUS":
		return Status{}, nil
	case "QUIT":
		return Quit{}, nil
	case "PLAY":
		if len(fields) != 2 {
			return nil, ErrInvalidCommand
		}
		return Play{Card: fields[1]}, nil
	case "TABLE":
		return parseTableCommand(line, fields)
	default:
		return nil, ErrInvalidCommand
	}
}

func parseTableCommand(line string, fields []string) (Command, error) {
	if len(fields) < 2 {
		return nil, ErrInvalidCommand
	}
	switch strings.ToUpper(fields[1]) {
	case "NEW":
		return parseTableNew(line)
	case "LIST":
		return TableList{}, nil
	case "JOIN":
		if len(fields) != 3 {
			return nil, ErrInvalidCommand
		}
		id, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, ErrInvalidCommand
		}
		return TableJoin{ID: id}, nil
	case "LEAVE":
		return TableLeave{}, nil
	default:
		return nil, ErrInvalidCommand
	}
}

// parseTableNew handles TABLE NEW "<name>" <max-players> <win-at>.
// The name is quoted so it may contain spaces.
func parseTableNew(line string) (Command, error) {
	open := strings.Index(line, `"`)
	if open < 0 {
		return nil, ErrTableNameNotQuoted
	}
	end := strings.Index(line[open+1:], `"`)
	if end < 0 {
		return nil, ErrTableNameNotQuoted
	}
	name := line[open+1 : open+1+end]

	rest := strings.Fields(line[open+end+2:])
	if len(rest) != 2 {
		return nil, ErrInvalidCommand
	}
	maxPlayers, err := strconv.Atoi(rest[0])
	if err != nil {
		return nil, ErrInvalidCommand
	}
	winAt, err := strconv.Atoi(rest[1])
	if err != nil {
		return nil, ErrInvalidCommand
	}
	return TableNew{Name: name, MaxPlayers: maxPlayers, WinAt: winAt}, nil
}
