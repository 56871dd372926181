package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"HELLO Alice", Hello{Name: "Alice"}},
		{"hello Alice", Hello{Name: "Alice"}},
		{"SCREAM hi there everyone", Scream{Text: "hi there everyone"}},
		{"STATUS", Status{}},
		{"status", Status{}},
		{"QUIT", Quit{}},
		{"PLAY 7d", Play{Card: "7d"}},
		{"play Ah", Play{Card: "Ah"}},
		{`TABLE NEW "my table" 4 51`, TableNew{Name: "my table", MaxPlayers: 4, WinAt: 51}},
		{`table new "x" 2 31`, TableNew{Name: "x", MaxPlayers: 2, WinAt: 31}},
		{"TABLE LIST", TableList{}},
		{"TABLE JOIN 3", TableJoin{ID: 3}},
		{"TABLE LEAVE", TableLeave{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	invalid := []string{
		"", "   ", "FROB", "HELLO", "PLAY", "PLAY 7d extra",
		"TABLE", "TABLE JOIN", "TABLE JOIN x", "TABLE FROB",
		`TABLE NEW "name" 4`, `TABLE NEW "name" x y`,
	}
	for _, line := range invalid {
		_, err := ParseCommand(line)
		assert.ErrorIs(t, err, ErrInvalidCommand, "%q", line)
	}
}

func TestParseTableNewRequiresQuotes(t *testing.T) {
	_, err := ParseCommand("TABLE NEW unquoted 4 51")
	assert.ErrorIs(t, err, ErrTableNameNotQuoted)

	_, err = ParseCommand(`TABLE NEW "unterminated 4 51`)
	assert.ErrorIs(t, err, ErrTableNameNotQuoted)
}

func TestCommandRoundTrip(t *testing.T) {
	commands := []Command{
		Hello{Name: "Alice"},
		Scream{Text: "hello world"},
		Status{},
		Quit{},
		Play{Card: "7d"},
		TableNew{Name: "my table", MaxPlayers: 4, WinAt: 51},
		TableList{},
		TableJoin{ID: 12},
		TableLeave{},
	}
	for _, cmd := range commands {
		got, err := ParseCommand(cmd.Encode())
		require.NoError(t, err, cmd.Encode())
		assert.Equal(t, cmd, got)
	}
}
