package game

import "errors"

// Game errors are plain values reported to the caller; none of them is
// fatal to the game instance.
var (
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrTooManyPlayers     = errors.New("too many players")
	ErrNameTooShort       = errors.New("name too short")
	ErrNameAlreadyTaken   = errors.New("name already taken")
	ErrNotEnoughPlayers   = errors.New("not enough players")
	ErrGameNotStarted     = errors.New("game not started")
	ErrDeckNotReady       = errors.New("deck not ready")
	ErrHandNotStarted     = errors.New("hand not started")
	ErrCardNotFound       = errors.New("card not found")
)
