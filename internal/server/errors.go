package server

import "errors"

// Service errors are reported only to the originating session; they never
// abort the server or leak to other tables.
var (
	ErrNameInUse          = errors.New("name already in use")
	ErrNameInvalid        = errors.New("name contains reserved characters")
	ErrNotHello           = errors.New("you need to say hello first")
	ErrTableNotFound      = errors.New("table not found")
	ErrTableAlreadyJoined = errors.New("table already joined")
	ErrNotYourTurn        = errors.New("not your turn")
)
