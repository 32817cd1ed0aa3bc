package engine

import "errors"

var (
	// ErrUnknownMember is returned when the caller names a user_name with
	// no members row.
	ErrUnknownMember = errors.New("engine: unknown member")
	// ErrUnknownSession is returned when the caller names a date with no
	// sessions row.
	ErrUnknownSession = errors.New("engine: unknown session")
	// ErrSessionSettled is returned when a session close is attempted on
	// a session that was already settled.
	ErrSessionSettled = errors.New("engine: session already settled")
	// ErrAlreadyExists is returned by reference-data creation when the
	// keyed row is already present.
	ErrAlreadyExists = errors.New("engine: already exists")
)
