// Package store provides typed CRUD over the named tables of a row-store
// backend. It hides row finding and row-index mechanics from the business
// layer and turns backend faults into typed errors. Absence is reported as a
// boolean, never as an error; malformed rows abort only their own decode,
// never the surrounding table read.
package store

import "errors"

// ErrUnavailable wraps every transport or backend fault. It is always
// retryable; callers surface it to users as "try again later".
var ErrUnavailable = errors.New("store: backend unavailable")
