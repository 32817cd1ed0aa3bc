package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/kchestnov/plutarch/internal/model"
)

// ValidationError reports caller-supplied reference data the engine refuses
// to store.
type ValidationError struct {
	Field  string
	Reason string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", v.Field, v.Reason)
}

// CreateMember stores a new member row. Reserved seller names are rejected
// so fabricated settlement records can never be confused with a real
// member's listing.
func (e *Engine) CreateMember(ctx context.Context, m model.Member) error {
	if m.UserName == "" {
		return &ValidationError{Field: "user_name", Reason: "required"}
	}
	if m.UserName == BankSeller || m.UserName == AdminSeller {
		return &ValidationError{Field: "user_name", Reason: "reserved name"}
	}
	if m.Balance < 0 {
		return &ValidationError{Field: "balance", Reason: "must not be negative"}
	}
	if !m.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: "unknown tier"}
	}
	created, err := e.store.Create(ctx, m)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%w: member %s", ErrAlreadyExists, m.UserName)
	}
	return nil
}

// CreateSession stores a new session row. Sessions are immutable after
// creation except for the settled flag, so the inputs are checked here once.
func (e *Engine) CreateSession(ctx context.Context, s model.Session) error {
	if _, err := time.Parse("2006-01-02", s.SessionDate); err != nil {
		return &ValidationError{Field: "session_date", Reason: "must be YYYY-MM-DD"}
	}
	if s.Capacity <= 0 {
		return &ValidationError{Field: "capacity", Reason: "must be positive"}
	}
	if s.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if s.Settled {
		return &ValidationError{Field: "is_settled", Reason: "new sessions start unsettled"}
	}
	created, err := e.store.Create(ctx, s)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%w: session %s", ErrAlreadyExists, s.SessionDate)
	}
	return nil
}
