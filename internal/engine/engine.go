// Package engine implements the registration, waitlist and slot-resale
// settlement rules for the weekly game. The engine keeps no state between
// calls: every operation re-reads the rows it needs from the tabular store
// and works on request-scoped copies. Mutating operations for a session are
// serialized behind a per-session mutex because the store itself has no
// transactions.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kchestnov/plutarch/internal/model"
	"github.com/kchestnov/plutarch/internal/store"
)

// Engine is the business-rule layer between the front end and the tabular
// store. adminPaymentLink is handed to participants when resale supply is
// exhausted; now is injectable for tests.
type Engine struct {
	store            *store.Store
	locks            *sessionLocks
	now              func() time.Time
	adminPaymentLink string
}

// New wires an engine to its store. A nil now defaults to time.Now.
func New(st *store.Store, adminPaymentLink string, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:            st,
		locks:            newSessionLocks(),
		now:              now,
		adminPaymentLink: adminPaymentLink,
	}
}

// Member loads a member by user name; ErrUnknownMember when absent.
func (e *Engine) Member(ctx context.Context, userName string) (model.Member, error) {
	m := model.Member{UserName: userName}
	found, err := e.store.Read(ctx, &m)
	if err != nil {
		return model.Member{}, err
	}
	if !found {
		return model.Member{}, fmt.Errorf("%w: %s", ErrUnknownMember, userName)
	}
	return m, nil
}

// Session loads a session by date; ErrUnknownSession when absent.
func (e *Engine) Session(ctx context.Context, sessionDate string) (model.Session, error) {
	s := model.Session{SessionDate: sessionDate}
	found, err := e.store.Read(ctx, &s)
	if err != nil {
		return model.Session{}, err
	}
	if !found {
		return model.Session{}, fmt.Errorf("%w: %s", ErrUnknownSession, sessionDate)
	}
	return s, nil
}

// Register claims a seat for the member on the given session. A member who
// previously listed their seat for resale and rejoins retracts that listing
// first; a failure there aborts the whole call so the listing never survives
// its seller's return. Registration itself is idempotent: a second call for
// the same member and session succeeds without writing and keeps the first
// call's requested_at. Capacity is deliberately not checked here; the roster
// split is a view-time concern.
func (e *Engine) Register(ctx context.Context, userName, sessionDate string) error {
	member, err := e.Member(ctx, userName)
	if err != nil {
		return err
	}
	session, err := e.Session(ctx, sessionDate)
	if err != nil {
		return err
	}

	lock := e.locks.forSession(session.SessionDate)
	lock.Lock()
	defer lock.Unlock()

	slot := model.ResaleSlot{SessionDate: session.SessionDate, Seller: member.UserName}
	found, err := e.store.Read(ctx, &slot)
	if err != nil {
		return fmt.Errorf("retract resale listing: %w", err)
	}
	if found && !slot.Settled {
		if err := e.store.Delete(ctx, slot); err != nil {
			return fmt.Errorf("retract resale listing: %w", err)
		}
	}

	reg := model.Registration{
		SessionDate: session.SessionDate,
		RequestedAt: e.now().Unix(),
		UserName:    member.UserName,
		Priority:    member.Priority,
	}
	if _, err := e.store.Create(ctx, reg); err != nil {
		return fmt.Errorf("register %s on %s: %w", userName, sessionDate, err)
	}
	return nil
}

// LeaveResult reports the two-step outcome of LeaveGame. Unregistered and
// Listed are independent: the withdrawal can succeed while the resale
// listing fails, and callers must present that as a partial success because
// the seat withdrawal is final. Reason is set only on a partial outcome.
type LeaveResult struct {
	Unregistered bool
	Listed       bool
	Reason       string
}

// LeaveGame withdraws the member's registration and, for FULL-tier members,
// lists the vacated seat for resale under the supplied payment link. The
// registration is deleted first and unconditionally so a listing failure
// never leaves the member stuck registered.
func (e *Engine) LeaveGame(ctx context.Context, userName, sessionDate, paymentLink string) (LeaveResult, error) {
	member, err := e.Member(ctx, userName)
	if err != nil {
		return LeaveResult{}, err
	}
	session, err := e.Session(ctx, sessionDate)
	if err != nil {
		return LeaveResult{}, err
	}

	lock := e.locks.forSession(session.SessionDate)
	lock.Lock()
	defer lock.Unlock()

	reg := model.Registration{SessionDate: session.SessionDate, UserName: member.UserName}
	if err := e.store.Delete(ctx, reg); err != nil {
		return LeaveResult{}, fmt.Errorf("withdraw %s from %s: %w", userName, sessionDate, err)
	}

	if member.Priority != model.PriorityFull {
		// Nothing worth reselling without a standing claim.
		return LeaveResult{Unregistered: true}, nil
	}

	slot := model.ResaleSlot{
		SessionDate: session.SessionDate,
		Seller:      member.UserName,
		RequestedAt: e.now().Unix(),
		PaymentLink: paymentLink,
	}
	created, err := e.store.Create(ctx, slot)
	if err != nil {
		// The withdrawal already happened; report the listing failure
		// as a partial success, not a total failure.
		return LeaveResult{Unregistered: true, Reason: err.Error()}, nil
	}
	if !created {
		// The seller's slot for this session already settled; a settled
		// slot is terminal, so no new listing was written.
		return LeaveResult{Unregistered: true, Reason: "seat for this session is already settled"}, nil
	}
	return LeaveResult{Unregistered: true, Listed: true}, nil
}

// ListParticipants returns the session's registrations sorted ascending by
// (priority tier, requested_at): FULL outranks HALF outranks ONE_TIME, and
// within a tier the earliest request wins. Equal timestamps fall back to
// user name so the order stays deterministic. The first capacity entries of
// this order form the confirmed roster; the engine never persists that
// split.
func (e *Engine) ListParticipants(ctx context.Context, sessionDate string) ([]model.Registration, error) {
	session, err := e.Session(ctx, sessionDate)
	if err != nil {
		return nil, err
	}
	return e.participants(ctx, session.SessionDate)
}

func (e *Engine) participants(ctx context.Context, sessionDate string) ([]model.Registration, error) {
	rows, err := store.ReadTable[model.Registration](ctx, e.store, sessionDate)
	if err != nil {
		return nil, err
	}
	// The substring filter can match the date in unrelated columns, so
	// keep only true key matches before ordering.
	regs := rows[:0]
	for _, r := range rows {
		if r.SessionDate == sessionDate {
			regs = append(regs, r)
		}
	}
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].Priority != regs[j].Priority {
			return regs[i].Priority < regs[j].Priority
		}
		if regs[i].RequestedAt != regs[j].RequestedAt {
			return regs[i].RequestedAt < regs[j].RequestedAt
		}
		return regs[i].UserName < regs[j].UserName
	})
	return regs, nil
}

// Roster is the view-time split of a session's ordered registrations into
// the confirmed seats and the waiting list.
type Roster struct {
	SessionDate string
	Capacity    int
	Confirmed   []model.Registration
	Waiting     []model.Registration
}

// Roster computes the confirmed/waiting split for the session. The split is
// recomputed on every read from the current rows; nothing is persisted.
func (e *Engine) Roster(ctx context.Context, sessionDate string) (Roster, error) {
	session, err := e.Session(ctx, sessionDate)
	if err != nil {
		return Roster{}, err
	}
	regs, err := e.participants(ctx, session.SessionDate)
	if err != nil {
		return Roster{}, err
	}
	cut := session.Capacity
	if cut > len(regs) {
		cut = len(regs)
	}
	if cut < 0 {
		cut = 0
	}
	return Roster{
		SessionDate: session.SessionDate,
		Capacity:    session.Capacity,
		Confirmed:   regs[:cut],
		Waiting:     regs[cut:],
	}, nil
}
