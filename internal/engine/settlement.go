package engine

import (
	"context"
	"fmt"

	"github.com/kchestnov/plutarch/internal/model"
	"github.com/kchestnov/plutarch/internal/store"
)

// Seller names reserved for settlement records the engine fabricates itself.
// "bank" marks a seat paid from the member's prepaid balance; "admin" marks
// the fallback instruction issued when resale supply is exhausted. Neither
// may collide with a real member because real sellers always come from the
// members table.
const (
	BankSeller  = "bank"
	AdminSeller = "admin"
)

// PrepaidPaymentLink is the instruction attached to balance-paid seats. A
// settlement never carries an empty payment link, even when no money moves.
const PrepaidPaymentLink = "no charge: prepaid balance"

// SettlementKind says which of the three settlement branches produced a
// record.
type SettlementKind string

const (
	SettlementPrepaid SettlementKind = "prepaid"
	SettlementResale  SettlementKind = "resale"
	SettlementAdmin   SettlementKind = "admin"
)

// Settlement is the payment instruction produced for one confirmed seat. The
// embedded slot carries the seller, buyer and payment link; for prepaid and
// admin settlements the slot is fabricated by the engine rather than listed
// by a member.
type Settlement struct {
	Kind SettlementKind
	Slot model.ResaleSlot
}

// CollectMoney settles one confirmed seat for the member. Branches, in
// order: a positive prepaid balance pays for the seat; otherwise the
// earliest unsettled resale listing of the session is matched to the member;
// otherwise an administrator fallback instruction is issued. Every branch
// returns a record with a non-empty payment link. Each call is one
// seat-period charge, deliberately not idempotent: calling twice charges
// twice.
func (e *Engine) CollectMoney(ctx context.Context, userName, sessionDate string) (Settlement, error) {
	// Member and session are read under the lock: the balance read decides
	// the settlement branch and must not be stale against a concurrent
	// charge.
	lock := e.locks.forSession(sessionDate)
	lock.Lock()
	defer lock.Unlock()

	member, err := e.Member(ctx, userName)
	if err != nil {
		return Settlement{}, err
	}
	session, err := e.Session(ctx, sessionDate)
	if err != nil {
		return Settlement{}, err
	}
	return e.collect(ctx, member, session)
}

// collect runs the three settlement branches. The caller must hold the
// session lock.
func (e *Engine) collect(ctx context.Context, member model.Member, session model.Session) (Settlement, error) {
	if member.Balance > 0 {
		return e.collectPrepaid(ctx, member, session)
	}

	slot, found, err := e.earliestUnsettledSlot(ctx, session.SessionDate)
	if err != nil {
		return Settlement{}, err
	}
	if found {
		return e.settleSlot(ctx, slot, member.UserName)
	}

	return e.issueAdminSlot(ctx, member, session)
}

// collectPrepaid charges one credit from the member's balance. The
// settlement record is written before the balance is decremented: if the
// second write fails the member keeps their credit and the caller retries,
// instead of losing a credit with no record of why. The record is appended
// rather than created because every prepaid charge of a session shares the
// reserved bank seller and each charge needs its own row.
func (e *Engine) collectPrepaid(ctx context.Context, member model.Member, session model.Session) (Settlement, error) {
	record := model.ResaleSlot{
		SessionDate: session.SessionDate,
		Seller:      BankSeller,
		RequestedAt: e.now().Unix(),
		PaymentLink: PrepaidPaymentLink,
		Settled:     true,
		Buyer:       member.UserName,
	}
	if err := e.store.Append(ctx, record); err != nil {
		return Settlement{}, fmt.Errorf("record prepaid settlement: %w", err)
	}

	member.Balance--
	if err := e.store.Update(ctx, member); err != nil {
		return Settlement{}, fmt.Errorf("decrement balance of %s: %w", member.UserName, err)
	}
	return Settlement{Kind: SettlementPrepaid, Slot: record}, nil
}

// earliestUnsettledSlot returns the session's unsettled listing with the
// lowest requested_at. First-come-first-served: the buyer is matched to the
// longest-waiting seller regardless of who that seller is. Ties keep append
// order.
func (e *Engine) earliestUnsettledSlot(ctx context.Context, sessionDate string) (model.ResaleSlot, bool, error) {
	rows, err := store.ReadTable[model.ResaleSlot](ctx, e.store, sessionDate)
	if err != nil {
		return model.ResaleSlot{}, false, err
	}
	var best model.ResaleSlot
	found := false
	for _, slot := range rows {
		if slot.SessionDate != sessionDate || slot.Settled {
			continue
		}
		if !found || slot.RequestedAt < best.RequestedAt {
			best = slot
			found = true
		}
	}
	return best, found, nil
}

// settleSlot assigns the buyer and marks the slot settled. The store has no
// update keyed on both components that would leave the unsettled row
// unambiguous, so closing is delete-then-recreate; the session lock makes
// the pair atomic for every caller going through this engine.
func (e *Engine) settleSlot(ctx context.Context, slot model.ResaleSlot, buyer string) (Settlement, error) {
	if err := e.store.Delete(ctx, slot); err != nil {
		return Settlement{}, fmt.Errorf("settle slot of %s: %w", slot.Seller, err)
	}
	slot.Settled = true
	slot.Buyer = buyer
	created, err := e.store.Create(ctx, slot)
	if err != nil {
		return Settlement{}, fmt.Errorf("settle slot of %s: listing removed but not recreated: %w", slot.Seller, err)
	}
	if !created {
		// Another row already holds this seller's key; the settled
		// record was never written and the settlement must not report
		// success without it.
		return Settlement{}, fmt.Errorf("settle slot of %s: conflicting row, settled record not written", slot.Seller)
	}
	return Settlement{Kind: SettlementResale, Slot: slot}, nil
}

// issueAdminSlot fabricates the fallback instruction so the participant
// still receives something concrete to pay when no listing is available.
func (e *Engine) issueAdminSlot(ctx context.Context, member model.Member, session model.Session) (Settlement, error) {
	record := model.ResaleSlot{
		SessionDate: session.SessionDate,
		Seller:      AdminSeller,
		RequestedAt: e.now().Unix(),
		PaymentLink: e.adminPaymentLink,
		Settled:     true,
		Buyer:       member.UserName,
	}
	if err := e.store.Append(ctx, record); err != nil {
		return Settlement{}, fmt.Errorf("record admin settlement: %w", err)
	}
	return Settlement{Kind: SettlementAdmin, Slot: record}, nil
}

// SettleSession runs CollectMoney for every confirmed participant of the
// session in roster order, then marks the session settled. A session settles
// once; a second close is a conflict. Participants beyond capacity are the
// waiting list and are not charged.
func (e *Engine) SettleSession(ctx context.Context, sessionDate string) ([]Settlement, error) {
	// The settled check must run under the lock: two concurrent closes
	// would otherwise both read is_settled=false and both charge the
	// roster.
	lock := e.locks.forSession(sessionDate)
	lock.Lock()
	defer lock.Unlock()

	session, err := e.Session(ctx, sessionDate)
	if err != nil {
		return nil, err
	}
	if session.Settled {
		return nil, fmt.Errorf("%w: %s", ErrSessionSettled, sessionDate)
	}

	regs, err := e.participants(ctx, session.SessionDate)
	if err != nil {
		return nil, err
	}
	confirmed := regs
	if session.Capacity >= 0 && session.Capacity < len(regs) {
		confirmed = regs[:session.Capacity]
	}

	settlements := make([]Settlement, 0, len(confirmed))
	for _, reg := range confirmed {
		member, err := e.Member(ctx, reg.UserName)
		if err != nil {
			return settlements, fmt.Errorf("settle %s: %w", reg.UserName, err)
		}
		settlement, err := e.collect(ctx, member, session)
		if err != nil {
			return settlements, fmt.Errorf("settle %s: %w", reg.UserName, err)
		}
		settlements = append(settlements, settlement)
	}

	session.Settled = true
	if err := e.store.Update(ctx, session); err != nil {
		return settlements, fmt.Errorf("mark session settled: %w", err)
	}
	return settlements, nil
}
