package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kchestnov/plutarch/internal/engine"
	"github.com/kchestnov/plutarch/internal/model"
	"github.com/kchestnov/plutarch/internal/queue"
)

// GameHandler exposes the engine's four operations over HTTP. Each route
// maps 1:1 to an engine call and acts for the authenticated member taken
// from the JWT; the session date comes from the path.
type GameHandler struct {
	Engine       *engine.Engine
	QueueEnabled bool
}

func NewGameHandler(e *engine.Engine, queueEnabled bool) *GameHandler {
	return &GameHandler{Engine: e, QueueEnabled: queueEnabled}
}

type leaveReq struct {
	PaymentLink string `json:"payment_link"`
}

type leaveResp struct {
	Unregistered bool   `json:"unregistered"`
	Listed       bool   `json:"listed_for_resale"`
	Reason       string `json:"reason,omitempty"`
}

type rosterEntry struct {
	UserName    string `json:"user_name"`
	Priority    string `json:"priority"`
	RequestedAt int64  `json:"requested_at"`
}

type rosterResp struct {
	SessionDate string        `json:"session_date"`
	Capacity    int           `json:"capacity"`
	Confirmed   []rosterEntry `json:"confirmed"`
	Waiting     []rosterEntry `json:"waiting"`
}

type settlementEntry struct {
	Kind        string `json:"kind"`
	Seller      string `json:"seller"`
	Buyer       string `json:"buyer"`
	PaymentLink string `json:"payment_link"`
}

// Register claims a seat on the session for the authenticated member.
// Registering twice is success, not an error; the first request time wins.
func (h *GameHandler) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	if err := h.Engine.Register(ctx, callerName(c), c.Param("date")); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"registered": true})
}

// Leave withdraws the member's registration and, for FULL-tier members,
// lists the seat for resale under the supplied payment link. A failed
// listing after a successful withdrawal is a partial success: the response
// still reports unregistered=true with the reason the listing failed, and
// the status stays 200 because the seat withdrawal is final.
func (h *GameHandler) Leave(c echo.Context) error {
	var req leaveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	result, err := h.Engine.LeaveGame(ctx, callerName(c), c.Param("date"), req.PaymentLink)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, leaveResp{
		Unregistered: result.Unregistered,
		Listed:       result.Listed,
		Reason:       result.Reason,
	})
}

// Roster returns the session's registrations in priority order, split at
// view time into confirmed seats and the waiting list. Nothing about the
// split is persisted; it is recomputed from the current rows on every read.
func (h *GameHandler) Roster(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	roster, err := h.Engine.Roster(ctx, c.Param("date"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, rosterResp{
		SessionDate: roster.SessionDate,
		Capacity:    roster.Capacity,
		Confirmed:   toEntries(roster.Confirmed),
		Waiting:     toEntries(roster.Waiting),
	})
}

// Settle closes the session: every confirmed participant is charged via the
// engine's three-branch settlement, the session is marked settled, and one
// seat.settled event per settlement goes to the broker for the audit log.
func (h *GameHandler) Settle(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	date := c.Param("date")
	settlements, err := h.Engine.SettleSession(ctx, date)
	if err != nil {
		return engineError(c, err)
	}

	if h.QueueEnabled {
		for _, s := range settlements {
			// Best effort: a broker outage must not fail the close.
			_ = queue.PublishSeatSettled(ctx, queue.SeatSettledEvent{
				SessionDate: s.Slot.SessionDate,
				Kind:        string(s.Kind),
				Seller:      s.Slot.Seller,
				Buyer:       s.Slot.Buyer,
				PaymentLink: s.Slot.PaymentLink,
				SettledAt:   time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	entries := make([]settlementEntry, 0, len(settlements))
	for _, s := range settlements {
		entries = append(entries, settlementEntry{
			Kind:        string(s.Kind),
			Seller:      s.Slot.Seller,
			Buyer:       s.Slot.Buyer,
			PaymentLink: s.Slot.PaymentLink,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_date": date,
		"settlements":  entries,
	})
}

func toEntries(regs []model.Registration) []rosterEntry {
	entries := make([]rosterEntry, 0, len(regs))
	for _, r := range regs {
		entries = append(entries, rosterEntry{
			UserName:    r.UserName,
			Priority:    r.Priority.String(),
			RequestedAt: r.RequestedAt,
		})
	}
	return entries
}
