// Package queue defines message payloads exchanged over the message broker,
// the publisher that emits them, and the background consumer that writes the
// settlement audit log.
package queue

// SeatSettledEvent is published once per settled seat when a session is
// closed. It carries enough for downstream consumers to audit who owes whom
// without querying the row store: the branch that produced the instruction
// ("prepaid", "resale" or "admin"), both parties, and the payment link the
// buyer received.
type SeatSettledEvent struct {
	SessionDate string `json:"session_date"`
	Kind        string `json:"kind"`
	Seller      string `json:"seller"`
	Buyer       string `json:"buyer"`
	PaymentLink string `json:"payment_link"`
	SettledAt   string `json:"settled_at"`
}
