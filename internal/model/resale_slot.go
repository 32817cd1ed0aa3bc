package model

import "strconv"

// ResaleSlot is a seat listed for resale, keyed by (session_date,
// seller_user_name). A slot starts unsettled with no buyer; settlement
// assigns the buyer and flips Settled, which is terminal. The key admits at
// most one active listing per seller per session. Buyer stays empty until
// the slot is matched.
type ResaleSlot struct {
	SessionDate string // column 0: session_date (key)
	Seller      string // column 1: seller_user_name (key)
	RequestedAt int64  // column 2: requested_at
	PaymentLink string // column 3: payment_link
	Settled     bool   // column 4: is_settled
	Buyer       string // column 5: buyer_user_name (empty when unmatched)
}

// Table returns the backing table name.
func (s ResaleSlot) Table() string { return "resale_slots" }

// Key identifies the slot by session date and seller. The buyer column is
// deliberately not part of the key; a member appearing there must not shadow
// their own seller key.
func (s ResaleSlot) Key() []KeyCell {
	return []KeyCell{{Col: 0, Value: s.SessionDate}, {Col: 1, Value: s.Seller}}
}

// Row encodes the slot in the canonical column order.
func (s ResaleSlot) Row() []string {
	return []string{
		s.SessionDate,
		s.Seller,
		strconv.FormatInt(s.RequestedAt, 10),
		s.PaymentLink,
		strconv.FormatBool(s.Settled),
		s.Buyer,
	}
}

// ScanRow decodes a raw resale_slots row. Backends that drop trailing empty
// cells may deliver five columns for an unmatched slot; the buyer column is
// then treated as empty.
func (s *ResaleSlot) ScanRow(row []string) error {
	if len(row) != 5 && len(row) != 6 {
		return rowLengthError(s.Table(), 6, len(row))
	}
	requestedAt, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return err
	}
	settled, err := strconv.ParseBool(row[4])
	if err != nil {
		return err
	}
	s.SessionDate = row[0]
	s.Seller = row[1]
	s.RequestedAt = requestedAt
	s.PaymentLink = row[3]
	s.Settled = settled
	if len(row) == 6 {
		s.Buyer = row[5]
	} else {
		s.Buyer = ""
	}
	return nil
}
