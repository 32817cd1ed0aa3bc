package model

import "strconv"

// Session is one instance of the recurring game, keyed by calendar date in
// YYYY-MM-DD form. Capacity and Price are fixed once the row is created; only
// Settled flips, when the session's seats have been charged.
type Session struct {
	SessionDate string // column 0: session_date (key)
	Capacity    int    // column 1: capacity
	Price       int    // column 2: price
	Settled     bool   // column 3: is_settled
}

// Table returns the backing table name.
func (s Session) Table() string { return "sessions" }

// Key identifies the session row by date.
func (s Session) Key() []KeyCell { return []KeyCell{{Col: 0, Value: s.SessionDate}} }

// Row encodes the session in the canonical column order.
func (s Session) Row() []string {
	return []string{
		s.SessionDate,
		strconv.Itoa(s.Capacity),
		strconv.Itoa(s.Price),
		strconv.FormatBool(s.Settled),
	}
}

// ScanRow decodes a raw sessions row.
func (s *Session) ScanRow(row []string) error {
	if len(row) != 4 {
		return rowLengthError(s.Table(), 4, len(row))
	}
	capacity, err := strconv.Atoi(row[1])
	if err != nil {
		return err
	}
	price, err := strconv.Atoi(row[2])
	if err != nil {
		return err
	}
	settled, err := strconv.ParseBool(row[3])
	if err != nil {
		return err
	}
	s.SessionDate = row[0]
	s.Capacity = capacity
	s.Price = price
	s.Settled = settled
	return nil
}
