package model

import "strconv"

// Member is one row of the `members` table, keyed by the unique user name.
// Balance counts prepaid session credits and never goes negative. CanSell
// records whether the member opted into the resale flow. Priority is the
// member's current tier; registrations copy it at request time, so changing
// it later does not reorder existing registrations.
type Member struct {
	UserName string   // column 0: user_name (key)
	Name     string   // column 1: name
	Balance  int      // column 2: balance
	CanSell  bool     // column 3: can_sell
	Priority Priority // column 4: priority
}

// Table returns the backing table name.
func (m Member) Table() string { return "members" }

// Key identifies the member row by user name.
func (m Member) Key() []KeyCell { return []KeyCell{{Col: 0, Value: m.UserName}} }

// Row encodes the member in the canonical column order.
func (m Member) Row() []string {
	return []string{
		m.UserName,
		m.Name,
		strconv.Itoa(m.Balance),
		strconv.FormatBool(m.CanSell),
		strconv.Itoa(int(m.Priority)),
	}
}

// ScanRow decodes a raw members row.
func (m *Member) ScanRow(row []string) error {
	if len(row) != 5 {
		return rowLengthError(m.Table(), 5, len(row))
	}
	balance, err := strconv.Atoi(row[2])
	if err != nil {
		return err
	}
	canSell, err := strconv.ParseBool(row[3])
	if err != nil {
		return err
	}
	prio, err := ParsePriority(row[4])
	if err != nil {
		return err
	}
	m.UserName = row[0]
	m.Name = row[1]
	m.Balance = balance
	m.CanSell = canSell
	m.Priority = prio
	return nil
}
