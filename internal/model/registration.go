package model

import "strconv"

// Registration is a member's claim to attend a session, keyed by the
// (session_date, user_name) pair. RequestedAt is a server-assigned Unix
// timestamp; Priority is a snapshot of the member's tier taken when the
// claim was made, not a live reference to the members table.
type Registration struct {
	SessionDate string   // column 0: session_date (key)
	RequestedAt int64    // column 1: requested_at
	UserName    string   // column 2: user_name (key)
	Priority    Priority // column 3: priority snapshot
}

// Table returns the backing table name.
func (r Registration) Table() string { return "registrations" }

// Key identifies the registration by session date and user name.
func (r Registration) Key() []KeyCell {
	return []KeyCell{{Col: 0, Value: r.SessionDate}, {Col: 2, Value: r.UserName}}
}

// Row encodes the registration in the canonical column order.
func (r Registration) Row() []string {
	return []string{
		r.SessionDate,
		strconv.FormatInt(r.RequestedAt, 10),
		r.UserName,
		strconv.Itoa(int(r.Priority)),
	}
}

// ScanRow decodes a raw registrations row.
func (r *Registration) ScanRow(row []string) error {
	if len(row) != 4 {
		return rowLengthError(r.Table(), 4, len(row))
	}
	requestedAt, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil {
		return err
	}
	prio, err := ParsePriority(row[3])
	if err != nil {
		return err
	}
	r.SessionDate = row[0]
	r.RequestedAt = requestedAt
	r.UserName = row[2]
	r.Priority = prio
	return nil
}
