// Package rowstore defines the flat row-store contract the tabular store is
// built on, together with its concrete backends. A backend holds named tables
// of positional string rows in append order. It offers no transactions, no
// secondary indexes and no atomic update; every lookup is a first-match
// linear scan and row indexes are zero-based positions in append order.
package rowstore

import "context"

// Key is one key component for row lookup: the column it lives in and the
// value it must equal. Matching is positional and exact; a value appearing
// in a non-key column never matches.
type Key struct {
	Col   int
	Value string
}

// Backend is the row-level storage contract. Implementations must keep rows
// in append order and must treat the index arguments of OverwriteRow and
// DeleteRow as positions in that order at call time.
type Backend interface {
	// ReadTable returns every row of the named table in append order.
	ReadTable(ctx context.Context, table string) ([][]string, error)
	// AppendRow adds one row at the end of the named table.
	AppendRow(ctx context.Context, table string, row []string) error
	// FindFirstRow returns the index of the first row in which every key
	// component matches its declared column exactly. The boolean reports
	// whether a row was found; absence is not an error.
	FindFirstRow(ctx context.Context, table string, keys ...Key) (int, bool, error)
	// OverwriteRow replaces the row at the given index.
	OverwriteRow(ctx context.Context, table string, index int, row []string) error
	// DeleteRow removes the row at the given index; later rows shift down.
	DeleteRow(ctx context.Context, table string, index int) error
}

// rowMatches reports whether every key's column holds the key's value.
func rowMatches(row []string, keys []Key) bool {
	for _, key := range keys {
		if key.Col < 0 || key.Col >= len(row) || row[key.Col] != key.Value {
			return false
		}
	}
	return true
}
