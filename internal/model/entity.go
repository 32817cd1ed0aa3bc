// Package model defines the value types persisted in the tabular store:
// members, sessions, registrations and resale slots. Each type declares the
// table it lives in, the key columns that identify a row, and its positional
// column encoding. The set of entities is closed; the store layer never
// inspects concrete types at runtime.
package model

import "fmt"

// KeyCell is one component of an entity's key: the value it must hold and
// the column it lives in. Matching is positional; a key value appearing in
// some other column of a row must never count as a match (a settled slot
// carries the buyer's name in a non-key column).
type KeyCell struct {
	Col   int
	Value string
}

// Entity is the capability every stored value type implements. Table returns
// the backing table name, Key returns the one or two key cells that identify
// the row, and Row encodes the entity in the table's canonical column order.
type Entity interface {
	Table() string
	Key() []KeyCell
	Row() []string
}

// RowScanner is implemented by entity pointer types that can decode a raw
// backend row into themselves. ScanRow must reject rows that do not match the
// table's column contract so that a single malformed row never corrupts an
// entity silently.
type RowScanner interface {
	Entity
	ScanRow(row []string) error
}

// rowLengthError reports a row whose column count does not match the table
// contract.
func rowLengthError(table string, want, got int) error {
	return fmt.Errorf("malformed %s row: want %d columns, got %d", table, want, got)
}
