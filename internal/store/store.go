package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kchestnov/plutarch/internal/model"
	"github.com/kchestnov/plutarch/internal/rowstore"
)

// Store is the tabular store abstraction. It holds no state beyond the
// backend handle; every operation re-reads what it needs, and every
// multi-step operation (exists-then-append, find-then-overwrite,
// find-then-delete) has a race window that callers must close with their own
// serialization.
type Store struct {
	backend rowstore.Backend
	timeout time.Duration
}

// New wraps a row-store backend. Every backend call runs under the given
// timeout so that a dead backend surfaces as ErrUnavailable instead of a
// hang.
func New(backend rowstore.Backend, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Store{backend: backend, timeout: timeout}
}

// backendKeys translates an entity's key cells into the backend's positional
// lookup form.
func backendKeys(e model.Entity) []rowstore.Key {
	cells := e.Key()
	keys := make([]rowstore.Key, len(cells))
	for i, cell := range cells {
		keys[i] = rowstore.Key{Col: cell.Col, Value: cell.Value}
	}
	return keys
}

// Exists reports whether a row matches the entity's key.
func (s *Store) Exists(ctx context.Context, e model.Entity) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, found, err := s.backend.FindFirstRow(ctx, e.Table(), backendKeys(e)...)
	if err != nil {
		return false, unavailable("exists "+e.Table(), err)
	}
	return found, nil
}

// Create appends the entity unless a row with its key already exists. The
// returned boolean reports whether a row was written; finding an existing
// row is success, not an error. The existence check and the append are two
// backend calls with no atomicity between them.
func (s *Store) Create(ctx context.Context, e model.Entity) (bool, error) {
	exists, err := s.Exists(ctx, e)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.backend.AppendRow(ctx, e.Table(), e.Row()); err != nil {
		return false, unavailable("create "+e.Table(), err)
	}
	return true, nil
}

// Append writes the entity without the existence check Create performs.
// Audit-style records share a key on purpose (every prepaid charge of a
// session carries the same reserved seller) and each one must land as its
// own row.
func (s *Store) Append(ctx context.Context, e model.Entity) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.backend.AppendRow(ctx, e.Table(), e.Row()); err != nil {
		return unavailable("append "+e.Table(), err)
	}
	return nil
}

// Read decodes the first row matching the entity's key into the entity
// itself, Scan style. The boolean reports whether a row was found.
func (s *Store) Read(ctx context.Context, e model.RowScanner) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	index, found, err := s.backend.FindFirstRow(ctx, e.Table(), backendKeys(e)...)
	if err != nil {
		return false, unavailable("read "+e.Table(), err)
	}
	if !found {
		return false, nil
	}
	rows, err := s.backend.ReadTable(ctx, e.Table())
	if err != nil {
		return false, unavailable("read "+e.Table(), err)
	}
	if index >= len(rows) {
		// The row vanished between the two calls; report absence.
		return false, nil
	}
	if err := e.ScanRow(rows[index]); err != nil {
		return false, fmt.Errorf("read %s: %w", e.Table(), err)
	}
	return true, nil
}

// ReadTable returns every decodable row of T's table whose columns contain
// filter as a substring, in append order. Rows that fail to decode are
// logged and skipped so one malformed row never poisons the rest of the
// table. An empty filter matches all rows.
func ReadTable[T any, PT interface {
	*T
	model.RowScanner
}](ctx context.Context, s *Store, filter string) ([]T, error) {
	var probe T
	table := PT(&probe).Table()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.backend.ReadTable(ctx, table)
	if err != nil {
		return nil, unavailable("read table "+table, err)
	}

	var out []T
	for i, row := range rows {
		if !rowContains(row, filter) {
			continue
		}
		var value T
		if err := PT(&value).ScanRow(row); err != nil {
			log.Printf("store: skipping %s row %d: %v", table, i, err)
			continue
		}
		out = append(out, value)
	}
	return out, nil
}

// Update overwrites the row found by the entity's key, or appends the entity
// when no row matches. The lookup and the overwrite are not atomic.
func (s *Store) Update(ctx context.Context, e model.Entity) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	index, found, err := s.backend.FindFirstRow(ctx, e.Table(), backendKeys(e)...)
	if err != nil {
		return unavailable("update "+e.Table(), err)
	}
	if !found {
		if err := s.backend.AppendRow(ctx, e.Table(), e.Row()); err != nil {
			return unavailable("update "+e.Table(), err)
		}
		return nil
	}
	if err := s.backend.OverwriteRow(ctx, e.Table(), index, e.Row()); err != nil {
		return unavailable("update "+e.Table(), err)
	}
	return nil
}

// Delete removes the row found by the entity's key. An already-absent row is
// success, not an error.
func (s *Store) Delete(ctx context.Context, e model.Entity) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	index, found, err := s.backend.FindFirstRow(ctx, e.Table(), backendKeys(e)...)
	if err != nil {
		return unavailable("delete "+e.Table(), err)
	}
	if !found {
		return nil
	}
	if err := s.backend.DeleteRow(ctx, e.Table(), index); err != nil {
		return unavailable("delete "+e.Table(), err)
	}
	return nil
}

// rowContains reports whether any cell contains filter as a substring.
func rowContains(row []string, filter string) bool {
	if filter == "" {
		return true
	}
	for _, cell := range row {
		if strings.Contains(cell, filter) {
			return true
		}
	}
	return false
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
