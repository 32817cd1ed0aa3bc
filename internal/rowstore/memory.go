package rowstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Backend used by tests and by the memory store
// mode. All operations are guarded by a single mutex; the zero table is an
// empty table, so reading an unknown table name returns no rows rather than
// an error.
type Memory struct {
	mu     sync.Mutex
	tables map[string][][]string
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][][]string)}
}

// ReadTable returns a copy of the table's rows in append order.
func (m *Memory) ReadTable(_ context.Context, table string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// AppendRow adds a row at the end of the table.
func (m *Memory) AppendRow(_ context.Context, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], append([]string(nil), row...))
	return nil
}

// FindFirstRow scans the table in append order for the first row whose key
// columns match.
func (m *Memory) FindFirstRow(_ context.Context, table string, keys ...Key) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.tables[table] {
		if rowMatches(row, keys) {
			return i, true, nil
		}
	}
	return 0, false, nil
}

// OverwriteRow replaces the row at index.
func (m *Memory) OverwriteRow(_ context.Context, table string, index int, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("rowstore: %s has no row %d", table, index)
	}
	rows[index] = append([]string(nil), row...)
	return nil
}

// DeleteRow removes the row at index; rows after it shift down by one.
func (m *Memory) DeleteRow(_ context.Context, table string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("rowstore: %s has no row %d", table, index)
	}
	m.tables[table] = append(rows[:index], rows[index+1:]...)
	return nil
}
