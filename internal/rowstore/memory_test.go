package rowstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAppendOrderPreserved(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.AppendRow(ctx, "t", []string{"a"}))
	require.NoError(t, m.AppendRow(ctx, "t", []string{"b"}))
	require.NoError(t, m.AppendRow(ctx, "t", []string{"c"}))

	rows, err := m.ReadTable(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, rows)
}

func TestMemoryReadUnknownTableIsEmpty(t *testing.T) {
	rows, err := NewMemory().ReadTable(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemoryFindFirstRow(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.AppendRow(ctx, "t", []string{"2026-09-06", "@a"}))
	require.NoError(t, m.AppendRow(ctx, "t", []string{"2026-09-06", "@b"}))
	require.NoError(t, m.AppendRow(ctx, "t", []string{"2026-09-13", "@a"}))

	// Single key: first row with the date in its column wins.
	idx, found, err := m.FindFirstRow(ctx, "t", Key{Col: 0, Value: "2026-09-06"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, idx)

	// Two keys: both columns must match on the same row.
	idx, found, err = m.FindFirstRow(ctx, "t", Key{Col: 0, Value: "2026-09-06"}, Key{Col: 1, Value: "@b"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, idx)

	_, found, err = m.FindFirstRow(ctx, "t", Key{Col: 0, Value: "2026-09-13"}, Key{Col: 1, Value: "@b"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryFindFirstRowMatchesDeclaredColumnOnly(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	// "@a" sits in column 2 here; a column-1 lookup must not see it.
	require.NoError(t, m.AppendRow(ctx, "t", []string{"2026-09-06", "bank", "@a"}))
	require.NoError(t, m.AppendRow(ctx, "t", []string{"2026-09-06", "@a", ""}))

	idx, found, err := m.FindFirstRow(ctx, "t", Key{Col: 1, Value: "@a"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, idx)

	// A key column beyond the row's width is a miss, not a panic.
	_, found, err = m.FindFirstRow(ctx, "t", Key{Col: 7, Value: "@a"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryDeleteShiftsLaterRows(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, m.AppendRow(ctx, "t", []string{v}))
	}

	require.NoError(t, m.DeleteRow(ctx, "t", 1))

	idx, found, err := m.FindFirstRow(ctx, "t", Key{Col: 0, Value: "c"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, idx, "rows after a delete shift down")

	assert.Error(t, m.DeleteRow(ctx, "t", 5))
}

func TestMemoryOverwriteRow(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.AppendRow(ctx, "t", []string{"a"}))

	require.NoError(t, m.OverwriteRow(ctx, "t", 0, []string{"z"}))
	rows, err := m.ReadTable(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"z"}}, rows)

	assert.Error(t, m.OverwriteRow(ctx, "t", 3, []string{"x"}))
}

func TestMemoryReadTableReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.AppendRow(ctx, "t", []string{"a"}))

	rows, err := m.ReadTable(ctx, "t")
	require.NoError(t, err)
	rows[0][0] = "mutated"

	again, err := m.ReadTable(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "a", again[0][0])
}
