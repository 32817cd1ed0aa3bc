package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"1", PriorityFull, true},
		{"2", PriorityHalf, true},
		{"3", PriorityOneTime, true},
		{"FULL", PriorityFull, true},
		{"HALF", PriorityHalf, true},
		{"ONE_TIME", PriorityOneTime, true},
		{"0", 0, false},
		{"4", 0, false},
		{"full", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParsePriority(tc.in)
		if !tc.ok {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestPriorityOrdering(t *testing.T) {
	// FULL outranks HALF outranks ONE_TIME by numeric comparison.
	assert.Less(t, PriorityFull, PriorityHalf)
	assert.Less(t, PriorityHalf, PriorityOneTime)
}

func TestMemberRowRoundTrip(t *testing.T) {
	m := Member{UserName: "@kchestnov", Name: "Kirill", Balance: 7, CanSell: true, Priority: PriorityFull}
	row := m.Row()
	require.Equal(t, []string{"@kchestnov", "Kirill", "7", "true", "1"}, row)

	var decoded Member
	require.NoError(t, decoded.ScanRow(row))
	assert.Equal(t, m, decoded)
}

func TestMemberScanRowRejectsMalformed(t *testing.T) {
	var m Member
	assert.Error(t, m.ScanRow([]string{"only", "four", "cols", "here"}))
	assert.Error(t, m.ScanRow([]string{"u", "n", "not-a-number", "true", "1"}))
	assert.Error(t, m.ScanRow([]string{"u", "n", "3", "yes?no", "1"}))
	assert.Error(t, m.ScanRow([]string{"u", "n", "3", "true", "9"}))
}

func TestRegistrationRowRoundTrip(t *testing.T) {
	r := Registration{SessionDate: "2026-09-06", RequestedAt: 1757100000, UserName: "@b", Priority: PriorityHalf}
	row := r.Row()
	require.Equal(t, []string{"2026-09-06", "1757100000", "@b", "2"}, row)

	var decoded Registration
	require.NoError(t, decoded.ScanRow(row))
	assert.Equal(t, r, decoded)
}

func TestSessionRowRoundTrip(t *testing.T) {
	s := Session{SessionDate: "2026-09-06", Capacity: 10, Price: 15, Settled: false}
	var decoded Session
	require.NoError(t, decoded.ScanRow(s.Row()))
	assert.Equal(t, s, decoded)
}

func TestResaleSlotScanRowAcceptsMissingBuyer(t *testing.T) {
	// Remote sheets drop trailing empty cells, so an unmatched slot may
	// arrive with five columns.
	var slot ResaleSlot
	require.NoError(t, slot.ScanRow([]string{"2026-09-06", "@seller", "1757100000", "https://pay/1", "false"}))
	assert.Empty(t, slot.Buyer)
	assert.False(t, slot.Settled)

	require.NoError(t, slot.ScanRow([]string{"2026-09-06", "@seller", "1757100000", "https://pay/1", "true", "@buyer"}))
	assert.Equal(t, "@buyer", slot.Buyer)
	assert.True(t, slot.Settled)
}

func TestEntityKeys(t *testing.T) {
	assert.Equal(t, []KeyCell{{Col: 0, Value: "@u"}}, Member{UserName: "@u"}.Key())
	assert.Equal(t, []KeyCell{{Col: 0, Value: "2026-09-06"}}, Session{SessionDate: "2026-09-06"}.Key())
	assert.Equal(t,
		[]KeyCell{{Col: 0, Value: "2026-09-06"}, {Col: 2, Value: "@u"}},
		Registration{SessionDate: "2026-09-06", UserName: "@u"}.Key())
	assert.Equal(t,
		[]KeyCell{{Col: 0, Value: "2026-09-06"}, {Col: 1, Value: "@s"}},
		ResaleSlot{SessionDate: "2026-09-06", Seller: "@s"}.Key())

	// Key columns must point at the cells Row writes the key values to.
	for _, e := range []Entity{
		Member{UserName: "@u"},
		Session{SessionDate: "2026-09-06"},
		Registration{SessionDate: "2026-09-06", UserName: "@u"},
		ResaleSlot{SessionDate: "2026-09-06", Seller: "@s"},
	} {
		row := e.Row()
		for _, cell := range e.Key() {
			require.Less(t, cell.Col, len(row), "%s key column out of range", e.Table())
			assert.Equal(t, cell.Value, row[cell.Col], "%s key column mismatch", e.Table())
		}
	}
}
