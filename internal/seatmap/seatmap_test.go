package seatmap

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "1A"},
		{1, "1B"},
		{5, "1F"},
		{6, "2A"},
		{11, "2F"},
		{12, "3A"},
		{29, "5F"},
		{300, "51A"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.index))
	}
}

func TestCodes_UniqueAndWellFormed(t *testing.T) {
	re := regexp.MustCompile(`^[1-9][0-9]*[A-F]$`)

	for _, capacity := range []int{6, 10, 12, 18, 30, 300} {
		codes := Codes(capacity)
		require.Len(t, codes, capacity)

		seen := make(map[string]bool, capacity)
		for i, code := range codes {
			assert.Regexp(t, re, code)
			assert.False(t, seen[code], "duplicate code %s at capacity %d", code, capacity)
			seen[code] = true
			assert.Equal(t, i, Index(code))
		}

		// row boundary every six seats
		if capacity > 6 {
			assert.Equal(t, "2A", codes[6])
		}
	}
}

func TestCodes_EmptyOnNonPositiveCapacity(t *testing.T) {
	assert.Empty(t, Codes(0))
	assert.Empty(t, Codes(-3))
}

func TestIndex_RejectsMalformed(t *testing.T) {
	for _, code := range []string{"", "A1", "0A", "1G", "1a", "12", "1AB", " 1A"} {
		assert.Equal(t, -1, Index(code), "code %q", code)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("1A", 6))
	assert.True(t, Valid("2F", 12))
	assert.False(t, Valid("3A", 12), "3A is index 12, out of a 12-seat plane")
	assert.False(t, Valid("2A", 6))
	assert.False(t, Valid("bogus", 6))
}

func TestRows(t *testing.T) {
	rows := Rows(10)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1A", "1B", "1C", "1D", "1E", "1F"}, rows[0])
	assert.Equal(t, []string{"2A", "2B", "2C", "2D"}, rows[1])
}

func TestNormalize_FlatShape(t *testing.T) {
	m, err := Normalize(7, Payload{Capacity: 12, Taken: []string{"1A", "2C"}})
	require.NoError(t, err)

	assert.Equal(t, int64(7), m.FlightID)
	assert.Equal(t, 12, m.Capacity)
	assert.True(t, m.IsTaken("1A"))
	assert.True(t, m.IsTaken("2C"))
	assert.False(t, m.IsTaken("1B"))
	assert.Len(t, m.Taken, 2)
}

func TestNormalize_PerSeatShape(t *testing.T) {
	m, err := Normalize(7, Payload{Seats: []seatEntry{
		{Seat: "1A", Status: "taken"},
		{Seat: "1B", Status: "free"},
		{Seat: "1C", Status: "booked"},
		{Seat: "1D", Status: "available"},
		{Seat: "1E", Status: "free"},
		{Seat: "1F", Status: "free"},
	}})
	require.NoError(t, err)

	assert.Equal(t, 6, m.Capacity)
	assert.True(t, m.IsTaken("1A"))
	assert.True(t, m.IsTaken("1C"))
	assert.False(t, m.IsTaken("1B"))
	assert.False(t, m.IsTaken("1D"))
}

func TestNormalize_LabShape(t *testing.T) {
	m, err := Normalize(3, Payload{Rows: 6, SeatsPerRow: 50, UsableSeats: 300, Taken: []string{"1A"}})
	require.NoError(t, err)

	assert.Equal(t, 300, m.Capacity)
	assert.True(t, m.IsTaken("1A"))
}

func TestNormalize_DropsOutOfRangeTaken(t *testing.T) {
	m, err := Normalize(1, Payload{Capacity: 6, Taken: []string{"1A", "9F", "zz"}})
	require.NoError(t, err)

	assert.Len(t, m.Taken, 1)
	assert.True(t, m.IsTaken("1A"))
}

func TestNormalize_NoCapacity(t *testing.T) {
	_, err := Normalize(1, Payload{})
	assert.Error(t, err)
}
