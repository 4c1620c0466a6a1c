package seatmap

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kirinyoku/aero-go/internal/domain"
)

// Cabin layout is fixed at six seats per row, lettered A..F.
const perRow = 6

const letters = "ABCDEF"

var codeRe = regexp.MustCompile(`^[1-9][0-9]*[A-F]$`)

// Code maps a zero-based seat index to its seat code, e.g. 0 -> "1A", 7 -> "2B".
func Code(i int) string {
	row := i/perRow + 1
	return strconv.Itoa(row) + string(letters[i%perRow])
}

// Codes enumerates all seat codes for a plane of the given capacity,
// in index order. Capacity <= 0 yields an empty slice.
func Codes(capacity int) []string {
	if capacity <= 0 {
		return nil
	}
	out := make([]string, 0, capacity)
	for i := 0; i < capacity; i++ {
		out = append(out, Code(i))
	}
	return out
}

// Index is the inverse of Code. Returns -1 for anything that is not a
// well-formed seat code.
func Index(code string) int {
	if !codeRe.MatchString(code) {
		return -1
	}
	row, err := strconv.Atoi(code[:len(code)-1])
	if err != nil {
		return -1
	}
	col := int(code[len(code)-1] - 'A')
	return (row-1)*perRow + col
}

// Valid reports whether code names a seat that exists on a plane of the
// given capacity.
func Valid(code string, capacity int) bool {
	i := Index(code)
	return i >= 0 && i < capacity
}

// Rows groups all codes for capacity into rows of six for grid rendering.
// The last row may be short.
func Rows(capacity int) [][]string {
	codes := Codes(capacity)
	var rows [][]string
	for len(codes) > 0 {
		n := perRow
		if len(codes) < n {
			n = len(codes)
		}
		rows = append(rows, codes[:n])
		codes = codes[n:]
	}
	return rows
}

// seatEntry is the {seats:[{seat,status}]} response element some backend
// variants return instead of a flat taken list.
type seatEntry struct {
	Seat   string `json:"seat"`
	Status string `json:"status"`
}

// Payload covers every seat-map response shape seen across the backend
// variants: the flat {capacity,taken}, the per-seat {seats:[{seat,status}]},
// and the original lab shape {rows,seats_per_row,usable_seats,taken}.
type Payload struct {
	Capacity    int         `json:"capacity"`
	Taken       []string    `json:"taken"`
	Seats       []seatEntry `json:"seats"`
	Rows        int         `json:"rows"`
	SeatsPerRow int         `json:"seats_per_row"`
	UsableSeats int         `json:"usable_seats"`
	TotalSeats  int         `json:"total_seats"`
}

// Normalize folds a raw payload into a domain.SeatMap. Taken codes outside
// the capacity are dropped so the invariant taken ⊆ valid codes holds.
func Normalize(flightID int64, p Payload) (domain.SeatMap, error) {
	capacity := p.Capacity
	if capacity == 0 {
		switch {
		case p.UsableSeats > 0:
			capacity = p.UsableSeats
		case p.TotalSeats > 0:
			capacity = p.TotalSeats
		case p.Rows > 0 && p.SeatsPerRow > 0:
			capacity = p.Rows * p.SeatsPerRow
		case len(p.Seats) > 0:
			capacity = len(p.Seats)
		}
	}
	if capacity <= 0 {
		return domain.SeatMap{}, fmt.Errorf("seatmap: no capacity in response for flight %d", flightID)
	}

	taken := make(map[string]bool)
	for _, code := range p.Taken {
		if Valid(code, capacity) {
			taken[code] = true
		}
	}
	for _, s := range p.Seats {
		if s.Status != "free" && s.Status != "available" && Valid(s.Seat, capacity) {
			taken[s.Seat] = true
		}
	}

	return domain.SeatMap{FlightID: flightID, Capacity: capacity, Taken: taken}, nil
}
