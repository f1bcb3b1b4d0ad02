package allocator

import (
	"fmt"
	"regexp"
	"strconv"
)

// idPattern matches the identifiers this scraper assigns: "D" followed by at
// least four digits.
var idPattern = regexp.MustCompile(`^D(\d{4,})$`)

// Allocator hands out sequential zero-padded entry IDs (D0001, D0002, ...).
// It is seeded once from the IDs already recorded in a previous run so that
// re-runs never reuse an ID. Not safe for concurrent use; the navigation
// loop is its only caller.
type Allocator struct {
	next int
	seen map[string]bool
}

// New creates an Allocator seeded from the given pre-existing IDs. The
// counter starts one past the highest numeric suffix found; IDs that do not
// match the D\d{4,} pattern are remembered for Seen but do not advance the
// counter.
func New(existingIDs []string) *Allocator {
	a := &Allocator{
		next: 1,
		seen: make(map[string]bool, len(existingIDs)),
	}
	for _, id := range existingIDs {
		a.seen[id] = true
		if n, ok := Parse(id); ok && n >= a.next {
			a.next = n + 1
		}
	}
	return a
}

// NextID returns a fresh identifier and records it as seen. The zero padding
// is four digits wide and grows naturally past D9999.
func (a *Allocator) NextID() string {
	for {
		id := Format(a.next)
		a.next++
		if !a.seen[id] {
			a.seen[id] = true
			return id
		}
	}
}

// Seen reports whether an ID has been recorded, either from a previous run
// or from this one.
func (a *Allocator) Seen(id string) bool {
	return a.seen[id]
}

// Count returns the number of recorded IDs.
func (a *Allocator) Count() int {
	return len(a.seen)
}

// Format renders a counter value as a zero-padded identifier.
func Format(n int) string {
	return fmt.Sprintf("D%04d", n)
}

// Parse extracts the numeric suffix from an identifier, reporting whether
// the ID matches the expected pattern.
func Parse(id string) (int, bool) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
