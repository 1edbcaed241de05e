// Package idgen generates sequential 13-digit numeric string IDs for entity
// types, relationship types, and properties. Generators are explicit values
// threaded through converters; there is no process-global instance.
package idgen

import (
	"strconv"
	"sync"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
)

// DefaultPrefix is the starting counter value. IDs produced from it are
// 13-digit strings ("1000000000000", "1000000000001", ...).
const DefaultPrefix int64 = 1000000000000

// maxExclusive is the first value past the 13-digit budget.
const maxExclusive int64 = 10000000000000

// Range is a half-open reservation [Start, End) of ID values.
type Range struct {
	Start int64
	End   int64
}

// Count returns the number of IDs in the range.
func (r Range) Count() int {
	return int(r.End - r.Start)
}

// Contains reports whether id falls inside the range.
func (r Range) Contains(id int64) bool {
	return id >= r.Start && id < r.End
}

// ID returns the i-th reserved ID as a string.
func (r Range) ID(i int) string {
	return strconv.FormatInt(r.Start+int64(i), 10)
}

// Generator hands out monotonically increasing IDs. Safe for concurrent use;
// the counter is the only shared mutable state in a conversion run.
type Generator struct {
	mu                sync.Mutex
	counter           int64
	initial           int64
	namespaceCounters map[string]int64
}

// New returns a generator whose first ID equals prefix.
func New(prefix int64) *Generator {
	return &Generator{
		counter:           prefix,
		initial:           prefix,
		namespaceCounters: make(map[string]int64),
	}
}

// Default returns a generator starting at DefaultPrefix.
func Default() *Generator {
	return New(DefaultPrefix)
}

// NextID returns the next sequential ID. It never fails; once the counter
// leaves the 13-digit budget the returned IDs grow to 14 digits and are
// caught by downstream ID validation rather than silently truncated.
func (g *Generator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	current := g.counter
	g.counter++
	return strconv.FormatInt(current, 10)
}

// NextIDForNamespace returns the next ID and tracks it under a category
// ("entities", "properties", ...) for statistics.
func (g *Generator) NextIDForNamespace(namespace string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	current := g.counter
	g.counter++
	g.namespaceCounters[namespace]++
	return strconv.FormatInt(current, 10)
}

// NamespaceCount returns how many IDs were generated for a category.
func (g *Generator) NamespaceCount(namespace string) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.namespaceCounters[namespace]
}

// ReserveRange pre-allocates count IDs for batch operations. It fails with
// apperrors.ErrIDCapacity when the reservation would leave the 13-digit
// budget.
func (g *Generator) ReserveRange(namespace string, count int) (Range, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.counter+int64(count) > maxExclusive {
		return Range{}, apperrors.Wrapf(apperrors.ErrIDCapacity,
			"cannot reserve %d ids starting at %d", count, g.counter)
	}
	r := Range{Start: g.counter, End: g.counter + int64(count)}
	g.counter = r.End
	g.namespaceCounters[namespace] += int64(count)
	return r, nil
}

// Reset reinitializes the counter and clears namespace statistics. Must not
// be called while a conversion using this generator is in flight.
func (g *Generator) Reset(prefix int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter = prefix
	g.initial = prefix
	g.namespaceCounters = make(map[string]int64)
}

// Current returns the counter value without consuming an ID.
func (g *Generator) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}

// TotalGenerated returns how many IDs were handed out since construction or
// the last Reset.
func (g *Generator) TotalGenerated() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter - g.initial
}

// Stats returns generation counts: total, current, and per-namespace.
func (g *Generator) Stats() map[string]int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	stats := map[string]int64{
		"total":   g.counter - g.initial,
		"current": g.counter,
	}
	for ns, count := range g.namespaceCounters {
		stats[ns] = count
	}
	return stats
}

// IsValidFabricID reports whether s is a 13-digit numeric string.
func IsValidFabricID(s string) bool {
	if len(s) != 13 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ValidateIDFormat returns a descriptive error when s is not a valid ID.
func ValidateIDFormat(s string) error {
	if !IsValidFabricID(s) {
		return apperrors.Newf("invalid Fabric ID format: %q (expected 13-digit numeric string)", s)
	}
	return nil
}
