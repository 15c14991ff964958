// Package partition computes the contiguous, half-open work ranges handed
// to each worker.
package partition

import (
	"fmt"
	"strings"
)

// Policy selects what happens to the size mod workers trailing elements
// that an even split cannot place.
type Policy int

const (
	// Drop truncates: every range has exactly chunkSize elements and the
	// trailing remainder is not summed.
	Drop Policy = iota
	// Absorb extends the final range to the data size so the ranges cover
	// [0, size) exactly.
	Absorb
)

// String returns the flag spelling of the policy.
func (p Policy) String() string {
	switch p {
	case Drop:
		return "drop"
	case Absorb:
		return "absorb"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a flag value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop", "truncate":
		return Drop, nil
	case "absorb":
		return Absorb, nil
	}
	return Drop, fmt.Errorf("unknown remainder policy %q (want drop or absorb)", s)
}

// WorkRange is the half-open interval [Start, End) assigned to one worker.
type WorkRange struct {
	Start uint64
	End   uint64
}

// Len returns the number of elements in the range.
func (r WorkRange) Len() uint64 { return r.End - r.Start }

// String renders the range in interval notation.
func (r WorkRange) String() string { return fmt.Sprintf("[%d, %d)", r.Start, r.End) }

// ChunkSize returns floor(size / workers). workers must be positive.
func ChunkSize(size uint64, workers int) uint64 {
	return size / uint64(workers)
}

// Split divides [0, size) into workers contiguous ranges of ChunkSize
// elements each, in index order. Under Absorb the last range ends at size.
// Split panics if workers is not positive.
func Split(size uint64, workers int, policy Policy) []WorkRange {
	if workers <= 0 {
		panic(fmt.Sprintf("partition: non-positive worker count %d", workers))
	}
	chunk := ChunkSize(size, workers)
	ranges := make([]WorkRange, workers)
	for i := range ranges {
		ranges[i] = WorkRange{
			Start: uint64(i) * chunk,
			End:   uint64(i+1) * chunk,
		}
	}
	if policy == Absorb {
		ranges[workers-1].End = size
	}
	return ranges
}

// Covered returns the total number of elements across ranges.
func Covered(ranges []WorkRange) uint64 {
	var n uint64
	for _, r := range ranges {
		n += r.Len()
	}
	return n
}

// Dropped returns how many elements of [0, size) the ranges leave unsummed.
func Dropped(size uint64, ranges []WorkRange) uint64 {
	return size - Covered(ranges)
}
