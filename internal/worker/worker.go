// Package worker computes the partial sum of one work range.
//
// A worker owns its range and its result exclusively: it reads nothing
// shared and writes nothing shared. Its lifetime is a single task,
// Running until the last block is summed and Done once Run returns.
package worker

import (
	"context"
	"math/bits"
	"time"

	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/partition"
	"github.com/agbru/rangesum/internal/progress"
)

// BlockSize is the number of iterations summed between cancellation checks
// and progress reports.
const BlockSize = 1 << 22

// PartialResult is the single scalar a worker hands back to the coordinator,
// along with what it covered and how long it took.
type PartialResult struct {
	Index    int
	Range    partition.WorkRange
	Sum      uint64
	Duration time.Duration
}

// Sum returns Σ (i+1) for i in [r.Start, r.End) using a plain loop.
func Sum(r partition.WorkRange) uint64 {
	var sum uint64
	for i := r.Start; i < r.End; i++ {
		sum += i + 1
	}
	return sum
}

// Compute sums r block by block. Between blocks it checks ctx and reports
// the completed fraction to report, which must not block.
func Compute(ctx context.Context, r partition.WorkRange, report progress.ProgressCallback) (uint64, error) {
	if report == nil {
		report = progress.NoopCallback
	}
	total := r.Len()
	if total == 0 {
		report(1)
		return 0, nil
	}

	var sum uint64
	for blockStart := r.Start; blockStart < r.End; {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		blockEnd := r.End
		if r.End-blockStart > BlockSize {
			blockEnd = blockStart + BlockSize
		}
		for i := blockStart; i < blockEnd; i++ {
			sum += i + 1
		}
		blockStart = blockEnd
		report(float64(blockEnd-r.Start) / float64(total))
	}
	return sum, nil
}

// Run executes worker index over r and returns its PartialResult. A canceled
// context yields an apperrors.WorkerError wrapping the context error.
func Run(ctx context.Context, index int, r partition.WorkRange, report progress.ProgressCallback) (PartialResult, error) {
	start := time.Now()
	sum, err := Compute(ctx, r, report)
	res := PartialResult{Index: index, Range: r, Sum: sum, Duration: time.Since(start)}
	if err != nil {
		return res, apperrors.WorkerError{Index: index, Start: r.Start, End: r.End, Cause: err}
	}
	return res, nil
}

// ClosedFormSum returns Σ (i+1) for i in [r.Start, r.End), that is
// Σ k for k in (Start, End], as (End-Start)(Start+End+1)/2. The boolean is
// false if the result does not fit in a uint64.
func ClosedFormSum(r partition.WorkRange) (uint64, bool) {
	if r.End <= r.Start {
		return 0, true
	}
	n := r.End - r.Start
	m, carry := bits.Add64(r.Start, r.End, 1)
	if carry != 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(n, m)
	// n + m = 2*End + 1 is odd, so exactly one factor is even and the
	// 128-bit product is divisible by two.
	if hi>>1 != 0 {
		return 0, false
	}
	return hi<<63 | lo>>1, true
}

// MaxDataSize is the largest data size whose full-range sum fits in a uint64.
const MaxDataSize uint64 = 6_074_000_999

// Verify checks a partial result against the closed form for its range.
func Verify(res PartialResult) error {
	want, ok := ClosedFormSum(res.Range)
	if !ok || want != res.Sum {
		return apperrors.MismatchError{Index: res.Index, Got: res.Sum, Expected: want}
	}
	return nil
}
