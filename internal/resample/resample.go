// Package resample bridges a backend-provided dense shoreline trace and the
// bounded set of draggable control points an operator can realistically edit.
// It selects the editable index subset and reconstructs the dense trace after
// edits without discarding unedited detail.
//
// Interpolation between control points is linear, not spline-based, for
// predictability and to avoid overshoot near sharp features.
package resample

import (
	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// ControlIndices returns the strictly increasing dense-trace indices that
// form the editable control set for a trace of denseLen points.
//
// When denseLen <= target every index is returned. Otherwise indices are
// sampled at stride max(1, denseLen/target), and the final dense index is
// appended if the stride missed it, so the first and last dense indices are
// always members. The result length never exceeds target+1.
//
// The index set is computed once per loaded trace and stays fixed for the
// editing session: control points can be moved but not inserted or deleted.
func ControlIndices(denseLen, target int) []int {
	if denseLen <= 0 {
		return []int{}
	}
	if target <= 0 {
		target = types.DefaultControlTarget
	}

	if denseLen <= target {
		indices := make([]int, denseLen)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	rate := denseLen / target
	if rate < 1 {
		rate = 1
	}
	indices := make([]int, 0, target+1)
	for i := 0; i < denseLen; i += rate {
		indices = append(indices, i)
	}
	if indices[len(indices)-1] != denseLen-1 {
		indices = append(indices, denseLen-1)
	}
	return indices
}

// Reconstruct rebuilds a dense trace from an edited control set. The value at
// each control index is replaced with the corresponding edited point, and for
// every consecutive pair of control indices (a, b) with b-a > 1 the interior
// points are linearly interpolated between the values at a and b: for offset
// k in 1..b-a-1, t = k/(b-a) and dense[a+k] = dense[a] + t*(dense[b]-dense[a]).
//
// Points before the first and after the last control index are left
// unmodified, and the result always has the same length as the input. The
// input trace itself is not mutated. Reconstruction is deterministic and
// idempotent: applying it again with the same edited points yields the same
// result.
func Reconstruct(dense types.Shoreline, indices []int, edited []types.Point) (types.Shoreline, error) {
	if len(indices) != len(edited) {
		return nil, types.ErrLengthMismatch
	}
	for i, idx := range indices {
		if idx < 0 || idx >= len(dense) {
			return nil, types.ErrIndexOutOfRange
		}
		if i > 0 && idx <= indices[i-1] {
			return nil, types.ErrIndicesNotIncreasing
		}
	}

	out := dense.Clone()
	for i, idx := range indices {
		out[idx] = edited[i]
	}
	for i := 1; i < len(indices); i++ {
		a, b := indices[i-1], indices[i]
		span := b - a
		if span <= 1 {
			continue
		}
		for k := 1; k < span; k++ {
			t := float64(k) / float64(span)
			out[a+k] = types.Point{
				X: out[a].X + t*(out[b].X-out[a].X),
				Y: out[a].Y + t*(out[b].Y-out[a].Y),
			}
		}
	}
	return out, nil
}
