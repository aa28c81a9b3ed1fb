package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

func TestControlIndices(t *testing.T) {
	tests := []struct {
		name     string
		denseLen int
		target   int
		want     []int
	}{
		{
			name:     "empty trace yields empty set",
			denseLen: 0,
			target:   50,
			want:     []int{},
		},
		{
			name:     "single point trace yields single index",
			denseLen: 1,
			target:   50,
			want:     []int{0},
		},
		{
			name:     "trace shorter than target returns every index",
			denseLen: 5,
			target:   50,
			want:     []int{0, 1, 2, 3, 4},
		},
		{
			name:     "trace equal to target returns every index",
			denseLen: 4,
			target:   4,
			want:     []int{0, 1, 2, 3},
		},
		{
			name:     "stride sampling with last index appended",
			denseLen: 10,
			target:   4,
			want:     []int{0, 2, 4, 6, 8, 9},
		},
		{
			name:     "stride lands exactly on last index",
			denseLen: 9,
			target:   4,
			want:     []int{0, 2, 4, 6, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ControlIndices(tt.denseLen, tt.target)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestControlIndicesInvariants(t *testing.T) {
	lengths := []int{1, 2, 3, 7, 50, 51, 200, 400, 1000}
	targets := []int{1, 2, 10, 50, 100}

	for _, n := range lengths {
		for _, target := range targets {
			indices := ControlIndices(n, target)

			require.NotEmpty(t, indices, "n=%d target=%d", n, target)
			assert.Equal(t, 0, indices[0], "first dense index always a member")
			assert.Equal(t, n-1, indices[len(indices)-1], "last dense index always a member")
			assert.LessOrEqual(t, len(indices), target+1, "n=%d target=%d", n, target)
			for i := 1; i < len(indices); i++ {
				assert.Greater(t, indices[i], indices[i-1], "strictly increasing")
			}
		}
	}
}

func TestControlIndicesStride(t *testing.T) {
	// 200 dense points at target 50 samples at stride 4.
	indices := ControlIndices(200, 50)

	require.Len(t, indices, 51)
	for i := 0; i < 50; i++ {
		assert.Equal(t, i*4, indices[i])
	}
	assert.Equal(t, 199, indices[50])
}

func rampShoreline(n int) types.Shoreline {
	s := make(types.Shoreline, n)
	for i := range s {
		s[i] = types.Point{X: float64(i), Y: float64(2 * i)}
	}
	return s
}

func TestReconstructValidation(t *testing.T) {
	dense := rampShoreline(10)

	tests := []struct {
		name    string
		indices []int
		edited  []types.Point
		wantErr error
	}{
		{
			name:    "length mismatch rejected",
			indices: []int{0, 9},
			edited:  []types.Point{{X: 1, Y: 1}},
			wantErr: types.ErrLengthMismatch,
		},
		{
			name:    "index out of range rejected",
			indices: []int{0, 10},
			edited:  []types.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
			wantErr: types.ErrIndexOutOfRange,
		},
		{
			name:    "negative index rejected",
			indices: []int{-1, 9},
			edited:  []types.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
			wantErr: types.ErrIndexOutOfRange,
		},
		{
			name:    "non-increasing indices rejected",
			indices: []int{4, 4},
			edited:  []types.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
			wantErr: types.ErrIndicesNotIncreasing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconstruct(dense, tt.indices, tt.edited)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReconstructOverwritesControlValues(t *testing.T) {
	dense := rampShoreline(10)
	indices := []int{0, 5, 9}
	edited := []types.Point{{X: 100, Y: 100}, {X: 200, Y: 200}, {X: 300, Y: 300}}

	out, err := Reconstruct(dense, indices, edited)
	require.NoError(t, err)

	require.Len(t, out, len(dense))
	for i, idx := range indices {
		assert.Equal(t, edited[i], out[idx], "control value at index %d preserved exactly", idx)
	}
	// The input trace is untouched.
	assert.Equal(t, rampShoreline(10), dense)
}

func TestReconstructInterpolatesInterior(t *testing.T) {
	dense := make(types.Shoreline, 5)
	for i := range dense {
		dense[i] = types.Point{X: 99, Y: 99} // garbage interior to be overwritten
	}
	indices := []int{0, 4}
	edited := []types.Point{{X: 0, Y: 0}, {X: 8, Y: 4}}

	out, err := Reconstruct(dense, indices, edited)
	require.NoError(t, err)

	want := types.Shoreline{
		{X: 0, Y: 0},
		{X: 2, Y: 1},
		{X: 4, Y: 2},
		{X: 6, Y: 3},
		{X: 8, Y: 4},
	}
	assert.Equal(t, want, out)
}

func TestReconstructLeavesOutsideSpanUntouched(t *testing.T) {
	dense := rampShoreline(12)
	indices := []int{3, 8}
	edited := []types.Point{{X: -5, Y: -5}, {X: -10, Y: -10}}

	out, err := Reconstruct(dense, indices, edited)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, dense[i], out[i], "point %d before first control index untouched", i)
	}
	for i := 9; i < 12; i++ {
		assert.Equal(t, dense[i], out[i], "point %d after last control index untouched", i)
	}
}

func TestReconstructAdjacentControlsNoInterior(t *testing.T) {
	dense := rampShoreline(2)
	indices := []int{0, 1}
	edited := []types.Point{{X: 7, Y: 7}, {X: 8, Y: 8}}

	out, err := Reconstruct(dense, indices, edited)
	require.NoError(t, err)
	assert.Equal(t, types.Shoreline{{X: 7, Y: 7}, {X: 8, Y: 8}}, out)
}

func TestReconstructSinglePointTrace(t *testing.T) {
	dense := types.Shoreline{{X: 1, Y: 1}}

	out, err := Reconstruct(dense, []int{0}, []types.Point{{X: 4, Y: 5}})
	require.NoError(t, err)
	assert.Equal(t, types.Shoreline{{X: 4, Y: 5}}, out)
}

func TestReconstructIdempotent(t *testing.T) {
	dense := rampShoreline(50)
	indices := ControlIndices(len(dense), 10)
	edited := make([]types.Point, len(indices))
	for i, idx := range indices {
		edited[i] = types.Point{X: float64(idx) + 0.5, Y: float64(idx) * 1.5}
	}

	once, err := Reconstruct(dense, indices, edited)
	require.NoError(t, err)
	twice, err := Reconstruct(once, indices, edited)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestReconstructEndToEndRamp(t *testing.T) {
	// 200-point trace at target 50: stride 4 control sampling. Editing the
	// controls at dense indices 0 and 40 and reconstructing must produce a
	// straight ramp across indices 0..40 and leave everything past the next
	// unchanged control exactly as before.
	dense := make(types.Shoreline, 200)
	for i := range dense {
		dense[i] = types.Point{X: float64(i), Y: 50}
	}
	indices := ControlIndices(200, 50)
	require.Equal(t, 0, indices[0])
	require.Equal(t, 40, indices[10])

	edited := make([]types.Point, len(indices))
	for i, idx := range indices {
		edited[i] = dense[idx]
	}
	edited[0] = types.Point{X: 0, Y: 0}
	edited[10] = types.Point{X: 40, Y: 80}

	out, err := Reconstruct(dense, indices, edited)
	require.NoError(t, err)
	require.Len(t, out, 200)

	// Controls at dense indices 4..36 were not moved, so each stride-4 block
	// between 0 and 40 interpolates toward its unchanged right endpoint; the
	// first block ramps linearly from the edited origin.
	for k := 0; k <= 4; k++ {
		t4 := float64(k) / 4
		assert.InDelta(t, 0+t4*(4-0), out[k].X, 1e-9)
		assert.InDelta(t, 0+t4*(50-0), out[k].Y, 1e-9)
	}
	// Past dense index 40 every control is unchanged, so the tail is exact.
	for i := 44; i < 200; i++ {
		assert.Equal(t, dense[i], out[i], "index %d", i)
	}
}

func TestReconstructStraightRampAcrossSpan(t *testing.T) {
	// Dragging the controls across dense indices 0..40 onto a straight line
	// reconstructs an exact linear ramp over the whole span.
	dense := make(types.Shoreline, 200)
	for i := range dense {
		dense[i] = types.Point{X: float64(i), Y: 50}
	}
	indices := ControlIndices(200, 50)

	edited := make([]types.Point, len(indices))
	for i, idx := range indices {
		edited[i] = dense[idx]
	}
	for i := 0; i <= 10; i++ {
		edited[i] = types.Point{X: float64(4 * i), Y: float64(8 * i)}
	}

	out, err := Reconstruct(dense, indices, edited)
	require.NoError(t, err)

	for i := 0; i <= 40; i++ {
		assert.InDelta(t, float64(i), out[i].X, 1e-9, "index %d", i)
		assert.InDelta(t, float64(2*i), out[i].Y, 1e-9, "index %d", i)
	}
	for i := 44; i < 200; i++ {
		assert.Equal(t, dense[i], out[i], "index %d", i)
	}
}
