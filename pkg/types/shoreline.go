package types

// Shoreline is an ordered sequence of points representing a full-resolution
// coastline trace for one image, typically a few hundred points long. The
// backend produces it in world coordinates; an editing session may hold a
// pixel-space projection of it. Immutable except through reconstruction.
type Shoreline []Point

// Clone returns an independent copy of the shoreline.
// Returns nil for a nil shoreline.
func (s Shoreline) Clone() Shoreline {
	if s == nil {
		return nil
	}
	out := make(Shoreline, len(s))
	copy(out, s)
	return out
}

// ControlSet is the editable subset of a dense shoreline: a strictly
// increasing sequence of indices into the dense trace, plus the pixel-space
// positions currently shown to the operator. Indices and Points always have
// equal length. When the dense trace is non-empty the first and last dense
// indices are always members of the control set.
type ControlSet struct {
	Indices []int
	Points  []Point
}

// Clone returns an independent copy of the control set.
func (c ControlSet) Clone() ControlSet {
	out := ControlSet{}
	if c.Indices != nil {
		out.Indices = make([]int, len(c.Indices))
		copy(out.Indices, c.Indices)
	}
	if c.Points != nil {
		out.Points = make([]Point, len(c.Points))
		copy(out.Points, c.Points)
	}
	return out
}

// Validate checks the control set's structural invariants against a dense
// trace of the given length: equal component lengths, strictly increasing
// in-range indices, and first/last dense index membership when the dense
// trace is non-empty.
func (c ControlSet) Validate(denseLen int) error {
	if len(c.Indices) != len(c.Points) {
		return ErrLengthMismatch
	}
	for i, idx := range c.Indices {
		if idx < 0 || idx >= denseLen {
			return ErrIndexOutOfRange
		}
		if i > 0 && idx <= c.Indices[i-1] {
			return ErrIndicesNotIncreasing
		}
	}
	if denseLen > 0 && len(c.Indices) > 0 {
		if c.Indices[0] != 0 || c.Indices[len(c.Indices)-1] != denseLen-1 {
			return ErrEndpointsNotAnchored
		}
	}
	return nil
}
