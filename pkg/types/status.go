package types

// StatusSet maps an integer image index to its boolean approval flag.
// Keys are unique; there is no ordering requirement.
type StatusSet map[int]bool

// Clone returns an independent copy of the status set.
// Returns an empty (non-nil) set for a nil receiver.
func (s StatusSet) Clone() StatusSet {
	out := make(StatusSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
