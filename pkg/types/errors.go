package types

import "errors"

// Geometry and resampling boundary errors. The transform and resampler are
// pure and never fail on well-formed input; malformed input is rejected with
// these sentinels before it reaches them.
var (
	ErrLengthMismatch       = errors.New("control indices and points have different lengths")
	ErrIndexOutOfRange      = errors.New("index outside dense shoreline range")
	ErrIndicesNotIncreasing = errors.New("control indices must be strictly increasing")
	ErrEndpointsNotAnchored = errors.New("control set must include first and last dense indices")
	ErrEmptyShoreline       = errors.New("shoreline has no points")
)

// Backend interaction errors.
var (
	// ErrNotFound reports that the backend has no data for an index. This is
	// expected for images the detection pipeline has not processed and is
	// not escalated as fatal.
	ErrNotFound = errors.New("no data for image index")

	// ErrBackendStatus reports a non-success HTTP status from the backend.
	ErrBackendStatus = errors.New("backend returned error status")

	// ErrMalformedPoints reports a point payload that could not be decoded
	// into any usable points.
	ErrMalformedPoints = errors.New("malformed shoreline point payload")
)

// Journal errors.
var (
	ErrJournalClosed = errors.New("journal is closed")
	ErrUnknownAction = errors.New("unknown journal action")
)
