// Package session implements the editing session for one image: it owns the
// dense shoreline trace and its control set from load until the operator
// moves on, and routes every persistence step through the backend client.
package session

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/shoretrace/internal/api"
	"github.com/mesh-intelligence/shoretrace/internal/geometry"
	"github.com/mesh-intelligence/shoretrace/internal/resample"
	"github.com/mesh-intelligence/shoretrace/internal/statuscache"
	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// Session is one image's active editing state. The dense trace is held in
// pixel space for the duration of the session; the control set is the
// operator's editable handle on it. A Session is owned by a single editing
// surface and is not safe for concurrent use.
type Session struct {
	client     *api.Client
	imageIndex int
	extent     types.RasterExtent
	target     int

	dense      types.Shoreline // dense trace, pixel space
	controls   types.ControlSet
	worldInput bool // trace arrived in world coordinates and saves convert back
	approved   bool
}

// Open fetches the dense trace for imageIndex, projects it into the pixel
// space of the raster with the given extent, and derives the control set.
// The control indices are fixed for the life of the session: control points
// can be moved, never inserted or deleted.
func Open(ctx context.Context, client *api.Client, imageIndex int, extent types.RasterExtent, target int) (*Session, error) {
	if target <= 0 {
		target = types.DefaultControlTarget
	}

	s := &Session{
		client:     client,
		imageIndex: imageIndex,
		extent:     extent,
		target:     target,
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load(ctx context.Context) error {
	data, err := s.client.ShorelineData(ctx, s.imageIndex)
	if err != nil {
		return fmt.Errorf("load shoreline %d: %w", s.imageIndex, err)
	}
	if len(data.Points) == 0 {
		return fmt.Errorf("load shoreline %d: %w", s.imageIndex, types.ErrEmptyShoreline)
	}

	s.worldInput = !data.PixelSpace
	if s.worldInput {
		s.dense = make(types.Shoreline, len(data.Points))
		for i, p := range data.Points {
			s.dense[i] = geometry.ToPixel(p, s.extent)
		}
	} else {
		s.dense = data.Points.Clone()
	}
	s.approved = data.Approved
	s.resetControls()
	return nil
}

// resetControls derives the control set from the current dense trace.
func (s *Session) resetControls() {
	indices := resample.ControlIndices(len(s.dense), s.target)
	points := make([]types.Point, len(indices))
	for i, idx := range indices {
		points[i] = s.dense[idx]
	}
	s.controls = types.ControlSet{Indices: indices, Points: points}
}

// ImageIndex returns the index of the image being edited.
func (s *Session) ImageIndex() int { return s.imageIndex }

// Extent returns the raster extent the session projects into.
func (s *Session) Extent() types.RasterExtent { return s.extent }

// Approved reports the operator-visible approval state.
func (s *Session) Approved() bool { return s.approved }

// Dense returns a copy of the current dense pixel-space trace.
func (s *Session) Dense() types.Shoreline { return s.dense.Clone() }

// Controls returns a copy of the control set.
func (s *Session) Controls() types.ControlSet { return s.controls.Clone() }

// MoveControl repositions one control point to a new pixel-space position.
// controlIdx addresses the control set, not the dense trace.
func (s *Session) MoveControl(controlIdx int, p types.Point) error {
	if controlIdx < 0 || controlIdx >= len(s.controls.Points) {
		return types.ErrIndexOutOfRange
	}
	s.controls.Points[controlIdx] = p
	return nil
}

// Reconstructed returns the dense pixel-space trace rebuilt from the edited
// control set, without committing it to the session.
func (s *Session) Reconstructed() (types.Shoreline, error) {
	return resample.Reconstruct(s.dense, s.controls.Indices, s.controls.Points)
}

// Save reconstructs the dense trace from the edited control points, commits
// it as the session's dense trace, and persists it through the backend. A
// trace that arrived in world coordinates is projected back before saving.
func (s *Session) Save(ctx context.Context) error {
	recon, err := s.Reconstructed()
	if err != nil {
		return fmt.Errorf("reconstruct shoreline %d: %w", s.imageIndex, err)
	}

	points := recon
	if s.worldInput {
		points = make(types.Shoreline, len(recon))
		for i, p := range recon {
			points[i] = geometry.ToWorld(p, s.extent)
		}
	}
	if err := s.client.SaveShoreline(ctx, s.imageIndex, points); err != nil {
		return fmt.Errorf("save shoreline %d: %w", s.imageIndex, err)
	}

	s.dense = recon
	return nil
}

// Approve marks the image's shoreline as approved through the backend and
// pushes the new state into the shared cache. There is no optimistic update:
// on failure both the session state and the cache entry record "not
// approved".
func (s *Session) Approve(ctx context.Context, cache *statuscache.Cache) error {
	if err := s.client.ApproveShoreline(ctx, s.imageIndex); err != nil {
		s.approved = false
		if cache != nil {
			cache.Set(s.imageIndex, false)
		}
		return fmt.Errorf("approve shoreline %d: %w", s.imageIndex, err)
	}

	s.approved = true
	if cache != nil {
		cache.Set(s.imageIndex, true)
	}
	return nil
}

// Reset discards edits on the backend, restoring the original detection
// output, then reloads the trace and rebuilds the control set.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.client.ResetShoreline(ctx, s.imageIndex); err != nil {
		return fmt.Errorf("reset shoreline %d: %w", s.imageIndex, err)
	}
	return s.load(ctx)
}
