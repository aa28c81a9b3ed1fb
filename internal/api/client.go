// Package api implements the HTTP client for the shoreline backend. The
// backend owns image registration, rectification, and shoreline detection;
// this client only consumes the JSON contract it exposes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// Client talks to one shoreline backend. Every call takes a context so an
// in-flight fetch can be cancelled when its consumer goes away.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the backend at base URL, e.g.
// "http://localhost:5000". A trailing slash is tolerated.
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient creates a client with a caller-supplied http.Client.
func NewWithHTTPClient(base string, hc *http.Client) *Client {
	c := New(base)
	if hc != nil {
		c.http = hc
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// ShorelineData fetches the dense shoreline trace and approval flag for one
// image. A backend 404 is reported as types.ErrNotFound: absent data is
// expected for images the detection pipeline has not produced a trace for.
// Malformed point entries in the payload are filtered out, never surfaced.
func (c *Client) ShorelineData(ctx context.Context, imageIndex int) (*ShorelineData, error) {
	var payload shorelinePayload
	path := "/api/shoreline_data/" + strconv.Itoa(imageIndex)
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.toShorelineData(imageIndex)
}

// SaveShoreline persists an edited dense trace for one image.
func (c *Client) SaveShoreline(ctx context.Context, imageIndex int, points types.Shoreline) error {
	body := savePayload{
		ImageIndex:      imageIndex,
		ShorelinePoints: encodePoints(points),
	}
	return c.postJSON(ctx, "/api/save_shoreline", body)
}

// ApproveShoreline marks one image's shoreline as operator-approved. On
// failure the caller must revert both the operator-visible approval state
// and the cache entry to "not approved".
func (c *Client) ApproveShoreline(ctx context.Context, imageIndex int) error {
	return c.postJSON(ctx, "/api/approve_shoreline/"+strconv.Itoa(imageIndex), nil)
}

// ResetShoreline discards edits for one image, restoring the original
// detection output.
func (c *Client) ResetShoreline(ctx context.Context, imageIndex int) error {
	return c.postJSON(ctx, "/api/reset_shoreline/"+strconv.Itoa(imageIndex), nil)
}

// StatusResult is the bulk approval-status response: the flag for every
// image index the backend knows about, plus the total image count.
type StatusResult struct {
	Statuses types.StatusSet
	Total    int
}

// Statuses fetches the approval status of every image in one call. This is
// the bulk source for Cache.SetAll. JSON object keys arrive as strings and
// are converted back to integer indices; keys that do not parse are dropped.
func (c *Client) Statuses(ctx context.Context) (*StatusResult, error) {
	var payload struct {
		Statuses map[string]bool `json:"statuses"`
		Total    int             `json:"total"`
	}
	if err := c.getJSON(ctx, "/api/shoreline_statuses", &payload); err != nil {
		return nil, err
	}

	out := &StatusResult{
		Statuses: make(types.StatusSet, len(payload.Statuses)),
		Total:    payload.Total,
	}
	for key, approved := range payload.Statuses {
		index, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out.Statuses[index] = approved
	}
	return out, nil
}

// RectifiedImageURL returns the URL of the rectified raster for one image.
func (c *Client) RectifiedImageURL(imageIndex int) string {
	return c.base + "/api/images/rectified/" + strconv.Itoa(imageIndex)
}

// RegisteredOverlayURL returns the URL of the registered image with the
// detected shoreline burned in.
func (c *Client) RegisteredOverlayURL(imageIndex int) string {
	return c.base + "/api/images/registered_with_shoreline/" + strconv.Itoa(imageIndex)
}

// FetchImage downloads a raster by URL. The payload is opaque binary; only
// its decoded pixel dimensions matter to the coordinate transform.
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, types.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", types.ErrBackendStatus, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: get %s: %s", types.ErrBackendStatus, path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: post %s: %s", types.ErrBackendStatus, path, resp.Status)
	}
	return nil
}
