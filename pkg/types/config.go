package types

import (
	"errors"
	"time"
)

// Configuration defaults.
const (
	// DefaultBackendURL is the backend the CLI talks to when no override is
	// configured.
	DefaultBackendURL = "http://localhost:5000"

	// DefaultStalenessWindow is the maximum age of a bulk-fetched status
	// snapshot before it is considered outdated and eligible for refresh.
	DefaultStalenessWindow = 5 * time.Minute

	// DefaultControlTarget is the target number of editable control points
	// derived from a dense shoreline trace.
	DefaultControlTarget = 50
)

// Config holds client parameters for the review core.
type Config struct {
	BackendURL      string        `json:"backend_url" yaml:"backend_url"`
	StalenessWindow time.Duration `json:"staleness_window" yaml:"staleness_window"`
	ControlTarget   int           `json:"control_target" yaml:"control_target"`
	JournalDir      string        `json:"journal_dir" yaml:"journal_dir"`
}

// Config validation errors.
var (
	ErrBackendURLEmpty      = errors.New("backend_url must not be empty")
	ErrStalenessInvalid     = errors.New("staleness_window must be positive")
	ErrControlTargetInvalid = errors.New("control_target must be positive")
)

// Default returns a Config populated with the default values.
func Default() Config {
	return Config{
		BackendURL:      DefaultBackendURL,
		StalenessWindow: DefaultStalenessWindow,
		ControlTarget:   DefaultControlTarget,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return ErrBackendURLEmpty
	}
	if c.StalenessWindow <= 0 {
		return ErrStalenessInvalid
	}
	if c.ControlTarget <= 0 {
		return ErrControlTargetInvalid
	}
	return nil
}
