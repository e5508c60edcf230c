package model

import (
	"errors"
	"sync/atomic"
)

// Provider holds the current model snapshot behind an atomic pointer.
// Reload swaps in a freshly validated Parameters value; in-flight
// simulations keep the snapshot they started with and never observe a
// partially updated model. The load note is swapped the same way, so
// status reads racing a reload see either the old note or the new one,
// never a torn write.
type Provider struct {
	path    string
	current atomic.Pointer[Parameters]

	// loadNote records the outcome of the most recent load so the engine
	// can surface "model unavailable" without re-probing disk on every
	// request.
	loadNote atomic.Pointer[string]
}

// NewProvider loads the artifact at path, if any. A missing artifact is
// recorded, not returned as an error; any other load failure is fatal so
// corruption is visible at startup.
func NewProvider(path string) (*Provider, error) {
	p := &Provider{path: path}

	if path == "" {
		p.setNote("no model artifact configured; heuristic propagator in use")
		return p, nil
	}

	params, err := LoadParameters(path)
	if err != nil {
		if errors.Is(err, ErrNoArtifact) {
			p.setNote("model artifact not found; heuristic propagator in use")
			return p, nil
		}
		return nil, err
	}

	p.current.Store(params)
	return p, nil
}

// Path returns the configured artifact path, empty when none.
func (p *Provider) Path() string {
	if p == nil {
		return ""
	}
	return p.path
}

// Snapshot returns the current model parameters, or nil when no model is
// available.
func (p *Provider) Snapshot() *Parameters {
	if p == nil {
		return nil
	}
	return p.current.Load()
}

// LoadNote returns the note recorded at the most recent load, empty when
// a model loaded successfully.
func (p *Provider) LoadNote() string {
	if p == nil {
		return "no model artifact configured; heuristic propagator in use"
	}
	if n := p.loadNote.Load(); n != nil {
		return *n
	}
	return ""
}

func (p *Provider) setNote(note string) {
	p.loadNote.Store(&note)
}

// Reload re-reads the artifact and atomically swaps the snapshot. Used
// when a newly trained model lands while the process is running. On any
// failure the previous snapshot stays in place.
func (p *Provider) Reload() error {
	if p.path == "" {
		return ErrNoArtifact
	}
	params, err := LoadParameters(p.path)
	if err != nil {
		return err
	}
	p.current.Store(params)
	p.setNote("")
	return nil
}
