package syncer

import (
	"fmt"
	"os"
)

// Staging is the ephemeral directory one run renders into. It is owned by the
// run and removed exactly once, whichever way the run ends.
type Staging struct {
	root    string
	removed bool
}

// NewStaging wipes dir and recreates it empty.
func NewStaging(dir string) (*Staging, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clearing staging directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating staging directory %s: %w", dir, err)
	}
	return &Staging{root: dir}, nil
}

// Root returns the staging directory path.
func (s *Staging) Root() string { return s.root }

// Removed reports whether Remove has run.
func (s *Staging) Removed() bool { return s.removed }

// Remove deletes the staging tree. Calls after the first are no-ops, so it is
// safe to defer alongside explicit removal.
func (s *Staging) Remove() error {
	if s == nil || s.removed {
		return nil
	}
	s.removed = true
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("removing staging directory %s: %w", s.root, err)
	}
	return nil
}
