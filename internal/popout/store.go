// Package popout owns the lifecycle of detached surfaces: creation through
// a decoy identity, the configuration handoff to the new context, the
// readiness handshake, geometry reconciliation, and pop-in when a surface
// closes.
package popout

import "github.com/dodorz/dockyard/internal/layout"

// Store is the transient keyed handoff between the opener and a freshly
// created surface. The opener puts the subtree in under the surface's
// decoy name; the child context takes it out exactly once while
// bootstrapping. Nothing else may read it, and entries never survive their
// single use.
type Store struct {
	entries map[string]layout.PopoutConfig
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]layout.PopoutConfig)}
}

// Put stages a config under the given key, overwriting any stale entry
// left by a surface that never bootstrapped.
func (s *Store) Put(key string, cfg layout.PopoutConfig) {
	s.entries[key] = cfg
}

// Take removes and returns the config staged under key.
func (s *Store) Take(key string) (layout.PopoutConfig, bool) {
	cfg, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return cfg, ok
}

// Discard drops a staged entry, used when surface creation fails after
// staging.
func (s *Store) Discard(key string) {
	delete(s.entries, key)
}

// Len reports how many entries are staged.
func (s *Store) Len() int { return len(s.entries) }
