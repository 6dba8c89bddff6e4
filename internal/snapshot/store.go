// Package snapshot holds the single shared mutable resource in this SDK:
// an atomically-swapped pointer to the currently installed catalog. Install
// never blocks a concurrent Read, and network I/O always happens before
// Install is called, never while holding any shared state.
package snapshot

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/catalog"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/telemetry"
)

// Store is a lock-free holder for the currently installed catalog. The
// zero value is empty; Read on an empty Store returns ErrSnapshotUnavailable.
type Store struct {
	ptr        atomic.Pointer[catalog.Catalog]
	installed  atomic.Int64 // unix nanos of last successful Install, 0 if never installed
}

// NewStore returns an empty store with no catalog installed yet.
func NewStore() *Store {
	return &Store{}
}

// Install atomically replaces the current catalog. It never blocks readers:
// a Read in flight keeps observing the catalog pointer it already loaded.
func (s *Store) Install(cat *catalog.Catalog, installedAt time.Time) {
	s.ptr.Store(cat)
	s.installed.Store(installedAt.UnixNano())
	telemetry.CatalogInstalls.WithLabelValues(cat.EnvironmentID).Inc()
	log.Printf("[snapshot] installed: environment=%s features=%d properties=%d segments=%d",
		cat.EnvironmentID, len(cat.Features), len(cat.Properties), len(cat.Segments))
}

// Read returns the currently installed catalog, or ErrSnapshotUnavailable
// if none has been installed yet.
func (s *Store) Read() (*catalog.Catalog, error) {
	cat := s.ptr.Load()
	if cat == nil {
		return nil, apperr.ErrSnapshotUnavailable
	}
	return cat, nil
}

// InstalledAt reports when the current catalog was installed, and whether
// any catalog has ever been installed.
func (s *Store) InstalledAt() (time.Time, bool) {
	nanos := s.installed.Load()
	if nanos == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, nanos), true
}

// FeatureIDs returns the unordered set of feature ids in the current
// catalog, or ErrSnapshotUnavailable if none has been installed yet.
func (s *Store) FeatureIDs() ([]string, error) {
	cat, err := s.Read()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cat.Features))
	for id := range cat.Features {
		ids = append(ids, id)
	}
	return ids, nil
}

// PropertyIDs returns the unordered set of property ids in the current
// catalog, or ErrSnapshotUnavailable if none has been installed yet.
func (s *Store) PropertyIDs() ([]string, error) {
	cat, err := s.Read()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cat.Properties))
	for id := range cat.Properties {
		ids = append(ids, id)
	}
	return ids, nil
}
