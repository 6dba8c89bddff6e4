package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/apperr"
	"github.com/ibm-appconfiguration/appconfiguration-go-sdk/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		EnvironmentID: "dev",
		Features: map[string]catalog.Feature{
			"f1": {
				ID: "f1", Name: "Feature One", Kind: catalog.Numeric, Enabled: true,
				EnabledValue: catalog.NewRawValue(int64(42)), DisabledValue: catalog.NewRawValue(int64(-42)),
				RolloutPercentage: 100,
			},
		},
		Properties: map[string]catalog.Property{
			"p1": {ID: "p1", Name: "Prop One", Kind: catalog.Numeric, Value: catalog.NewRawValue(int64(7))},
		},
		Segments: map[string]catalog.Segment{},
	}
}

func TestStore_ReadBeforeInstall(t *testing.T) {
	s := NewStore()
	_, err := s.Read()
	if !errors.Is(err, apperr.ErrSnapshotUnavailable) {
		t.Fatalf("expected ErrSnapshotUnavailable, got %v", err)
	}
}

func TestStore_InstallThenRead(t *testing.T) {
	s := NewStore()
	cat := testCatalog()
	s.Install(cat, time.Now())

	got, err := s.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cat {
		t.Fatalf("Read() did not return the installed catalog pointer")
	}
}

func TestStore_FeatureAndPropertyIDs(t *testing.T) {
	s := NewStore()
	s.Install(testCatalog(), time.Now())

	ids, err := s.FeatureIDs()
	if err != nil || len(ids) != 1 || ids[0] != "f1" {
		t.Fatalf("FeatureIDs() = %v, %v", ids, err)
	}
	pids, err := s.PropertyIDs()
	if err != nil || len(pids) != 1 || pids[0] != "p1" {
		t.Fatalf("PropertyIDs() = %v, %v", pids, err)
	}
}

func TestStore_ReplaceIsAtomicAndOldSnapshotUnaffected(t *testing.T) {
	s := NewStore()
	first := testCatalog()
	s.Install(first, time.Now())

	snap, err := NewFeatureSnapshot(first, "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := testCatalog()
	f2 := second.Features["f1"]
	f2.EnabledValue = catalog.NewRawValue(int64(999))
	second.Features["f1"] = f2
	s.Install(second, time.Now())

	result, err := snap.Evaluate("entity-1", mapAttrs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Int64 != 42 {
		t.Fatalf("frozen snapshot should still see old value 42, got %d", result.Int64)
	}

	live, err := s.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if live.Features["f1"].EnabledValue != f2.EnabledValue {
		t.Fatalf("store should reflect the replaced catalog")
	}
}
