package store

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMemoryStoreSnapshots(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	missing, err := s.LatestIndexSnapshot(ctx, 2020, "equal")
	if err != nil {
		t.Fatalf("LatestIndexSnapshot failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing snapshot")
	}

	first := &IndexSnapshot{Year: 2020, Scheme: "equal", CountryCount: 2, Results: json.RawMessage(`{"USA":{}}`)}
	if err := s.SaveIndexSnapshot(ctx, first); err != nil {
		t.Fatalf("SaveIndexSnapshot failed: %v", err)
	}
	if first.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("save must assign an id")
	}

	second := &IndexSnapshot{Year: 2020, Scheme: "equal", CountryCount: 3, Results: json.RawMessage(`{}`)}
	if err := s.SaveIndexSnapshot(ctx, second); err != nil {
		t.Fatalf("SaveIndexSnapshot failed: %v", err)
	}

	latest, err := s.LatestIndexSnapshot(ctx, 2020, "equal")
	if err != nil {
		t.Fatalf("LatestIndexSnapshot failed: %v", err)
	}
	if latest == nil || latest.CountryCount != 3 {
		t.Errorf("expected the most recent snapshot, got %+v", latest)
	}

	other, err := s.LatestIndexSnapshot(ctx, 2050, "equal")
	if err != nil {
		t.Fatalf("LatestIndexSnapshot failed: %v", err)
	}
	if other != nil {
		t.Error("snapshot lookup must match year and scheme")
	}

	list, err := s.ListIndexSnapshots(ctx, 10)
	if err != nil {
		t.Fatalf("ListIndexSnapshots failed: %v", err)
	}
	if len(list) != 2 || list[0].CountryCount != 3 {
		t.Errorf("expected newest-first listing, got %+v", list)
	}
}

func TestMemoryStoreValidationRuns(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	missing, err := s.LatestValidationRun(ctx)
	if err != nil {
		t.Fatalf("LatestValidationRun failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil before any run")
	}

	run := &ValidationRun{TotalFeatures: 5, ValidFeatures: 4, ErrorCount: 1, Report: json.RawMessage(`{}`)}
	if err := s.SaveValidationRun(ctx, run); err != nil {
		t.Fatalf("SaveValidationRun failed: %v", err)
	}

	latest, err := s.LatestValidationRun(ctx)
	if err != nil {
		t.Fatalf("LatestValidationRun failed: %v", err)
	}
	if latest == nil || latest.TotalFeatures != 5 {
		t.Errorf("expected saved run, got %+v", latest)
	}
}
