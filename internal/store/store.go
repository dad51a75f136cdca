package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IndexSnapshot is a persisted composite index computation for one
// (year, scheme) pair. Results holds the full per-country composite map as
// JSON so historical snapshots survive engine changes.
type IndexSnapshot struct {
	ID           uuid.UUID       `json:"id"`
	Year         int             `json:"year"`
	Scheme       string          `json:"scheme"`
	CountryCount int             `json:"country_count"`
	Results      json.RawMessage `json:"results"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ValidationRun is a persisted geometry batch validation report.
type ValidationRun struct {
	ID            uuid.UUID       `json:"id"`
	TotalFeatures int             `json:"total_features"`
	ValidFeatures int             `json:"valid_features"`
	ErrorCount    int             `json:"error_count"`
	WarningCount  int             `json:"warning_count"`
	Report        json.RawMessage `json:"report"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Store interface {
	SaveIndexSnapshot(ctx context.Context, snap *IndexSnapshot) error
	LatestIndexSnapshot(ctx context.Context, year int, scheme string) (*IndexSnapshot, error)
	ListIndexSnapshots(ctx context.Context, limit int) ([]*IndexSnapshot, error)

	SaveValidationRun(ctx context.Context, run *ValidationRun) error
	LatestValidationRun(ctx context.Context) (*ValidationRun, error)

	Close() error
}
