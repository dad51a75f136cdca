package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveIndexSnapshot(ctx context.Context, snap *IndexSnapshot) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO atlas_index_snapshots (year, scheme, country_count, results)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		snap.Year, snap.Scheme, snap.CountryCount, snap.Results,
	).Scan(&snap.ID, &snap.CreatedAt)
}

func (s *PostgresStore) LatestIndexSnapshot(ctx context.Context, year int, scheme string) (*IndexSnapshot, error) {
	snap := &IndexSnapshot{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, year, scheme, country_count, results, created_at
		FROM atlas_index_snapshots
		WHERE year = $1 AND scheme = $2
		ORDER BY created_at DESC
		LIMIT 1`, year, scheme,
	).Scan(&snap.ID, &snap.Year, &snap.Scheme, &snap.CountryCount, &snap.Results, &snap.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *PostgresStore) ListIndexSnapshots(ctx context.Context, limit int) ([]*IndexSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, year, scheme, country_count, results, created_at
		FROM atlas_index_snapshots
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*IndexSnapshot
	for rows.Next() {
		snap := &IndexSnapshot{}
		if err := rows.Scan(&snap.ID, &snap.Year, &snap.Scheme, &snap.CountryCount, &snap.Results, &snap.CreatedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (s *PostgresStore) SaveValidationRun(ctx context.Context, run *ValidationRun) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO atlas_validation_runs (total_features, valid_features, error_count, warning_count, report)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		run.TotalFeatures, run.ValidFeatures, run.ErrorCount, run.WarningCount, run.Report,
	).Scan(&run.ID, &run.CreatedAt)
}

func (s *PostgresStore) LatestValidationRun(ctx context.Context) (*ValidationRun, error) {
	run := &ValidationRun{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, total_features, valid_features, error_count, warning_count, report, created_at
		FROM atlas_validation_runs
		ORDER BY created_at DESC
		LIMIT 1`,
	).Scan(&run.ID, &run.TotalFeatures, &run.ValidFeatures, &run.ErrorCount, &run.WarningCount, &run.Report, &run.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}
