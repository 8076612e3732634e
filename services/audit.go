package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"traffic-hotspot-api/bundle"
	"traffic-hotspot-api/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createBundleLoads = `
CREATE TABLE IF NOT EXISTS bundle_loads (
	id         BIGSERIAL PRIMARY KEY,
	version    TEXT,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL,
	error      TEXT,
	categories INTEGER NOT NULL DEFAULT 0,
	loaded_at  TIMESTAMPTZ NOT NULL
)`

// LoadAuditor appends bundle load attempts to Postgres.
type LoadAuditor struct {
	pool *pgxpool.Pool
}

func NewLoadAuditor(ctx context.Context, url string) (*LoadAuditor, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("audit pool init: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("audit ping: %w", err)
	}
	if _, err := pool.Exec(ctx, createBundleLoads); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create bundle_loads: %w", err)
	}
	return &LoadAuditor{pool: pool}, nil
}

func (a *LoadAuditor) Record(ctx context.Context, rec models.BundleLoad) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO bundle_loads (version, source, status, error, categories, loaded_at)
		VALUES (NULLIF($1, ''), $2, $3, NULLIF($4, ''), $5, $6)
	`, rec.Version, rec.Source, rec.Status, rec.Error, rec.Categories, rec.LoadedAt)
	return err
}

// Recent returns up to limit load records, newest first.
func (a *LoadAuditor) Recent(ctx context.Context, limit int) ([]models.BundleLoad, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT COALESCE(version, ''), source, status, COALESCE(error, ''), categories, loaded_at
		FROM bundle_loads
		ORDER BY loaded_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BundleLoad
	for rows.Next() {
		var rec models.BundleLoad
		if err := rows.Scan(&rec.Version, &rec.Source, &rec.Status, &rec.Error, &rec.Categories, &rec.LoadedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Observer returns a registry observer that records every load attempt.
func (a *LoadAuditor) Observer() func(bundle.Event) {
	return func(ev bundle.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Record(ctx, BundleLoadFromEvent(ev)); err != nil {
			log.Printf("bundle load audit failed: %v", err)
		}
	}
}

func (a *LoadAuditor) Close() {
	a.pool.Close()
}
