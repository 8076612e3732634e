package bundle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps artifacts as blobs in a single SQLite table so a bundle
// can ship as one file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS artifacts (
			name        TEXT PRIMARY KEY,
			body        BLOB NOT NULL,
			updated_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create artifacts table: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM artifacts WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrArtifactNotFound)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetAll reads names inside one read transaction, so a concurrent PutAll is
// seen either entirely or not at all.
func (s *SQLiteStore) GetAll(ctx context.Context, names []string) (map[string][]byte, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := make(map[string][]byte, len(names))
	for _, name := range names {
		var body []byte
		err := tx.QueryRowContext(ctx, `SELECT body FROM artifacts WHERE name = ?`, name).Scan(&body)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", name, err)
		}
		out[name] = body
	}
	return out, tx.Commit()
}

// PutAll writes every artifact in one transaction, so readers never see a
// mix of old and new units.
func (s *SQLiteStore) PutAll(ctx context.Context, artifacts map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for name, body := range artifacts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO artifacts (name, body, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
		`, name, body, now)
		if err != nil {
			return fmt.Errorf("put %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Describe() string {
	return "sqlite:" + s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
