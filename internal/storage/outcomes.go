// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists upload outcomes in a local SQLite database so
// the results history survives restarts.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/docchat-tui/internal/uploader"
)

const schema = `
CREATE TABLE IF NOT EXISTS upload_outcomes (
	id           TEXT PRIMARY KEY,
	batch_seq    INTEGER NOT NULL,
	filename     TEXT NOT NULL,
	content_type TEXT NOT NULL,
	size_bytes   INTEGER NOT NULL,
	chunks       INTEGER NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	uploaded_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_upload_outcomes_batch
	ON upload_outcomes (batch_seq DESC);
`

// =============================================================================
// OUTCOME STORE
// =============================================================================

// OutcomeStore is a SQLite-backed upload results log. Batches are stored
// with a monotonically increasing sequence number so the newest batch can
// be read back first with its internal order intact.
//
// The store is safe for concurrent use; database/sql serializes access.
type OutcomeStore struct {
	db *sql.DB
}

// Open opens (or creates) the outcome database at the given path.
func Open(path string) (*OutcomeStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open outcome db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init outcome schema: %w", err)
	}

	return &OutcomeStore{db: db}, nil
}

// Close closes the underlying database.
func (s *OutcomeStore) Close() error {
	return s.db.Close()
}

// SaveBatch stores one batch of outcomes. The whole batch shares a
// sequence number one higher than any stored before it.
func (s *OutcomeStore) SaveBatch(outcomes []uploader.Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin outcome tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(batch_seq), 0) + 1 FROM upload_outcomes`).Scan(&seq); err != nil {
		return fmt.Errorf("next batch seq: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO upload_outcomes
			(id, batch_seq, filename, content_type, size_bytes, chunks, error, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		_, err := stmt.Exec(
			o.ID, seq, o.Filename, o.ContentType, o.SizeBytes,
			o.Chunks, o.Err, o.UploadedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.Filename, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit outcomes, newest batch first, preserving the
// order within each batch. limit <= 0 returns everything.
func (s *OutcomeStore) Recent(limit int) ([]uploader.Outcome, error) {
	query := `
		SELECT id, filename, content_type, size_bytes, chunks, error, uploaded_at
		FROM upload_outcomes
		ORDER BY batch_seq DESC, rowid ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []uploader.Outcome
	for rows.Next() {
		var o uploader.Outcome
		var uploadedAt string
		if err := rows.Scan(&o.ID, &o.Filename, &o.ContentType, &o.SizeBytes, &o.Chunks, &o.Err, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, uploadedAt); err == nil {
			o.UploadedAt = ts
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Count returns the number of stored outcomes.
func (s *OutcomeStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM upload_outcomes`).Scan(&n)
	return n, err
}
