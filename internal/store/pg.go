package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PGStore persists the document as a single JSONB row in Postgres. Same
// whole-document contract as FileStore, for deployments that want a real
// database behind the API.
type PGStore struct {
	db *sql.DB
}

// NewPGStore connects to Postgres and ensures the documents table exists.
func NewPGStore(connString string) (*PGStore, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(context.Background()); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS documents (
			id INT PRIMARY KEY,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return nil, err
	}
	return &PGStore{db: db}, nil
}

// Load reads the document row, seeding it when absent.
func (s *PGStore) Load(ctx context.Context) (*Document, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM documents WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		doc := Seed()
		if err := s.Save(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed document row: %w", err)
	}
	return &doc, nil
}

// Save upserts the single document row.
func (s *PGStore) Save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, doc)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`, data)
	return err
}

// Close closes the underlying connection pool.
func (s *PGStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
