package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SQLiteStore implements Store on a local SQLite database, one row per
// document with the fields held as a JSON blob. It is the development and
// self-hosted backend; Firestore is the hosted one.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore and ensures the table exists.
// PRE: db is a valid, open database connection
// POST: documents table exists; store is ready for use
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	_, err := db.ExecContext(context.Background(), `CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		fields TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	)`)
	if err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// List returns all documents in a collection, ordered by the named JSON field
// descending when orderByDesc is non-empty.
// PRE: orderByDesc names a top-level field holding an RFC3339 timestamp
// POST: returns the documents or ErrUnavailable
func (s *SQLiteStore) List(ctx context.Context, collection, orderByDesc string) ([]Document, error) {
	query := `SELECT id, fields FROM documents WHERE collection = ?`
	args := []any{collection}
	if orderByDesc != "" {
		query += ` ORDER BY json_extract(fields, '$.' || ?) DESC`
		args = append(args, orderByDesc)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()
	var docs []Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		fields := make(map[string]any)
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		docs = append(docs, Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return docs, nil
}

// Create stores a new document under a fresh UUID.
// PRE: fields marshals to JSON (times are encoded as RFC3339)
// POST: document is persisted; returns its assigned ID
func (s *SQLiteStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	id := uuid.New().String()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, fields) VALUES (?, ?, ?)`,
		collection, id, string(raw),
	); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id, nil
}

// Update merges fields into an existing document via json_patch.
// PRE: id was assigned by Create
// POST: returns ErrNotFound if the ID does not resolve, ErrUnavailable on
// transport failure
func (s *SQLiteStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET fields = json_patch(fields, ?) WHERE collection = ? AND id = ?`,
		string(raw), collection, id,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document; deleting an absent ID succeeds.
// PRE: none
// POST: document with the given ID is absent
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id,
	); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
