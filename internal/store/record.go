package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/salewski/sourcegraph--cody/internal/query"
	"github.com/salewski/sourcegraph--cody/internal/querytext"
)

// PrepareRecord is one row of the prepare log.
type PrepareRecord struct {
	// Seq is the insertion-order logical clock. Never wall-clock.
	Seq int64

	// ID is a UUIDv7 assigned at insert time.
	ID string

	// QueryName names the catalog query that was serialized.
	QueryName string

	// TargetVersion is the server version the query was prepared for.
	TargetVersion string

	// Text is the emitted wire document, nil for degenerate documents.
	Text *string

	// Formals are the renamed formal declarations.
	Formals []query.Formal

	// DefaultsCount is the number of backfill instructions recorded.
	DefaultsCount int

	// ContentHash is the content-addressed identity of this outcome.
	ContentHash string
}

// RecordPrepare inserts a prepare outcome into the log.
// Returns the record and whether a new row was inserted; an outcome with
// a content hash already present in the log is silently deduplicated
// (inserted=false) and the stored record returned.
func (s *Store) RecordPrepare(ctx context.Context, queryName, targetVersion string, p *querytext.PreparedQuery) (PrepareRecord, bool, error) {
	hash, err := querytext.ContentHash(queryName, targetVersion, p)
	if err != nil {
		return PrepareRecord{}, false, fmt.Errorf("record prepare: %w", err)
	}

	formalsJSON, err := marshalFormals(p.Formals)
	if err != nil {
		return PrepareRecord{}, false, fmt.Errorf("record prepare: %w", err)
	}

	rec := PrepareRecord{
		ID:            uuid.Must(uuid.NewV7()).String(),
		QueryName:     queryName,
		TargetVersion: targetVersion,
		Text:          p.Text,
		Formals:       p.Formals,
		DefaultsCount: len(p.Defaults),
		ContentHash:   hash,
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO prepare_log
		(id, query_name, target_version, text, formals, defaults_count, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING
	`,
		rec.ID,
		rec.QueryName,
		rec.TargetVersion,
		nullableText(rec.Text),
		formalsJSON,
		rec.DefaultsCount,
		rec.ContentHash,
	)
	if err != nil {
		return PrepareRecord{}, false, fmt.Errorf("record prepare: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return PrepareRecord{}, false, fmt.Errorf("record prepare: %w", err)
	}
	if affected == 0 {
		// Deduplicated; return the stored record.
		existing, err := s.readByHash(ctx, hash)
		if err != nil {
			return PrepareRecord{}, false, err
		}
		return existing, false, nil
	}

	stored, err := s.readByHash(ctx, hash)
	if err != nil {
		return PrepareRecord{}, false, err
	}
	return stored, true, nil
}

// ListByQuery returns all log records for a query name with
// deterministic ordering: seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) when no records exist.
func (s *Store) ListByQuery(ctx context.Context, queryName string) ([]PrepareRecord, error) {
	return s.list(ctx, `
		SELECT seq, id, query_name, target_version, text, formals, defaults_count, content_hash
		FROM prepare_log
		WHERE query_name = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, queryName)
}

// ListAll returns every log record with deterministic ordering.
func (s *Store) ListAll(ctx context.Context) ([]PrepareRecord, error) {
	return s.list(ctx, `
		SELECT seq, id, query_name, target_version, text, formals, defaults_count, content_hash
		FROM prepare_log
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

func (s *Store) list(ctx context.Context, q string, args ...any) ([]PrepareRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query prepare_log: %w", err)
	}
	defer rows.Close()

	records := []PrepareRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prepare_log: %w", err)
	}

	return records, nil
}

func (s *Store) readByHash(ctx context.Context, hash string) (PrepareRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, query_name, target_version, text, formals, defaults_count, content_hash
		FROM prepare_log
		WHERE content_hash = ?
	`, hash)
	return scanRecord(row)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (PrepareRecord, error) {
	var rec PrepareRecord
	var text *string
	var formalsJSON string

	if err := row.Scan(&rec.Seq, &rec.ID, &rec.QueryName, &rec.TargetVersion, &text, &formalsJSON, &rec.DefaultsCount, &rec.ContentHash); err != nil {
		return rec, fmt.Errorf("scan prepare_log row: %w", err)
	}

	rec.Text = text
	formals, err := unmarshalFormals(formalsJSON)
	if err != nil {
		return rec, err
	}
	rec.Formals = formals

	return rec, nil
}

// formalRow is the stored JSON shape of one formal declaration.
type formalRow struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func marshalFormals(formals []query.Formal) (string, error) {
	rows := make([]formalRow, len(formals))
	for i, f := range formals {
		rows[i] = formalRow{Name: f.Name, Type: string(f.Type)}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("marshal formals: %w", err)
	}
	return string(data), nil
}

func unmarshalFormals(data string) ([]query.Formal, error) {
	var rows []formalRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("unmarshal formals: %w", err)
	}
	formals := make([]query.Formal, len(rows))
	for i, r := range rows {
		formals[i] = query.Formal{Name: r.Name, Type: query.TypeTag(r.Type)}
	}
	return formals, nil
}

// nullableText converts *string to a driver-friendly value where nil
// maps to SQL NULL.
func nullableText(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
