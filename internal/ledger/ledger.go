// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists conversion attempts in a SQLite database so
// unchanged sources can be skipped and past runs inspected.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/texmark/pkg/types"
)

// DefaultPath is where the CLI keeps the ledger unless configured otherwise.
const DefaultPath = ".texmark/ledger.db"

// ErrNotFound is returned by Latest when a source has no recorded conversion.
var ErrNotFound = errors.New("no conversion recorded")

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path, creating parent directories and
// the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_path TEXT NOT NULL,
			source_sha256 TEXT NOT NULL,
			output_path TEXT,
			backend TEXT,
			status TEXT NOT NULL,
			warnings TEXT,
			error TEXT,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_source ON conversions(source_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends rec to the ledger and sets rec.ID. A zero ConvertedAt is
// stamped with the current time.
func (s *Store) Record(ctx context.Context, rec *types.ConversionRecord) error {
	if rec.ConvertedAt.IsZero() {
		rec.ConvertedAt = time.Now().UTC()
	}
	warnings, err := json.Marshal(rec.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (source_path, source_sha256, output_path, backend, status, warnings, error, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SourcePath, rec.SourceSHA256, rec.OutputPath, string(rec.Backend),
		string(rec.Status), string(warnings), rec.Error,
		rec.ConvertedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", rec.SourcePath, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading conversion id: %w", err)
	}
	rec.ID = id
	return nil
}

// Latest returns the most recent record for source, or ErrNotFound.
func (s *Store) Latest(ctx context.Context, source string) (*types.ConversionRecord, error) {
	recs, err := s.List(ctx, ListOptions{Source: source, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrNotFound)
	}
	return &recs[0], nil
}

// ListOptions filters List and ExportYAML. Zero values mean no filter.
type ListOptions struct {
	Source string
	Status types.ConversionStatus
	Limit  int
}

// List returns matching records, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.ConversionRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Source != "" {
		where = append(where, "source_path = ?")
		args = append(args, opts.Source)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(opts.Status))
	}

	q := `SELECT id, source_path, source_sha256, output_path, backend, status, warnings, error, converted_at
		FROM conversions`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var recs []types.ConversionRecord
	for rows.Next() {
		var (
			rec                                 types.ConversionRecord
			output, backend, warnings, errorMsg sql.NullString
			status, convertedAt                 string
		)
		if err := rows.Scan(&rec.ID, &rec.SourcePath, &rec.SourceSHA256, &output, &backend,
			&status, &warnings, &errorMsg, &convertedAt); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		rec.OutputPath = output.String
		rec.Backend = types.ConversionBackend(backend.String)
		rec.Status = types.ConversionStatus(status)
		rec.Error = errorMsg.String
		if warnings.Valid && warnings.String != "" {
			if err := json.Unmarshal([]byte(warnings.String), &rec.Warnings); err != nil {
				return nil, fmt.Errorf("decoding warnings for conversion %d: %w", rec.ID, err)
			}
		}
		if rec.ConvertedAt, err = time.Parse(time.RFC3339Nano, convertedAt); err != nil {
			return nil, fmt.Errorf("parsing timestamp for conversion %d: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// export is the document written by ExportYAML.
type export struct {
	Conversions []types.ConversionRecord `yaml:"conversions"`
}

// ExportYAML writes the matching records to w as a YAML document.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts ListOptions) error {
	recs, err := s.List(ctx, opts)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []types.ConversionRecord{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(export{Conversions: recs}); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return enc.Close()
}
