// Package sqlite reads records from a SQLite export.
//
// The export holds one record per row in a payload column. Rows are read in
// rowid order, which is insertion order for an append-only export table.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The database is opened read-only.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Defaults for the export layout.
const (
	DefaultTable  = "records"
	DefaultColumn = "payload"
)

// Option configures a Source.
type Option func(*Source)

// WithTable reads from the named table.
func WithTable(table string) Option {
	return func(s *Source) {
		s.table = table
	}
}

// WithColumn reads payloads from the named column.
func WithColumn(column string) Option {
	return func(s *Source) {
		s.column = column
	}
}

// Source reads records from one table of a SQLite database.
type Source struct {
	path   string
	table  string
	column string
}

// New creates a SQLite source for the database at path.
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:   path,
		table:  DefaultTable,
		column: DefaultColumn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Describe returns the database path and table.
func (s *Source) Describe() string {
	return fmt.Sprintf("%s (%s.%s)", s.path, s.table, s.column)
}

// Records reads every payload in rowid order.
// NULL payloads are returned as empty records so the decoder can reject them
// with their row id.
func (s *Source) Records(ctx context.Context) ([]domain.Record, error) {
	if !validIdentifier(s.table) || !validIdentifier(s.column) {
		return nil, fmt.Errorf("%w: invalid table or column name %q.%q", domain.ErrInvalidInput, s.table, s.column)
	}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: database does not exist: %s", domain.ErrInvalidInput, s.path)
		}
		return nil, fmt.Errorf("stat %s: %w", s.path, err)
	}

	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	//nolint:gosec // identifiers are validated above
	query := fmt.Sprintf(`SELECT rowid, %q FROM %q ORDER BY rowid`, s.column, s.table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.table, err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var (
			rowid   int64
			payload []byte
		)
		if err := rows.Scan(&rowid, &payload); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		records = append(records, domain.Record{
			Origin:  fmt.Sprintf("%s#%d", s.path, rowid),
			Payload: payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}

// validIdentifier accepts plain SQL identifiers only.
func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
