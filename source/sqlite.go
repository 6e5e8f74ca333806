package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/jacentio/lattice/engine"
)

// SQLite pages rows out of a local SQLite table using keyset pagination
// (WHERE id > cursor ORDER BY id), so each fetch reads only one page. Rows
// are served in id order.
type SQLite struct {
	db       *sql.DB
	table    string
	pageSize int
}

// OpenSQLite opens the database at path and pages rows from table.
func OpenSQLite(path, table string, pageSize int) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewSQLite(db, table, pageSize), nil
}

// NewSQLite wraps an existing database handle. A pageSize <= 0 falls back to
// DefaultPageSize.
func NewSQLite(db *sql.DB, table string, pageSize int) *SQLite {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SQLite{db: db, table: table, pageSize: pageSize}
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// FetchPage implements engine.DataSource. The cursor is the id of the last
// row of the previous page. When the total row count is an exact multiple of
// the page size, the final continuation yields one empty page before
// exhaustion; the engine treats that as a normal terminal page.
func (s *SQLite) FetchPage(ctx context.Context, cursor engine.Cursor) (engine.Page, error) {
	query := fmt.Sprintf(
		`SELECT id, name, address, language, version, state, created_date FROM %q WHERE id > ? ORDER BY id LIMIT ?`,
		s.table,
	)

	rows, err := s.db.QueryContext(ctx, query, string(cursor), s.pageSize)
	if err != nil {
		return engine.Page{}, fmt.Errorf("query page after %q: %w", cursor, err)
	}
	defer rows.Close()

	var page engine.Page
	for rows.Next() {
		var r engine.Row
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.Language, &r.Version, &r.State, &r.CreatedDate); err != nil {
			return engine.Page{}, fmt.Errorf("scan row: %w", err)
		}
		page.Rows = append(page.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return engine.Page{}, fmt.Errorf("read page: %w", err)
	}

	if len(page.Rows) == s.pageSize {
		page.Next = engine.Cursor(page.Rows[len(page.Rows)-1].ID)
	}
	return page, nil
}

// CreateTable creates the row table used by SQLite sources.
func CreateTable(ctx context.Context, db *sql.DB, table string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			version TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			created_date TEXT NOT NULL DEFAULT ''
		)`, table))
	if err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// InsertRows batch-inserts rows into table inside one transaction.
func InsertRows(ctx context.Context, db *sql.DB, table string, rows []engine.Row) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %q (id, name, address, language, version, state, created_date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		table,
	))
	if err != nil {
		tx.Rollback()
		return err
	}
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Address, r.Language, r.Version, r.State, r.CreatedDate); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("insert row %s: %w", r.ID, err)
		}
	}
	stmt.Close()
	return tx.Commit()
}
