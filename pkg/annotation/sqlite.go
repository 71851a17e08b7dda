package annotation

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/pedigree/pkg/chart"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS positions (
	family_id TEXT NOT NULL,
	person_id TEXT NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL,
	PRIMARY KEY (family_id, person_id)
);`

// SQLiteStore keeps annotations in a SQLite database, one row per saved
// position. It requires cgo.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, familyID string) (*Annotations, error) {
	if err := checkFamilyID(familyID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT person_id, x, y FROM positions WHERE family_id = ?`, familyID)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	a := New(familyID)
	for rows.Next() {
		var id string
		var pos chart.Position
		if err := rows.Scan(&id, &pos.X, &pos.Y); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		a.Positions[id] = pos
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	if len(a.Positions) == 0 {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *SQLiteStore) Save(ctx context.Context, familyID string, a *Annotations) error {
	if err := checkFamilyID(familyID); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE family_id = ?`, familyID); err != nil {
		return fmt.Errorf("clear positions: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO positions (family_id, person_id, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, pos := range a.Positions {
		if _, err := stmt.ExecContext(ctx, familyID, id, pos.X, pos.Y); err != nil {
			return fmt.Errorf("insert position %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, familyID string) error {
	if err := checkFamilyID(familyID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM positions WHERE family_id = ?`, familyID); err != nil {
		return fmt.Errorf("delete positions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
