package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const layoutVersion = 1

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.layoutPath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked"
	// when the TUI and a CLI invocation touch the same workspace.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateLayout(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateLayout(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			section_idx INTEGER NOT NULL,
			position INTEGER NOT NULL,
			payload TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (section_idx, position)
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// LoadLayout returns the persisted section payloads. ok is false when nothing was saved yet.
func (s Store) LoadLayout(ctx context.Context) (sections [][]string, ok bool, err error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, false, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "sections").Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return nil, false, fmt.Errorf("layout: invalid section count %q", raw)
	}

	sections = make([][]string, n)
	for i := range sections {
		sections[i] = []string{}
	}

	rows, err := db.QueryContext(ctx, `SELECT section_idx, payload FROM items ORDER BY section_idx, position`)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var sec int
		var payload string
		if err := rows.Scan(&sec, &payload); err != nil {
			return nil, false, err
		}
		if sec < 0 || sec >= n {
			return nil, false, fmt.Errorf("layout: item in unknown section %d (have %d)", sec, n)
		}
		sections[sec] = append(sections[sec], payload)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return sections, true, nil
}

// SaveLayout replaces the persisted layout with sections in one transaction.
func (s Store) SaveLayout(ctx context.Context, sections [][]string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		"version":  strconv.Itoa(layoutVersion),
		"sections": strconv.Itoa(len(sections)),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	// Replace-all: boards are small and a move touches positions across two sections anyway.
	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for si, sec := range sections {
		for pos, payload := range sec {
			if _, err := tx.ExecContext(ctx, `INSERT INTO items(section_idx, position, payload, updated_at_unixms) VALUES(?, ?, ?, ?)`,
				si, pos, payload, nowMs); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
