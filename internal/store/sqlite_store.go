package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labdesks/deskbook/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dbPath, err := resolveDBPath(path)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func resolveDBPath(path string) (string, error) {
	abs := filepath.Clean(path)
	if strings.HasSuffix(abs, ".db") {
		if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
			return "", err
		}
		return abs, nil
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", err
	}
	return filepath.Join(abs, "cache.db"), nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS grids (day TEXT PRIMARY KEY, fetched_at TEXT NOT NULL, data BLOB NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_grids_day ON grids(day);",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveGrid(day string, desks []models.Desk) error {
	data, err := json.Marshal(desks)
	if err != nil {
		return err
	}
	fetchedAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.Exec(`INSERT INTO grids (day, fetched_at, data) VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET fetched_at=excluded.fetched_at, data=excluded.data`,
		day, fetchedAt, data)
	return err
}

func (s *SQLiteStore) GetGrid(day string) ([]models.Desk, time.Time, error) {
	var raw []byte
	var fetchedAt string
	err := s.db.QueryRow(`SELECT data, fetched_at FROM grids WHERE day = ?`, day).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var desks []models.Desk
	if err := json.Unmarshal(raw, &desks); err != nil {
		return nil, time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return nil, time.Time{}, err
	}
	return desks, ts, nil
}

func (s *SQLiteStore) PruneBefore(day string) (int, error) {
	// Days sort lexicographically in YYYY-MM-DD form.
	res, err := s.db.Exec(`DELETE FROM grids WHERE day < ?`, day)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
