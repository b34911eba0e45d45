package timelog

import (
	"database/sql"
	"time"

	apperrors "focus_tracker/internal/errors"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the session's entries in an in-memory SQLite database.
// Nothing outlives the process.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, apperrors.NewStorageError("open", err)
	}
	// Every pooled connection to :memory: would get its own empty database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("ping", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS log_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at INTEGER NOT NULL,
		status TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT ''
	)
	`
	if _, err := s.db.Exec(query); err != nil {
		return apperrors.NewStorageError("create table", err)
	}
	return nil
}

func (s *SQLiteStore) Append(e *Entry) error {
	result, err := s.db.Exec(
		"INSERT INTO log_entries (recorded_at, status, note) VALUES (?, ?, ?)",
		e.Timestamp.UnixNano(),
		string(e.Status),
		e.Note,
	)
	if err != nil {
		return apperrors.NewStorageError("append", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.NewStorageError("append", err)
	}
	e.Seq = id
	return nil
}

func (s *SQLiteStore) All() ([]Entry, error) {
	rows, err := s.db.Query("SELECT id, recorded_at, status, note FROM log_entries ORDER BY id ASC")
	if err != nil {
		return nil, apperrors.NewStorageError("query", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var recordedAt int64
		var status string
		if err := rows.Scan(&e.Seq, &recordedAt, &status, &e.Note); err != nil {
			return nil, apperrors.NewStorageError("scan", err)
		}
		e.Timestamp = time.Unix(0, recordedAt)
		e.Status = Status(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("query", err)
	}
	return entries, nil
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM log_entries"); err != nil {
		return apperrors.NewStorageError("clear", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
