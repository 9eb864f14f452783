package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/hansli-go/internal/domain"
	"github.com/doeshing/hansli-go/internal/ports"
)

// SQLiteStore persists run history in a SQLite database. When the database
// cannot be opened it degrades to a jsonl FileStore next to it.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) *SQLiteStore {
	fallback := NewFileStore(strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl")
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	store := &SQLiteStore{db: db, path: path, fallback: fallback}
	if err := store.init(); err != nil {
		_ = db.Close()
		return &SQLiteStore{path: path, fallback: fallback}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		command TEXT,
		input TEXT,
		policy TEXT,
		model TEXT,
		success INTEGER,
		attempts INTEGER,
		files_written INTEGER,
		duration_ms INTEGER,
		error TEXT
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.RunRecord) error {
	if s.db == nil {
		return s.fallback.Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO runs
		(id, timestamp, command, input, policy, model, success, attempts, files_written, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		record.Command,
		record.Input,
		record.Policy,
		record.Model,
		boolToInt(record.Success),
		record.Attempts,
		record.FilesWritten,
		record.DurationMS,
		record.Error,
	)
	return err
}

// Records returns history entries newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.RunRecord, error) {
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, timestamp, command, input, policy, model, success, attempts, files_written, duration_ms, error FROM runs")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE command LIKE ? OR input LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY timestamp DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		var ts string
		var success int
		if err := rows.Scan(&rec.ID, &ts, &rec.Command, &rec.Input, &rec.Policy, &rec.Model, &success,
			&rec.Attempts, &rec.FilesWritten, &rec.DurationMS, &rec.Error); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Success = success == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	_, err := s.db.Exec("DELETE FROM runs")
	return err
}

// ExportJSON writes all runs to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	return writeJSONL(dest, records)
}

// Path returns the active storage path.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
