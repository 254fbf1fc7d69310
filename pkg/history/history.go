// Package history persists a log of processed assets in a local SQLite
// database.
package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"
)

const timestampFormat = "2006-01-02 15:04:05"

// Entry is one processed-asset record.
type Entry struct {
	ID          int64
	Timestamp   string
	Original    string
	NewName     string
	Title       string
	Description string
	Keywords    string
	Category    string
	OutputPath  string
}

// Store is a SQLite-backed history log. A single mutex guards each
// logical operation; no lock is held across calls.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		filename TEXT,
		new_filename TEXT,
		title TEXT,
		description TEXT,
		keywords TEXT,
		category TEXT,
		output_path TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_new_filename ON history(new_filename);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one entry. The timestamp is set here.
func (s *Store) Record(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO history (timestamp, filename, new_filename, title, description, keywords, category, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Format(timestampFormat),
		e.Original, e.NewName, e.Title, e.Description, e.Keywords, e.Category, e.OutputPath)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.NewName, err)
	}
	klog.V(1).Infof("history: recorded %s", e.NewName)
	return nil
}

// Update rewrites the metadata of an existing entry after regeneration,
// matched by its previous output filename.
func (s *Store) Update(oldNewName string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE history SET new_filename = ?, title = ?, description = ?, keywords = ?, timestamp = ?
		WHERE new_filename = ?`,
		e.NewName, e.Title, e.Description, e.Keywords,
		time.Now().Format(timestampFormat), oldNewName)
	if err != nil {
		return fmt.Errorf("update %s: %w", oldNewName, err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, timestamp, filename, new_filename, title, description, keywords, category, output_path
		FROM history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Paginated returns one page of entries filtered by search (matched
// against filename, title and keywords), plus the total filtered count.
// Pages are 1-based.
func (s *Store) Paginated(page, pageSize int, search string) ([]Entry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 1 {
		page = 1
	}
	like := "%" + search + "%"

	var total int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM history
		WHERE new_filename LIKE ? OR title LIKE ? OR keywords LIKE ?`,
		like, like, like).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, timestamp, filename, new_filename, title, description, keywords, category, output_path
		FROM history
		WHERE new_filename LIKE ? OR title LIKE ? OR keywords LIKE ?
		ORDER BY id DESC LIMIT ? OFFSET ?`,
		like, like, like, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("query page: %w", err)
	}
	defer rows.Close()

	es, err := scanEntries(rows)
	return es, total, err
}

// Clear deletes all history entries.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM history")
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	es := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Original, &e.NewName,
			&e.Title, &e.Description, &e.Keywords, &e.Category, &e.OutputPath); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		es = append(es, e)
	}
	return es, rows.Err()
}
