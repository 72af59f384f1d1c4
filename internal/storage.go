package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTranscriptNotFound is returned when no transcript matches an id
var ErrTranscriptNotFound = errors.New("transcript not found")

// TranscriptSummary is one row of the history listing
type TranscriptSummary struct {
	ID           string
	VideoID      string
	Title        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
}

// HistoryStore persists transcripts in SQLite
type HistoryStore struct {
	db   *sql.DB
	path string
}

// OpenHistory opens the history database at path and ensures its schema
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	store, err := NewHistoryStore(db, path)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewHistoryStore wraps an open database, migrating it first
func NewHistoryStore(db *sql.DB, path string) (*HistoryStore, error) {
	if err := MigrateDatabase(db); err != nil {
		return nil, &StorageError{Path: path, Op: "migrate", Err: err}
	}
	return &HistoryStore{db: db, path: path}, nil
}

// Path returns the database location
func (s *HistoryStore) Path() string {
	return s.path
}

// Close closes the database
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// SaveTranscript inserts or replaces a transcript and all of its messages
func (s *HistoryStore) SaveTranscript(t *Transcript) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Path: s.path, Op: "save", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO transcripts (id, video_id, video_url, api_url, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			video_id = excluded.video_id,
			video_url = excluded.video_url,
			api_url = excluded.api_url,
			title = excluded.title,
			updated_at = excluded.updated_at`,
		t.ID, t.VideoID, t.VideoURL, t.APIURL, t.Metadata.Title,
		t.Metadata.CreatedAt.UnixMilli(), t.Metadata.UpdatedAt.UnixMilli())
	if err != nil {
		return &StorageError{Path: s.path, Op: "save", Err: fmt.Errorf("insert transcript: %w", err)}
	}

	if _, err := tx.Exec("DELETE FROM messages WHERE transcript_id = ?", t.ID); err != nil {
		return &StorageError{Path: s.path, Op: "save", Err: fmt.Errorf("clear messages: %w", err)}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (id, transcript_id, seq, origin, content, synthetic, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &StorageError{Path: s.path, Op: "save", Err: err}
	}
	defer stmt.Close()

	for i, msg := range t.Messages {
		synthetic := 0
		if msg.Synthetic {
			synthetic = 1
		}
		if _, err := stmt.Exec(msg.ID, t.ID, i, string(msg.Origin), msg.Content, synthetic, msg.CreatedAt.UnixMilli()); err != nil {
			return &StorageError{Path: s.path, Op: "save", Err: fmt.Errorf("insert message %d: %w", i, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Path: s.path, Op: "save", Err: err}
	}
	return nil
}

// ListTranscripts returns summaries, most recently updated first.
// A limit of zero or less returns everything.
func (s *HistoryStore) ListTranscripts(limit int) ([]TranscriptSummary, error) {
	query := `
		SELECT t.id, t.video_id, t.title, t.created_at, t.updated_at, COUNT(m.id)
		FROM transcripts t
		LEFT JOIN messages m ON m.transcript_id = t.id
		GROUP BY t.id
		ORDER BY t.updated_at DESC, t.id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "load", Err: fmt.Errorf("query failed: %w", err)}
	}
	defer rows.Close()

	summaries := make([]TranscriptSummary, 0)
	for rows.Next() {
		var sum TranscriptSummary
		var created, updated int64
		if err := rows.Scan(&sum.ID, &sum.VideoID, &sum.Title, &created, &updated, &sum.MessageCount); err != nil {
			return nil, &StorageError{Path: s.path, Op: "load", Err: fmt.Errorf("scan failed: %w", err)}
		}
		sum.CreatedAt = time.UnixMilli(created)
		sum.UpdatedAt = time.UnixMilli(updated)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Path: s.path, Op: "load", Err: fmt.Errorf("rows iteration error: %w", err)}
	}
	return summaries, nil
}

// LoadTranscript loads a transcript by full id or unique id prefix
func (s *HistoryStore) LoadTranscript(id string) (*Transcript, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrTranscriptNotFound
	}

	matches, err := s.findTranscripts(id)
	if err != nil {
		return nil, err
	}

	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %s", ErrTranscriptNotFound, id)
	case len(matches) > 1 && matches[0].ID != id:
		return nil, fmt.Errorf("ambiguous transcript id prefix: %s", id)
	}

	t := matches[0]
	if err := s.loadMessages(t); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadAllTranscripts loads every transcript with its messages, newest first
func (s *HistoryStore) LoadAllTranscripts() ([]*Transcript, error) {
	summaries, err := s.ListTranscripts(0)
	if err != nil {
		return nil, err
	}
	transcripts := make([]*Transcript, 0, len(summaries))
	for _, sum := range summaries {
		t, err := s.LoadTranscript(sum.ID)
		if err != nil {
			LogWarn("Failed to load transcript %s: %v", sum.ID, err)
			continue
		}
		transcripts = append(transcripts, t)
	}
	return transcripts, nil
}

// DeleteTranscript removes a transcript and its messages
func (s *HistoryStore) DeleteTranscript(id string) error {
	res, err := s.db.Exec("DELETE FROM transcripts WHERE id = ?", id)
	if err != nil {
		return &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrTranscriptNotFound, id)
	}
	return nil
}

// findTranscripts returns at most two transcripts matching id exactly or by prefix
func (s *HistoryStore) findTranscripts(id string) ([]*Transcript, error) {
	rows, err := s.db.Query(`
		SELECT id, video_id, video_url, api_url, title, created_at, updated_at
		FROM transcripts WHERE id LIKE ?
		ORDER BY CASE WHEN id = ? THEN 0 ELSE 1 END
		LIMIT 2`, id+"%", id)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "load", Err: err}
	}
	defer rows.Close()

	var matches []*Transcript
	for rows.Next() {
		var t Transcript
		var created, updated int64
		if err := rows.Scan(&t.ID, &t.VideoID, &t.VideoURL, &t.APIURL, &t.Metadata.Title, &created, &updated); err != nil {
			return nil, &StorageError{Path: s.path, Op: "load", Err: err}
		}
		t.Metadata.CreatedAt = time.UnixMilli(created)
		t.Metadata.UpdatedAt = time.UnixMilli(updated)
		matches = append(matches, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Path: s.path, Op: "load", Err: err}
	}
	return matches, nil
}

func (s *HistoryStore) loadMessages(t *Transcript) error {
	rows, err := s.db.Query(`
		SELECT id, origin, content, synthetic, created_at
		FROM messages WHERE transcript_id = ? ORDER BY seq`, t.ID)
	if err != nil {
		return &StorageError{Path: s.path, Op: "load", Err: err}
	}
	defer rows.Close()

	t.Messages = make([]Message, 0)
	for rows.Next() {
		var msg Message
		var origin string
		var synthetic int
		var created int64
		if err := rows.Scan(&msg.ID, &origin, &msg.Content, &synthetic, &created); err != nil {
			return &StorageError{Path: s.path, Op: "load", Err: err}
		}
		msg.Origin = Origin(origin)
		msg.Synthetic = synthetic != 0
		msg.CreatedAt = time.UnixMilli(created)
		t.Messages = append(t.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return &StorageError{Path: s.path, Op: "load", Err: err}
	}
	t.Metadata.MessageCount = len(t.Messages)
	return nil
}
