package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wenqig/storyboard/backend/internal/snapshot"
)

// slotKey is the fixed key of the single snapshot slot.
const slotKey = "current"

const schema = `
CREATE TABLE IF NOT EXISTS snapshot (
	slot TEXT PRIMARY KEY,
	question TEXT NOT NULL,
	theme TEXT NOT NULL,
	ratio TEXT NOT NULL,
	color_style TEXT NOT NULL,
	saved_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_slide (
	slot TEXT NOT NULL,
	position INTEGER NOT NULL,
	is_question INTEGER NOT NULL,
	caption TEXT NOT NULL,
	image BLOB,
	mime_type TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (slot, position)
);
`

// SQLiteStore implements Store on a local SQLite file. Image bytes live in
// BLOB columns so the snapshot avoids base64 inflation. Access is serialized
// behind a single mutex; the store has one writer by design.
type SQLiteStore struct {
	path string

	mu      sync.Mutex
	db      *sql.DB
	initErr error
	once    sync.Once
}

// NewSQLiteStore creates a store backed by the database file at path. The
// file and schema are created lazily on first access.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) ensureDB() (*sql.DB, error) {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.path)
		if err != nil {
			s.initErr = fmt.Errorf("open snapshot db: %w", err)
			return
		}
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			s.initErr = fmt.Errorf("apply snapshot schema: %w", err)
			return
		}
		s.db = db
	})
	return s.db, s.initErr
}

// Put replaces the stored snapshot with rec.
func (s *SQLiteStore) Put(ctx context.Context, rec *snapshot.Record) error {
	if rec == nil {
		return fmt.Errorf("refusing to store nil snapshot record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.ensureDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if err := clearSlot(ctx, tx); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot (slot, question, theme, ratio, color_style, saved_at) VALUES (?, ?, ?, ?, ?, ?)`,
		slotKey, rec.Question, rec.Theme, rec.Ratio, rec.ColorStyle, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	for i, slide := range rec.Slides {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO snapshot_slide (slot, position, is_question, caption, image, mime_type) VALUES (?, ?, ?, ?, ?, ?)`,
			slotKey, i, slide.IsQuestion, slide.Text, slide.Image, slide.MIMEType)
		if err != nil {
			return fmt.Errorf("insert snapshot slide %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Get loads the stored snapshot, or (nil, nil) when the slot is empty.
func (s *SQLiteStore) Get(ctx context.Context) (*snapshot.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}

	rec := &snapshot.Record{}
	err = db.QueryRowContext(ctx,
		`SELECT question, theme, ratio, color_style FROM snapshot WHERE slot = ?`, slotKey).
		Scan(&rec.Question, &rec.Theme, &rec.Ratio, &rec.ColorStyle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT is_question, caption, image, mime_type FROM snapshot_slide WHERE slot = ? ORDER BY position`, slotKey)
	if err != nil {
		return nil, fmt.Errorf("load snapshot slides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slide snapshot.SlideRecord
		if err := rows.Scan(&slide.IsQuestion, &slide.Text, &slide.Image, &slide.MIMEType); err != nil {
			return nil, fmt.Errorf("scan snapshot slide: %w", err)
		}
		rec.Slides = append(rec.Slides, slide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot slides: %w", err)
	}

	return rec, nil
}

// Clear empties the snapshot slot. Clearing an already empty slot is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.ensureDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear tx: %w", err)
	}
	defer tx.Rollback()

	if err := clearSlot(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Close releases the underlying database handle if one was opened.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func clearSlot(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_slide WHERE slot = ?`, slotKey); err != nil {
		return fmt.Errorf("clear snapshot slides: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot WHERE slot = ?`, slotKey); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
