// Package sqlite persists sessions in a single SQLite database, for users
// who prefer one file over a directory of JSON documents.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/strandkit/strand"
	_ "modernc.org/sqlite"
)

// Interface compliance check.
var _ strand.SessionStore = (*Store)(nil)

// Store implements [strand.SessionStore] on SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the database at path and ensures
// required tables exist.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(pctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	db.SetMaxOpenConns(1)

	if err := bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id            TEXT PRIMARY KEY,
			system_prompt TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMP NOT NULL,
			updated_at    TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq        INTEGER NOT NULL,
			role       TEXT NOT NULL,
			text       TEXT NOT NULL DEFAULT '',
			outcome    TEXT NOT NULL DEFAULT '',
			detail     TEXT NOT NULL DEFAULT '',
			timestamp  TIMESTAMP NOT NULL,
			PRIMARY KEY (session_id, seq)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

// Load reads the session with the given ID.
func (s *Store) Load(ctx context.Context, id string) (strand.Session, error) {
	var sess strand.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, system_prompt, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.SystemPrompt, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return strand.Session{}, strand.ErrSessionNotFound
	}
	if err != nil {
		return strand.Session{}, fmt.Errorf("load session: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, text, outcome, detail, timestamp FROM messages WHERE session_id = ? ORDER BY seq`, id)
	if err != nil {
		return strand.Session{}, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role, text, outcome, detail string
		var ts time.Time
		if err := rows.Scan(&role, &text, &outcome, &detail, &ts); err != nil {
			return strand.Session{}, fmt.Errorf("scan message: %w", err)
		}
		msg, err := toMessage(role, text, outcome, detail, ts)
		if err != nil {
			return strand.Session{}, err
		}
		sess.Messages = append(sess.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return strand.Session{}, fmt.Errorf("iterate messages: %w", err)
	}
	return sess, nil
}

// Save writes the session and all its messages in one transaction,
// replacing any previous state for the same ID.
func (s *Store) Save(ctx context.Context, sess strand.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session id is empty")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, system_prompt, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET system_prompt = excluded.system_prompt, updated_at = excluded.updated_at`,
		sess.ID, sess.SystemPrompt, sess.CreatedAt, sess.UpdatedAt); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sess.ID); err != nil {
		return fmt.Errorf("clear old messages: %w", err)
	}

	for i, msg := range sess.Messages {
		role, text, outcome, detail, ts, err := fromMessage(msg)
		if err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, seq, role, text, outcome, detail, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sess.ID, i, role, text, outcome, detail, ts); err != nil {
			return fmt.Errorf("insert message %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Clear removes the session and its messages. Clearing a missing session is
// not an error.
func (s *Store) Clear(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func fromMessage(msg strand.Message) (role, text, outcome, detail string, ts time.Time, err error) {
	switch m := msg.(type) {
	case strand.UserMessage:
		return string(strand.RoleUser), m.Text, "", "", m.Timestamp, nil
	case strand.AssistantMessage:
		return string(strand.RoleAssistant), m.Text, string(m.Outcome), m.Detail, m.Timestamp, nil
	default:
		return "", "", "", "", time.Time{}, fmt.Errorf("unknown message type %T", msg)
	}
}

func toMessage(role, text, outcome, detail string, ts time.Time) (strand.Message, error) {
	switch strand.Role(role) {
	case strand.RoleUser:
		return strand.UserMessage{Text: text, Timestamp: ts}, nil
	case strand.RoleAssistant:
		return strand.AssistantMessage{
			Text:      text,
			Outcome:   strand.Outcome(outcome),
			Detail:    detail,
			Timestamp: ts,
		}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}
