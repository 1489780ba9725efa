package infrastructure

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"umb_panel/internal/entities"

	_ "modernc.org/sqlite"
)

// SessionStore persists operator sessions so a panel restart does not log
// everyone out. It is the single owner of the "credential present ⇔
// authenticated" invariant: login writes here, logout and 401 handling
// delete here, everything else only reads.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(path string) (*SessionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// modernc sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		profile    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session db: %w", err)
	}
	return &SessionStore{db: db}, nil
}

func (s *SessionStore) Save(sess *entities.Session) error {
	profile, err := json.Marshal(sess.Profile)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO sessions (id, token, profile, created_at) VALUES (?, ?, ?, ?)",
		sess.ID, sess.Token, string(profile), sess.CreatedAt.UTC())
	return err
}

// Get returns nil, nil when no session exists for the id.
func (s *SessionStore) Get(id string) (*entities.Session, error) {
	var (
		sess    entities.Session
		profile string
		created time.Time
	)
	err := s.db.QueryRow(
		"SELECT id, token, profile, created_at FROM sessions WHERE id = ?", id).
		Scan(&sess.ID, &sess.Token, &profile, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(profile), &sess.Profile); err != nil {
		return nil, fmt.Errorf("corrupt session profile: %w", err)
	}
	sess.CreatedAt = created
	return &sess, nil
}

// Delete is idempotent; clearing an already-cleared session is a no-op.
func (s *SessionStore) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}
