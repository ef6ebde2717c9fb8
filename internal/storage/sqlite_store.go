package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/oneword/internal/migration"
	"github.com/julianstephens/oneword/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		defaults := Settings{DefaultRevealTime: "21:00"}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'oneword init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.newRunner().ValidateVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) newRunner() *migration.Runner {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// The embedded tree always contains the migrations directory.
		panic(err)
	}
	return migration.NewRunner(s.db, sub)
}

func (s *SQLiteStore) runMigrations() error {
	_, err := s.newRunner().Apply()
	return err
}

// ValidateSchemaVersion checks the database against the bundled migrations.
func (s *SQLiteStore) ValidateSchemaVersion() error {
	if s.db == nil {
		return ErrNotLoaded
	}
	return s.newRunner().ValidateVersion()
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	if s.db == nil {
		return Settings{}, ErrNotLoaded
	}

	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	settings := Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "me_id":
			settings.MeID = value
		case "default_reveal_time":
			settings.DefaultRevealTime = value
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return Settings{}, err
	}

	if count == 0 {
		return Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("me_id", settings.MeID); err != nil {
		return err
	}
	if _, err := stmt.Exec("default_reveal_time", settings.DefaultRevealTime); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) SaveParticipant(p models.Participant) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO participants (id, name, timezone, created_at)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Timezone, p.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) GetParticipant(id string) (models.Participant, error) {
	if s.db == nil {
		return models.Participant{}, ErrNotLoaded
	}

	row := s.db.QueryRow("SELECT id, name, timezone, created_at FROM participants WHERE id = ?", id)
	return scanParticipant(row)
}

func (s *SQLiteStore) GetAllParticipants() ([]models.Participant, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}

	rows, err := s.db.Query("SELECT id, name, timezone, created_at FROM participants ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipant(row rowScanner) (models.Participant, error) {
	var p models.Participant
	var createdAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Timezone, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Participant{}, ErrNotFound
		}
		return models.Participant{}, err
	}
	p.CreatedAt = parseTimestamp(createdAt)
	return p, nil
}

func (s *SQLiteStore) AddConnection(c models.Connection) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	_, err := s.db.Exec(`
		INSERT INTO connections (id, a, b, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.A, c.B, c.CreatedAt.UTC().Format(time.RFC3339),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *SQLiteStore) GetConnection(id string) (models.Connection, error) {
	if s.db == nil {
		return models.Connection{}, ErrNotLoaded
	}

	row := s.db.QueryRow("SELECT id, a, b, created_at FROM connections WHERE id = ?", id)
	return scanConnection(row)
}

func (s *SQLiteStore) GetConnectionsFor(participantID string) ([]models.Connection, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}

	rows, err := s.db.Query(
		"SELECT id, a, b, created_at FROM connections WHERE a = ? OR b = ? ORDER BY created_at",
		participantID, participantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var connections []models.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		connections = append(connections, c)
	}
	return connections, rows.Err()
}

func (s *SQLiteStore) FindConnection(a, b string) (models.Connection, error) {
	if s.db == nil {
		return models.Connection{}, ErrNotLoaded
	}

	row := s.db.QueryRow(
		"SELECT id, a, b, created_at FROM connections WHERE (a = ? AND b = ?) OR (a = ? AND b = ?)",
		a, b, b, a,
	)
	return scanConnection(row)
}

func scanConnection(row rowScanner) (models.Connection, error) {
	var c models.Connection
	var createdAt string
	if err := row.Scan(&c.ID, &c.A, &c.B, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Connection{}, ErrNotFound
		}
		return models.Connection{}, err
	}
	c.CreatedAt = parseTimestamp(createdAt)
	return c, nil
}

func (s *SQLiteStore) InsertWord(w models.Word) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	var revealTime sql.NullString
	if w.RevealTime != nil {
		revealTime = sql.NullString{String: w.RevealTime.UTC().Format(time.RFC3339), Valid: true}
	}

	// The UNIQUE(sender_id, receiver_id, date_local) constraint is the
	// authoritative one-word-per-day check; two racing inserts cannot both
	// succeed.
	_, err := s.db.Exec(`
		INSERT INTO words (id, sender_id, receiver_id, date_local, text, reveal, reveal_time, burn_if_unread, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.SenderID, w.ReceiverID, w.DateLocal, w.Text, string(w.Reveal),
		revealTime, w.BurnIfUnread, w.CreatedAt.UTC().Format(time.RFC3339),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *SQLiteStore) GetWord(id string) (models.Word, error) {
	if s.db == nil {
		return models.Word{}, ErrNotLoaded
	}

	row := s.db.QueryRow(`
		SELECT id, sender_id, receiver_id, date_local, text, reveal, reveal_time, burn_if_unread, created_at
		FROM words WHERE id = ?`, id)
	return scanWord(row)
}

func (s *SQLiteStore) QueryWord(senderID, receiverID, dateLocal string) (models.Word, error) {
	if s.db == nil {
		return models.Word{}, ErrNotLoaded
	}

	row := s.db.QueryRow(`
		SELECT id, sender_id, receiver_id, date_local, text, reveal, reveal_time, burn_if_unread, created_at
		FROM words WHERE sender_id = ? AND receiver_id = ? AND date_local = ?`,
		senderID, receiverID, dateLocal)
	return scanWord(row)
}

func (s *SQLiteStore) WordsForDay(dateLocal string) ([]models.Word, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}

	rows, err := s.db.Query(`
		SELECT id, sender_id, receiver_id, date_local, text, reveal, reveal_time, burn_if_unread, created_at
		FROM words WHERE date_local = ? ORDER BY created_at`, dateLocal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (s *SQLiteStore) DeleteWord(id string) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	res, err := s.db.Exec("DELETE FROM words WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanWord(row rowScanner) (models.Word, error) {
	var w models.Word
	var reveal, createdAt string
	var revealTime sql.NullString
	if err := row.Scan(&w.ID, &w.SenderID, &w.ReceiverID, &w.DateLocal, &w.Text, &reveal, &revealTime, &w.BurnIfUnread, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Word{}, ErrNotFound
		}
		return models.Word{}, err
	}

	policy, err := models.ParseRevealPolicy(reveal)
	if err != nil {
		return models.Word{}, fmt.Errorf("word %s: %w", w.ID, err)
	}
	w.Reveal = policy

	if revealTime.Valid {
		t := parseTimestamp(revealTime.String)
		w.RevealTime = &t
	}
	w.CreatedAt = parseTimestamp(createdAt)
	return w, nil
}

func (s *SQLiteStore) UpsertJournalStub(participantID, dateLocal string) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO journal_entries (id, participant_id, date_local, word, reflection, created_at)
		VALUES (?, ?, ?, '', '', ?)`,
		journalID(participantID, dateLocal), participantID, dateLocal,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) SaveJournalEntry(e models.JournalEntry) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	if e.ID == "" {
		e.ID = journalID(e.ParticipantID, e.DateLocal)
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO journal_entries (id, participant_id, date_local, word, reflection, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ParticipantID, e.DateLocal, e.Word, e.Reflection,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) GetJournalEntry(participantID, dateLocal string) (models.JournalEntry, error) {
	if s.db == nil {
		return models.JournalEntry{}, ErrNotLoaded
	}

	row := s.db.QueryRow(`
		SELECT id, participant_id, date_local, word, reflection, created_at
		FROM journal_entries WHERE participant_id = ? AND date_local = ?`,
		participantID, dateLocal)
	return scanJournalEntry(row)
}

func (s *SQLiteStore) GetJournalEntries(participantID string) ([]models.JournalEntry, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}

	rows, err := s.db.Query(`
		SELECT id, participant_id, date_local, word, reflection, created_at
		FROM journal_entries WHERE participant_id = ? ORDER BY date_local DESC`,
		participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanJournalEntry(row rowScanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	var createdAt string
	if err := row.Scan(&e.ID, &e.ParticipantID, &e.DateLocal, &e.Word, &e.Reflection, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.JournalEntry{}, ErrNotFound
		}
		return models.JournalEntry{}, err
	}
	e.CreatedAt = parseTimestamp(createdAt)
	return e, nil
}

func (s *SQLiteStore) GetLastProcessedDay(participantID string) (string, error) {
	if s.db == nil {
		return "", ErrNotLoaded
	}

	var day string
	err := s.db.QueryRow(
		"SELECT last_processed_day FROM rollover_state WHERE participant_id = ?",
		participantID,
	).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return day, nil
}

func (s *SQLiteStore) SetLastProcessedDay(participantID, day string) error {
	if s.db == nil {
		return ErrNotLoaded
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO rollover_state (participant_id, last_processed_day) VALUES (?, ?)`,
		participantID, day,
	)
	return err
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func journalID(participantID, dateLocal string) string {
	return participantID + ":" + dateLocal
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// isUniqueViolation detects sqlite UNIQUE constraint failures without tying
// the store to driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
