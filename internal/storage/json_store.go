package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/oneword/internal/models"
)

type document struct {
	Version      int                           `json:"version"`
	Settings     Settings                      `json:"settings"`
	Participants map[string]models.Participant `json:"participants"`
	Connections  []models.Connection           `json:"connections"`
	Words        map[string]models.Word        `json:"words"`
	Journal      map[string]models.JournalEntry `json:"journal"`
	Rollover     map[string]string             `json:"rollover"` // participant id -> last processed day
}

// JSONStore keeps everything in a single JSON document. It mirrors the
// sqlite backend's semantics; the one-per-day check is still performed
// against the durable document before the insert is written out.
type JSONStore struct {
	path string
	doc  *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{path: configPath}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &document{
		Version:  1,
		Settings: Settings{DefaultRevealTime: "21:00"},
	}
	s.ensureMaps()

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'oneword init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.doc = &document{}
	if err := json.Unmarshal(data, s.doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.ensureMaps()

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) ensureMaps() {
	if s.doc.Participants == nil {
		s.doc.Participants = make(map[string]models.Participant)
	}
	if s.doc.Words == nil {
		s.doc.Words = make(map[string]models.Word)
	}
	if s.doc.Journal == nil {
		s.doc.Journal = make(map[string]models.JournalEntry)
	}
	if s.doc.Rollover == nil {
		s.doc.Rollover = make(map[string]string)
	}
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if s.doc == nil {
		return Settings{}, ErrNotLoaded
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) SaveParticipant(p models.Participant) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Participants[p.ID] = p
	return s.save()
}

func (s *JSONStore) GetParticipant(id string) (models.Participant, error) {
	if s.doc == nil {
		return models.Participant{}, ErrNotLoaded
	}
	p, ok := s.doc.Participants[id]
	if !ok {
		return models.Participant{}, ErrNotFound
	}
	return p, nil
}

func (s *JSONStore) GetAllParticipants() ([]models.Participant, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	participants := make([]models.Participant, 0, len(s.doc.Participants))
	for _, p := range s.doc.Participants {
		participants = append(participants, p)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Name < participants[j].Name
	})
	return participants, nil
}

func (s *JSONStore) AddConnection(c models.Connection) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	for _, existing := range s.doc.Connections {
		if existing.Has(c.A) && existing.Has(c.B) {
			return ErrConflict
		}
	}
	s.doc.Connections = append(s.doc.Connections, c)
	return s.save()
}

func (s *JSONStore) GetConnection(id string) (models.Connection, error) {
	if s.doc == nil {
		return models.Connection{}, ErrNotLoaded
	}
	for _, c := range s.doc.Connections {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Connection{}, ErrNotFound
}

func (s *JSONStore) GetConnectionsFor(participantID string) ([]models.Connection, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	var connections []models.Connection
	for _, c := range s.doc.Connections {
		if c.Has(participantID) {
			connections = append(connections, c)
		}
	}
	return connections, nil
}

func (s *JSONStore) FindConnection(a, b string) (models.Connection, error) {
	if s.doc == nil {
		return models.Connection{}, ErrNotLoaded
	}
	for _, c := range s.doc.Connections {
		if c.Has(a) && c.Has(b) {
			return c, nil
		}
	}
	return models.Connection{}, ErrNotFound
}

func (s *JSONStore) InsertWord(w models.Word) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	for _, existing := range s.doc.Words {
		if existing.SenderID == w.SenderID && existing.ReceiverID == w.ReceiverID && existing.DateLocal == w.DateLocal {
			return ErrConflict
		}
	}
	s.doc.Words[w.ID] = w
	return s.save()
}

func (s *JSONStore) GetWord(id string) (models.Word, error) {
	if s.doc == nil {
		return models.Word{}, ErrNotLoaded
	}
	w, ok := s.doc.Words[id]
	if !ok {
		return models.Word{}, ErrNotFound
	}
	return w, nil
}

func (s *JSONStore) QueryWord(senderID, receiverID, dateLocal string) (models.Word, error) {
	if s.doc == nil {
		return models.Word{}, ErrNotLoaded
	}
	for _, w := range s.doc.Words {
		if w.SenderID == senderID && w.ReceiverID == receiverID && w.DateLocal == dateLocal {
			return w, nil
		}
	}
	return models.Word{}, ErrNotFound
}

func (s *JSONStore) WordsForDay(dateLocal string) ([]models.Word, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	var words []models.Word
	for _, w := range s.doc.Words {
		if w.DateLocal == dateLocal {
			words = append(words, w)
		}
	}
	return words, nil
}

func (s *JSONStore) DeleteWord(id string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if _, ok := s.doc.Words[id]; !ok {
		return ErrNotFound
	}
	delete(s.doc.Words, id)
	return s.save()
}

func (s *JSONStore) UpsertJournalStub(participantID, dateLocal string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	key := journalID(participantID, dateLocal)
	if _, ok := s.doc.Journal[key]; ok {
		return nil
	}
	s.doc.Journal[key] = models.JournalEntry{
		ID:            key,
		ParticipantID: participantID,
		DateLocal:     dateLocal,
		CreatedAt:     time.Now().UTC(),
	}
	return s.save()
}

func (s *JSONStore) SaveJournalEntry(e models.JournalEntry) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if e.ID == "" {
		e.ID = journalID(e.ParticipantID, e.DateLocal)
	}
	s.doc.Journal[journalID(e.ParticipantID, e.DateLocal)] = e
	return s.save()
}

func (s *JSONStore) GetJournalEntry(participantID, dateLocal string) (models.JournalEntry, error) {
	if s.doc == nil {
		return models.JournalEntry{}, ErrNotLoaded
	}
	e, ok := s.doc.Journal[journalID(participantID, dateLocal)]
	if !ok {
		return models.JournalEntry{}, ErrNotFound
	}
	return e, nil
}

func (s *JSONStore) GetJournalEntries(participantID string) ([]models.JournalEntry, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	var entries []models.JournalEntry
	for _, e := range s.doc.Journal {
		if e.ParticipantID == participantID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DateLocal > entries[j].DateLocal
	})
	return entries, nil
}

func (s *JSONStore) GetLastProcessedDay(participantID string) (string, error) {
	if s.doc == nil {
		return "", ErrNotLoaded
	}
	return s.doc.Rollover[participantID], nil
}

func (s *JSONStore) SetLastProcessedDay(participantID, day string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Rollover[participantID] = day
	return s.save()
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note: JSONStore is not safe for concurrent use by multiple
// processes sharing the same path.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
