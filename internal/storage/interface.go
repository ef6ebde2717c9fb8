package storage

import "github.com/julianstephens/oneword/internal/models"

type Settings struct {
	MeID              string `json:"me_id"`
	DefaultRevealTime string `json:"default_reveal_time"` // HH:MM, scheduled policy default
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Participants
	SaveParticipant(models.Participant) error
	GetParticipant(id string) (models.Participant, error)
	GetAllParticipants() ([]models.Participant, error)

	// Connections
	AddConnection(models.Connection) error
	GetConnection(id string) (models.Connection, error)
	GetConnectionsFor(participantID string) ([]models.Connection, error)
	FindConnection(a, b string) (models.Connection, error)

	// Words
	InsertWord(models.Word) error // ErrConflict on a duplicate (sender, receiver, date_local)
	GetWord(id string) (models.Word, error)
	QueryWord(senderID, receiverID, dateLocal string) (models.Word, error)
	WordsForDay(dateLocal string) ([]models.Word, error)
	DeleteWord(id string) error // ErrNotFound when absent

	// Journal
	UpsertJournalStub(participantID, dateLocal string) error
	SaveJournalEntry(models.JournalEntry) error
	GetJournalEntry(participantID, dateLocal string) (models.JournalEntry, error)
	GetJournalEntries(participantID string) ([]models.JournalEntry, error)

	// Rollover marker
	GetLastProcessedDay(participantID string) (string, error) // "" when unset
	SetLastProcessedDay(participantID, day string) error

	// Utils
	GetConfigPath() string
}
