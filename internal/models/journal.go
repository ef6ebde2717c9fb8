package models

import "time"

// JournalEntry is a participant-private record keyed by day. Rollover creates
// an empty stub for a day that closed without one.
type JournalEntry struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	DateLocal     string    `json:"date_local"` // YYYY-MM-DD
	Word          string    `json:"word,omitempty"`
	Reflection    string    `json:"reflection,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
