package models

import "time"

// DefaultTimezone is used when a participant has no timezone configured.
const DefaultTimezone = "America/New_York"

// SystemParticipantID identifies the built-in onboarding counterpart that
// auto-replies once per day.
const SystemParticipantID = "system"

type Participant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone,omitempty"` // IANA identifier
	CreatedAt time.Time `json:"created_at"`
}

// Zone returns the participant's timezone, falling back to the default.
func (p Participant) Zone() string {
	if p.Timezone == "" {
		return DefaultTimezone
	}
	return p.Timezone
}

// Connection is an immutable, unordered pairing of two participants. One
// connection exists per pair.
type Connection struct {
	ID        string    `json:"id"`
	A         string    `json:"a"`
	B         string    `json:"b"`
	CreatedAt time.Time `json:"created_at"`
}

// Other returns the counterpart of me in this connection, or "" when me is
// not a member.
func (c Connection) Other(me string) string {
	switch me {
	case c.A:
		return c.B
	case c.B:
		return c.A
	default:
		return ""
	}
}

// Has reports whether the participant is a member of the connection.
func (c Connection) Has(id string) bool {
	return c.A == id || c.B == id
}
