package models

import (
	"fmt"
	"time"
)

type RevealPolicy string

const (
	RevealInstant   RevealPolicy = "instant"
	RevealMutual    RevealPolicy = "mutual"
	RevealScheduled RevealPolicy = "scheduled"
)

// ParseRevealPolicy rejects unknown policy values at the boundary rather than
// letting them propagate into the ledger.
func ParseRevealPolicy(s string) (RevealPolicy, error) {
	switch RevealPolicy(s) {
	case RevealInstant:
		return RevealInstant, nil
	case RevealMutual:
		return RevealMutual, nil
	case RevealScheduled:
		return RevealScheduled, nil
	default:
		return "", fmt.Errorf("invalid reveal policy: %q", s)
	}
}

// Word is the daily exchange unit between two participants. A Word is never
// edited after creation; it is removed only by the sender deleting it or by
// the rollover burn rule.
type Word struct {
	ID           string       `json:"id"`
	SenderID     string       `json:"sender_id"`
	ReceiverID   string       `json:"receiver_id"`
	DateLocal    string       `json:"date_local"` // YYYY-MM-DD, sender's timezone
	Text         string       `json:"text"`
	Reveal       RevealPolicy `json:"reveal"`
	RevealTime   *time.Time   `json:"reveal_time,omitempty"` // scheduled policy only
	BurnIfUnread bool         `json:"burn_if_unread,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
