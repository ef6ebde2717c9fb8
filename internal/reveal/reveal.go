package reveal

import (
	"time"

	"github.com/julianstephens/oneword/internal/clock"
	"github.com/julianstephens/oneword/internal/models"
)

// Status is the disclosure state of a pair's exchange for one day.
type Status string

const (
	StatusWaitingYou  Status = "WAITING_YOU"
	StatusWaitingThem Status = "WAITING_THEM"
	StatusScheduled   Status = "SCHEDULED"
	StatusRevealed    Status = "REVEALED"
	StatusMissed      Status = "MISSED" // only for historical days that closed empty
)

// StatusFor computes the status of one day of an exchange from the viewer's
// perspective. mine is the viewer's word, theirs the counterpart's; either
// may be nil. tz is the viewer's timezone, used for scheduled reveal timing.
//
// An instant word is REVEALED for its sender even before the counterpart has
// sent anything that day; this asymmetry with the mutual policy is kept
// deliberately.
func StatusFor(mine, theirs *models.Word, tz string, now time.Time) Status {
	if mine != nil && mine.Reveal == models.RevealScheduled && mine.RevealTime != nil {
		passed, err := clock.HasPassed(tz, *mine.RevealTime, now)
		if err == nil && !passed {
			return StatusScheduled
		}
	}

	if mine != nil {
		switch mine.Reveal {
		case models.RevealMutual:
			if theirs != nil {
				return StatusRevealed
			}
			return StatusWaitingThem
		default: // instant, or scheduled past its reveal time
			return StatusRevealed
		}
	}

	if theirs != nil {
		return StatusWaitingYou
	}
	return StatusWaitingYou
}

// Visible reports whether a word's text may be shown to viewerID given the
// pair's status for that day. The sender always sees their own text.
func Visible(w *models.Word, viewerID string, status Status) bool {
	if w == nil {
		return false
	}
	if w.SenderID == viewerID {
		return true
	}
	return status == StatusRevealed
}

// Label returns the human-readable description of a status.
func Label(s Status) string {
	switch s {
	case StatusWaitingYou:
		return "Waiting for your word"
	case StatusWaitingThem:
		return "Waiting for their word"
	case StatusScheduled:
		return "Reveals later"
	case StatusRevealed:
		return "Revealed"
	case StatusMissed:
		return "Missed"
	default:
		return string(s)
	}
}
