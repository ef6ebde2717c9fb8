package exchange

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/julianstephens/oneword/internal/clock"
	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/reveal"
	"github.com/julianstephens/oneword/internal/storage"
	"github.com/julianstephens/oneword/internal/validation"
)

// SystemReplyText is the fixed word the system friend sends back.
const SystemReplyText = "welcome"

// DefaultThreadDays is the day window shown by thread queries.
const DefaultThreadDays = 14

const fallbackRevealTime = "21:00"

// SendOptions carries the policy-specific parameters of a send.
type SendOptions struct {
	Time string // HH:MM local reveal time, scheduled policy only
	Burn bool   // burn-if-unread, mutual policy only
}

// ThreadDay is one row of a connection's day-by-day exchange history.
// Mine and Theirs are nil when the word is absent or not yet visible.
type ThreadDay struct {
	Date   string
	Mine   *string
	Theirs *string
	Missed bool
}

// WordCount is one entry of the public top-words aggregate.
type WordCount struct {
	Text  string
	Count int
}

// Engine is the daily exchange core: it owns the one-word-per-day ledger
// semantics, reveal status queries, and the burn operation used by rollover.
// Mutations are serialized so a send and a rollover tick cannot interleave.
type Engine struct {
	mu    sync.Mutex
	store storage.Provider
	clk   clock.Clock
}

func New(store storage.Provider, clk clock.Clock) *Engine {
	return &Engine{store: store, clk: clk}
}

// Send validates and persists the caller's word for today. The day key is
// computed in the sender's timezone at the moment of sending; the storage
// layer's uniqueness constraint enforces the one-per-day invariant.
func (e *Engine) Send(ctx context.Context, senderID, connectionID, text string, policy models.RevealPolicy, opts SendOptions) (models.Word, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return models.Word{}, err
	}

	text = validation.NormalizeWord(text)
	if !validation.IsSingleWord(text) {
		return models.Word{}, fmt.Errorf("%w: %q", ErrInvalidWord, text)
	}

	conn, err := e.store.GetConnection(connectionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Word{}, fmt.Errorf("%w: no such connection %s", ErrPermissionDenied, connectionID)
		}
		return models.Word{}, storageErr(err)
	}

	them := conn.Other(senderID)
	if them == "" {
		return models.Word{}, fmt.Errorf("%w: not a member of this connection", ErrPermissionDenied)
	}

	sender, err := e.store.GetParticipant(senderID)
	if err != nil {
		return models.Word{}, storageErr(err)
	}

	now := e.clk.Now()
	// An unresolvable zone fails the send rather than misattributing a day.
	dateLocal, err := clock.DayKey(sender.Zone(), now)
	if err != nil {
		return models.Word{}, err
	}

	w := models.Word{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: them,
		DateLocal:  dateLocal,
		Text:       text,
		Reveal:     policy,
		CreatedAt:  now.UTC(),
	}

	switch policy {
	case models.RevealScheduled:
		at := opts.Time
		if at == "" {
			at = e.defaultRevealTime()
		}
		revealTime, err := clock.ResolveTimeToday(sender.Zone(), at, now)
		if err != nil {
			return models.Word{}, err
		}
		w.RevealTime = &revealTime
	case models.RevealMutual:
		w.BurnIfUnread = opts.Burn
	}

	if err := e.store.InsertWord(w); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return models.Word{}, fmt.Errorf("%w (%s)", ErrDailyLimitExceeded, dateLocal)
		}
		return models.Word{}, storageErr(err)
	}

	if them == models.SystemParticipantID {
		e.systemReply(senderID, dateLocal, now)
	}

	return w, nil
}

func (e *Engine) defaultRevealTime() string {
	settings, err := e.store.GetSettings()
	if err != nil || settings.DefaultRevealTime == "" {
		return fallbackRevealTime
	}
	return settings.DefaultRevealTime
}

// systemReply posts the system friend's single instant reply for the day.
// A duplicate (already replied today) is not an error.
func (e *Engine) systemReply(to, dateLocal string, now time.Time) {
	reply := models.Word{
		ID:         uuid.New().String(),
		SenderID:   models.SystemParticipantID,
		ReceiverID: to,
		DateLocal:  dateLocal,
		Text:       SystemReplyText,
		Reveal:     models.RevealInstant,
		CreatedAt:  now.UTC(),
	}
	if err := e.store.InsertWord(reply); err != nil && !errors.Is(err, storage.ErrConflict) {
		// The sender's word is already durable; a failed auto-reply does not
		// undo the send.
		return
	}
}

// FindForDay returns the word sent from senderID to receiverID on dateLocal,
// or ok=false when none exists.
func (e *Engine) FindForDay(senderID, receiverID, dateLocal string) (models.Word, bool, error) {
	w, err := e.store.QueryWord(senderID, receiverID, dateLocal)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Word{}, false, nil
		}
		return models.Word{}, false, storageErr(err)
	}
	return w, true, nil
}

// DeleteOwnWord removes the requester's own outgoing word. Deletion is
// sender-local; only the sender may delete.
func (e *Engine) DeleteOwnWord(ctx context.Context, wordID, requesterID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	w, err := e.store.GetWord(wordID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: word %s", storage.ErrNotFound, wordID)
		}
		return storageErr(err)
	}
	if w.SenderID != requesterID {
		return fmt.Errorf("%w: only the sender may delete a word", ErrPermissionDenied)
	}

	if err := e.store.DeleteWord(wordID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return storageErr(err)
	}
	return nil
}

// Burn unconditionally deletes a word. Privileged; used only by the rollover
// close routine. Burning an absent word is a no-op.
func (e *Engine) Burn(ctx context.Context, wordID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := e.store.DeleteWord(wordID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return storageErr(err)
	}
	return nil
}

// StatusForConnection computes today's reveal status from me's perspective.
func (e *Engine) StatusForConnection(meID, connectionID string) (reveal.Status, error) {
	me, them, err := e.pair(meID, connectionID)
	if err != nil {
		return "", err
	}

	now := e.clk.Now()
	today, err := clock.DayKey(me.Zone(), now)
	if err != nil {
		return "", err
	}

	mine, err := e.wordPtr(meID, them, today)
	if err != nil {
		return "", err
	}
	theirs, err := e.wordPtr(them, meID, today)
	if err != nil {
		return "", err
	}

	return reveal.StatusFor(mine, theirs, me.Zone(), now), nil
}

// ThreadForConnection returns the last windowDays days of the exchange,
// oldest first. The caller's own words are always visible; the counterpart's
// words only once revealed. Days that closed with neither side sending are
// flagged as missed.
func (e *Engine) ThreadForConnection(meID, connectionID string, windowDays int) ([]ThreadDay, error) {
	if windowDays <= 0 {
		windowDays = DefaultThreadDays
	}

	me, them, err := e.pair(meID, connectionID)
	if err != nil {
		return nil, err
	}

	now := e.clk.Now()
	today, err := clock.DayKey(me.Zone(), now)
	if err != nil {
		return nil, err
	}
	todayDate, err := time.Parse(clock.DayKeyFormat, today)
	if err != nil {
		return nil, err
	}

	days := make([]ThreadDay, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		date := todayDate.AddDate(0, 0, -i).Format(clock.DayKeyFormat)

		mine, err := e.wordPtr(meID, them, date)
		if err != nil {
			return nil, err
		}
		theirs, err := e.wordPtr(them, meID, date)
		if err != nil {
			return nil, err
		}

		day := ThreadDay{Date: date}
		if mine == nil && theirs == nil {
			day.Missed = date != today
			days = append(days, day)
			continue
		}

		if mine != nil {
			day.Mine = &mine.Text
		}
		// The counterpart's word is visible once it is revealed from the
		// counterpart-as-sender perspective (instant always, mutual only
		// when reciprocated, scheduled only past its reveal time).
		if theirs != nil && reveal.StatusFor(theirs, mine, me.Zone(), now) == reveal.StatusRevealed {
			day.Theirs = &theirs.Text
		}
		days = append(days, day)
	}

	return days, nil
}

// TopWordsToday aggregates today's words by text, most frequent first.
// "Today" is evaluated in me's timezone.
func (e *Engine) TopWordsToday(meID string, limit int) ([]WordCount, error) {
	me, err := e.store.GetParticipant(meID)
	if err != nil {
		return nil, storageErr(err)
	}
	today, err := clock.DayKey(me.Zone(), e.clk.Now())
	if err != nil {
		return nil, err
	}

	words, err := e.store.WordsForDay(today)
	if err != nil {
		return nil, storageErr(err)
	}

	counts := make(map[string]int)
	for _, w := range words {
		counts[w.Text]++
	}

	top := make([]WordCount, 0, len(counts))
	for text, count := range counts {
		top = append(top, WordCount{Text: text, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Text < top[j].Text
	})

	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (e *Engine) pair(meID, connectionID string) (models.Participant, string, error) {
	conn, err := e.store.GetConnection(connectionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Participant{}, "", fmt.Errorf("%w: no such connection %s", ErrPermissionDenied, connectionID)
		}
		return models.Participant{}, "", storageErr(err)
	}
	them := conn.Other(meID)
	if them == "" {
		return models.Participant{}, "", fmt.Errorf("%w: not a member of this connection", ErrPermissionDenied)
	}

	me, err := e.store.GetParticipant(meID)
	if err != nil {
		return models.Participant{}, "", storageErr(err)
	}
	return me, them, nil
}

func (e *Engine) wordPtr(senderID, receiverID, dateLocal string) (*models.Word, error) {
	w, ok, err := e.FindForDay(senderID, receiverID, dateLocal)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// storageErr classifies unexpected persistence failures as retryable.
func storageErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
