package rollover

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/oneword/internal/clock"
	"github.com/julianstephens/oneword/internal/exchange"
	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/storage"
)

// DefaultInterval is how often the scheduler re-evaluates the day key.
const DefaultInterval = time.Minute

type State int

const (
	Idle State = iota
	Closing
)

// Scheduler watches for a day-boundary crossing in one participant's
// timezone and runs the day-close routine when it happens: burn undelivered
// mutual words from yesterday, stub the journal, advance the marker.
//
// The processed-day marker is persisted per participant, so concurrent
// sessions for different accounts do not contaminate each other.
type Scheduler struct {
	store         storage.Provider
	engine        *exchange.Engine
	clk           clock.Clock
	participantID string
	interval      time.Duration

	mu    sync.Mutex
	state State
}

func New(store storage.Provider, engine *exchange.Engine, clk clock.Clock, participantID string, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		store:         store,
		engine:        engine,
		clk:           clk,
		participantID: participantID,
		interval:      interval,
	}
}

// State reports whether a day close is in progress.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run checks immediately, then on every tick until ctx is canceled. Check
// failures are reported and retried on the next tick; cancellation between
// ticks leaves no half-closed state because the marker only advances after a
// fully applied close.
func (s *Scheduler) Run(ctx context.Context, report func(error)) {
	if report == nil {
		report = func(error) {}
	}

	if err := s.RunCheck(ctx); err != nil {
		report(err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunCheck(ctx); err != nil {
				report(err)
			}
		}
	}
}

// RunCheck executes one rollover evaluation. Idempotent: when the day has
// not changed since the last processed day it does nothing, and re-running a
// close is safe because burning an absent word is a no-op. The marker is not
// advanced when any step fails, so the next tick retries the full close.
func (s *Scheduler) RunCheck(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := s.store.GetParticipant(s.participantID)
	if err != nil {
		return err
	}

	today, err := clock.DayKey(p.Zone(), s.clk.Now())
	if err != nil {
		return err
	}

	last, err := s.store.GetLastProcessedDay(s.participantID)
	if err != nil {
		return err
	}

	if last == "" {
		// First run with no prior state: nothing to close yet, just seed
		// the marker.
		return s.store.SetLastProcessedDay(s.participantID, today)
	}
	if last == today {
		return nil
	}

	s.state = Closing
	defer func() { s.state = Idle }()

	yesterday, err := clock.PreviousDay(today)
	if err != nil {
		return err
	}
	if err := s.closeDay(ctx, yesterday); err != nil {
		return err
	}

	return s.store.SetLastProcessedDay(s.participantID, today)
}

func (s *Scheduler) closeDay(ctx context.Context, yesterday string) error {
	words, err := s.store.WordsForDay(yesterday)
	if err != nil {
		return err
	}

	for _, w := range words {
		if w.Reveal != models.RevealMutual || !w.BurnIfUnread {
			continue
		}
		_, reciprocated, err := s.engine.FindForDay(w.ReceiverID, w.SenderID, yesterday)
		if err != nil {
			return err
		}
		if !reciprocated {
			if err := s.engine.Burn(ctx, w.ID); err != nil {
				return err
			}
		}
	}

	return s.store.UpsertJournalStub(s.participantID, yesterday)
}
