package rollover

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/oneword/internal/clock"
	"github.com/julianstephens/oneword/internal/exchange"
	"github.com/julianstephens/oneword/internal/models"
	"github.com/julianstephens/oneword/internal/storage"
)

// 10:00 EST on Jan 16: the day after the words below were exchanged.
var testNow = time.Date(2024, 1, 16, 15, 0, 0, 0, time.UTC)

func setupTest(t *testing.T) storage.Provider {
	t.Helper()

	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "oneword.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	participants := []models.Participant{
		{ID: "alice", Name: "Alice", Timezone: "America/New_York"},
		{ID: "bob", Name: "Bob", Timezone: "America/New_York"},
	}
	for _, p := range participants {
		if err := store.SaveParticipant(p); err != nil {
			t.Fatalf("failed to save participant %s: %v", p.ID, err)
		}
	}
	if err := store.AddConnection(models.Connection{ID: "conn-alice-bob", A: "alice", B: "bob"}); err != nil {
		t.Fatalf("failed to add connection: %v", err)
	}

	return store
}

func newScheduler(store storage.Provider, clk clock.Clock) *Scheduler {
	return New(store, exchange.New(store, clk), clk, "alice", 0)
}

func insertWord(t *testing.T, store storage.Provider, id, sender, receiver, date string, policy models.RevealPolicy, burn bool) {
	t.Helper()
	err := store.InsertWord(models.Word{
		ID:           id,
		SenderID:     sender,
		ReceiverID:   receiver,
		DateLocal:    date,
		Text:         "ember",
		Reveal:       policy,
		BurnIfUnread: burn,
	})
	if err != nil {
		t.Fatalf("failed to insert word %s: %v", id, err)
	}
}

func TestRunCheck_SeedsMarkerOnFirstRun(t *testing.T) {
	store := setupTest(t)
	s := newScheduler(store, clock.Fixed{T: testNow})

	if err := s.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck returned error: %v", err)
	}

	last, err := store.GetLastProcessedDay("alice")
	if err != nil {
		t.Fatalf("GetLastProcessedDay returned error: %v", err)
	}
	if last != "2024-01-16" {
		t.Errorf("marker = %s, want 2024-01-16", last)
	}

	// First run must not close anything; no journal stub appears.
	if _, err := store.GetJournalEntry("alice", "2024-01-15"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected no journal stub on first run, got err=%v", err)
	}
}

func TestRunCheck_SameDayIsNoOp(t *testing.T) {
	store := setupTest(t)
	if err := store.SetLastProcessedDay("alice", "2024-01-16"); err != nil {
		t.Fatalf("failed to seed marker: %v", err)
	}
	insertWord(t, store, "w1", "alice", "bob", "2024-01-15", models.RevealMutual, true)

	s := newScheduler(store, clock.Fixed{T: testNow})
	if err := s.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck returned error: %v", err)
	}

	// Nothing was burned because the day has not changed.
	if _, err := store.GetWord("w1"); err != nil {
		t.Errorf("expected word to survive a same-day check: %v", err)
	}
}

func TestRunCheck_BurnsUnreciprocatedMutualWords(t *testing.T) {
	store := setupTest(t)
	if err := store.SetLastProcessedDay("alice", "2024-01-15"); err != nil {
		t.Fatalf("failed to seed marker: %v", err)
	}
	insertWord(t, store, "w1", "alice", "bob", "2024-01-15", models.RevealMutual, true)

	s := newScheduler(store, clock.Fixed{T: testNow})
	if err := s.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck returned error: %v", err)
	}

	if _, err := store.GetWord("w1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected word to be burned, got err=%v", err)
	}

	last, _ := store.GetLastProcessedDay("alice")
	if last != "2024-01-16" {
		t.Errorf("marker = %s, want 2024-01-16", last)
	}

	if _, err := store.GetJournalEntry("alice", "2024-01-15"); err != nil {
		t.Errorf("expected journal stub for the closed day: %v", err)
	}
}

func TestRunCheck_ReciprocatedMutualWordSurvives(t *testing.T) {
	store := setupTest(t)
	if err := store.SetLastProcessedDay("alice", "2024-01-15"); err != nil {
		t.Fatalf("failed to seed marker: %v", err)
	}
	insertWord(t, store, "w1", "alice", "bob", "2024-01-15", models.RevealMutual, true)
	insertWord(t, store, "w2", "bob", "alice", "2024-01-15", models.RevealInstant, false)

	s := newScheduler(store, clock.Fixed{T: testNow})
	if err := s.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck returned error: %v", err)
	}

	if _, err := store.GetWord("w1"); err != nil {
		t.Errorf("reciprocated word should survive: %v", err)
	}
	if _, err := store.GetWord("w2"); err != nil {
		t.Errorf("counterpart's word should survive: %v", err)
	}
}

func TestRunCheck_LeavesNonBurnWordsAlone(t *testing.T) {
	store := setupTest(t)
	if err := store.SetLastProcessedDay("alice", "2024-01-15"); err != nil {
		t.Fatalf("failed to seed marker: %v", err)
	}
	insertWord(t, store, "w1", "alice", "bob", "2024-01-15", models.RevealMutual, false)
	insertWord(t, store, "w2", "bob", "alice", "2024-01-15", models.RevealInstant, false)

	s := newScheduler(store, clock.Fixed{T: testNow})
	if err := s.RunCheck(context.Background()); err != nil {
		t.Fatalf("RunCheck returned error: %v", err)
	}

	if _, err := store.GetWord("w1"); err != nil {
		t.Errorf("mutual word without burn flag should survive: %v", err)
	}
	if _, err := store.GetWord("w2"); err != nil {
		t.Errorf("instant word should survive: %v", err)
	}
}

func TestRunCheck_Idempotent(t *testing.T) {
	store := setupTest(t)
	if err := store.SetLastProcessedDay("alice", "2024-01-15"); err != nil {
		t.Fatalf("failed to seed marker: %v", err)
	}
	insertWord(t, store, "w1", "alice", "bob", "2024-01-15", models.RevealMutual, true)

	s := newScheduler(store, clock.Fixed{T: testNow})
	for i := 0; i < 3; i++ {
		if err := s.RunCheck(context.Background()); err != nil {
			t.Fatalf("RunCheck run %d returned error: %v", i, err)
		}
	}

	last, _ := store.GetLastProcessedDay("alice")
	if last != "2024-01-16" {
		t.Errorf("marker = %s, want 2024-01-16", last)
	}
	if _, err := store.GetWord("w1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected word burned exactly once, got err=%v", err)
	}
}

// failingStore makes the day-close word scan fail.
type failingStore struct {
	storage.Provider
}

func (f *failingStore) WordsForDay(dateLocal string) ([]models.Word, error) {
	return nil, errors.New("disk on fire")
}

func TestRunCheck_FailureDoesNotAdvanceMarker(t *testing.T) {
	store := setupTest(t)
	if err := store.SetLastProcessedDay("alice", "2024-01-15"); err != nil {
		t.Fatalf("failed to seed marker: %v", err)
	}

	broken := &failingStore{Provider: store}
	clk := clock.Fixed{T: testNow}
	s := New(broken, exchange.New(broken, clk), clk, "alice", 0)

	if err := s.RunCheck(context.Background()); err == nil {
		t.Fatal("expected RunCheck to fail")
	}

	last, _ := store.GetLastProcessedDay("alice")
	if last != "2024-01-15" {
		t.Errorf("marker advanced despite failure: %s", last)
	}

	// The underlying store recovers; the retry completes the close.
	s = newScheduler(store, clk)
	if err := s.RunCheck(context.Background()); err != nil {
		t.Fatalf("retry RunCheck returned error: %v", err)
	}
	last, _ = store.GetLastProcessedDay("alice")
	if last != "2024-01-16" {
		t.Errorf("marker = %s after retry, want 2024-01-16", last)
	}
}

func TestRunCheck_CanceledContext(t *testing.T) {
	store := setupTest(t)
	s := newScheduler(store, clock.Fixed{T: testNow})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.RunCheck(ctx); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := setupTest(t)
	s := New(store, exchange.New(store, clock.Fixed{T: testNow}), clock.Fixed{T: testNow}, "alice", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, nil)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if s.State() != Idle {
		t.Errorf("scheduler state = %v, want Idle", s.State())
	}
}
