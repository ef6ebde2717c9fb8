package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/oneword/internal/models"
)

func setupTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store := NewSQLiteStore(filepath.Join(t.TempDir(), "oneword.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_InitSeedsDefaultSettings(t *testing.T) {
	store := setupTestSQLiteStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if settings.DefaultRevealTime != "21:00" {
		t.Errorf("DefaultRevealTime = %q, want 21:00", settings.DefaultRevealTime)
	}
}

func TestSQLiteStore_NotLoaded(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "oneword.db"))

	if _, err := store.GetSettings(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("GetSettings error = %v, want ErrNotLoaded", err)
	}
	if err := store.InsertWord(models.Word{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("InsertWord error = %v, want ErrNotLoaded", err)
	}
}

func TestSQLiteStore_LoadMissingFile(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("expected Load of missing file to fail")
	}
}

func TestSQLiteStore_ParticipantRoundtrip(t *testing.T) {
	store := setupTestSQLiteStore(t)

	p := models.Participant{
		ID:        "alice",
		Name:      "Alice",
		Timezone:  "America/New_York",
		CreatedAt: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SaveParticipant(p); err != nil {
		t.Fatalf("SaveParticipant returned error: %v", err)
	}

	got, err := store.GetParticipant("alice")
	if err != nil {
		t.Fatalf("GetParticipant returned error: %v", err)
	}
	if got.Name != "Alice" || got.Timezone != "America/New_York" {
		t.Errorf("unexpected participant: %+v", got)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, p.CreatedAt)
	}

	if _, err := store.GetParticipant("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetParticipant(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_GetAllParticipantsSorted(t *testing.T) {
	store := setupTestSQLiteStore(t)

	for _, p := range []models.Participant{
		{ID: "c", Name: "Carol"},
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
	} {
		if err := store.SaveParticipant(p); err != nil {
			t.Fatalf("SaveParticipant returned error: %v", err)
		}
	}

	all, err := store.GetAllParticipants()
	if err != nil {
		t.Fatalf("GetAllParticipants returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(all))
	}
	if all[0].Name != "Alice" || all[2].Name != "Carol" {
		t.Errorf("expected name order, got %s..%s", all[0].Name, all[2].Name)
	}
}

func TestSQLiteStore_FindConnectionEitherOrder(t *testing.T) {
	store := setupTestSQLiteStore(t)

	c := models.Connection{ID: "conn1", A: "alice", B: "bob"}
	if err := store.AddConnection(c); err != nil {
		t.Fatalf("AddConnection returned error: %v", err)
	}

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		got, err := store.FindConnection(pair[0], pair[1])
		if err != nil {
			t.Fatalf("FindConnection(%s, %s) returned error: %v", pair[0], pair[1], err)
		}
		if got.ID != "conn1" {
			t.Errorf("FindConnection(%s, %s) = %s, want conn1", pair[0], pair[1], got.ID)
		}
	}

	if _, err := store.FindConnection("alice", "carol"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindConnection miss error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_AddConnectionDuplicatePair(t *testing.T) {
	store := setupTestSQLiteStore(t)

	if err := store.AddConnection(models.Connection{ID: "conn1", A: "alice", B: "bob"}); err != nil {
		t.Fatalf("AddConnection returned error: %v", err)
	}
	err := store.AddConnection(models.Connection{ID: "conn2", A: "alice", B: "bob"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate pair error = %v, want ErrConflict", err)
	}
}

func TestSQLiteStore_InsertWordConflict(t *testing.T) {
	store := setupTestSQLiteStore(t)

	w := models.Word{
		ID:         "w1",
		SenderID:   "alice",
		ReceiverID: "bob",
		DateLocal:  "2024-01-15",
		Text:       "ocean",
		Reveal:     models.RevealInstant,
	}
	if err := store.InsertWord(w); err != nil {
		t.Fatalf("InsertWord returned error: %v", err)
	}

	dup := w
	dup.ID = "w2"
	dup.Text = "river"
	if err := store.InsertWord(dup); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate (sender, receiver, day) error = %v, want ErrConflict", err)
	}

	// The opposite direction on the same day is a distinct slot.
	reverse := models.Word{
		ID:         "w3",
		SenderID:   "bob",
		ReceiverID: "alice",
		DateLocal:  "2024-01-15",
		Text:       "river",
		Reveal:     models.RevealInstant,
	}
	if err := store.InsertWord(reverse); err != nil {
		t.Errorf("reverse direction insert returned error: %v", err)
	}
}

func TestSQLiteStore_WordRoundtrip(t *testing.T) {
	store := setupTestSQLiteStore(t)

	revealAt := time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC)
	w := models.Word{
		ID:         "w1",
		SenderID:   "alice",
		ReceiverID: "bob",
		DateLocal:  "2024-01-15",
		Text:       "ocean",
		Reveal:     models.RevealScheduled,
		RevealTime: &revealAt,
		CreatedAt:  time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC),
	}
	if err := store.InsertWord(w); err != nil {
		t.Fatalf("InsertWord returned error: %v", err)
	}

	got, err := store.GetWord("w1")
	if err != nil {
		t.Fatalf("GetWord returned error: %v", err)
	}
	if got.Reveal != models.RevealScheduled {
		t.Errorf("Reveal = %s, want scheduled", got.Reveal)
	}
	if got.RevealTime == nil || !got.RevealTime.Equal(revealAt) {
		t.Errorf("RevealTime = %v, want %v", got.RevealTime, revealAt)
	}

	byDay, err := store.QueryWord("alice", "bob", "2024-01-15")
	if err != nil {
		t.Fatalf("QueryWord returned error: %v", err)
	}
	if byDay.ID != "w1" {
		t.Errorf("QueryWord = %s, want w1", byDay.ID)
	}
}

func TestSQLiteStore_DeleteWord(t *testing.T) {
	store := setupTestSQLiteStore(t)

	w := models.Word{ID: "w1", SenderID: "alice", ReceiverID: "bob", DateLocal: "2024-01-15", Text: "ocean", Reveal: models.RevealInstant}
	if err := store.InsertWord(w); err != nil {
		t.Fatalf("InsertWord returned error: %v", err)
	}

	if err := store.DeleteWord("w1"); err != nil {
		t.Fatalf("DeleteWord returned error: %v", err)
	}
	if _, err := store.GetWord("w1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetWord after delete error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteWord("w1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteWord error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_WordsForDay(t *testing.T) {
	store := setupTestSQLiteStore(t)

	words := []models.Word{
		{ID: "w1", SenderID: "alice", ReceiverID: "bob", DateLocal: "2024-01-15", Text: "ocean", Reveal: models.RevealInstant},
		{ID: "w2", SenderID: "bob", ReceiverID: "alice", DateLocal: "2024-01-15", Text: "river", Reveal: models.RevealInstant},
		{ID: "w3", SenderID: "alice", ReceiverID: "bob", DateLocal: "2024-01-16", Text: "ember", Reveal: models.RevealInstant},
	}
	for _, w := range words {
		if err := store.InsertWord(w); err != nil {
			t.Fatalf("InsertWord %s returned error: %v", w.ID, err)
		}
	}

	got, err := store.WordsForDay("2024-01-15")
	if err != nil {
		t.Fatalf("WordsForDay returned error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 words for the day, got %d", len(got))
	}
}

func TestSQLiteStore_JournalStubThenEntry(t *testing.T) {
	store := setupTestSQLiteStore(t)

	if err := store.UpsertJournalStub("alice", "2024-01-15"); err != nil {
		t.Fatalf("UpsertJournalStub returned error: %v", err)
	}
	// Stubbing again is a no-op.
	if err := store.UpsertJournalStub("alice", "2024-01-15"); err != nil {
		t.Fatalf("second UpsertJournalStub returned error: %v", err)
	}

	stub, err := store.GetJournalEntry("alice", "2024-01-15")
	if err != nil {
		t.Fatalf("GetJournalEntry returned error: %v", err)
	}
	if stub.Word != "" {
		t.Errorf("stub word = %q, want empty", stub.Word)
	}

	entry := models.JournalEntry{
		ParticipantID: "alice",
		DateLocal:     "2024-01-15",
		Word:          "ocean",
		Reflection:    "calm day",
		CreatedAt:     time.Date(2024, 1, 16, 5, 0, 0, 0, time.UTC),
	}
	if err := store.SaveJournalEntry(entry); err != nil {
		t.Fatalf("SaveJournalEntry returned error: %v", err)
	}

	got, err := store.GetJournalEntry("alice", "2024-01-15")
	if err != nil {
		t.Fatalf("GetJournalEntry returned error: %v", err)
	}
	if got.Word != "ocean" || got.Reflection != "calm day" {
		t.Errorf("unexpected entry: %+v", got)
	}

	// A later stub must not clobber the written entry.
	if err := store.UpsertJournalStub("alice", "2024-01-15"); err != nil {
		t.Fatalf("UpsertJournalStub returned error: %v", err)
	}
	got, _ = store.GetJournalEntry("alice", "2024-01-15")
	if got.Word != "ocean" {
		t.Errorf("stub overwrote entry: %+v", got)
	}
}

func TestSQLiteStore_GetJournalEntriesNewestFirst(t *testing.T) {
	store := setupTestSQLiteStore(t)

	for _, day := range []string{"2024-01-14", "2024-01-16", "2024-01-15"} {
		if err := store.UpsertJournalStub("alice", day); err != nil {
			t.Fatalf("UpsertJournalStub returned error: %v", err)
		}
	}

	entries, err := store.GetJournalEntries("alice")
	if err != nil {
		t.Fatalf("GetJournalEntries returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].DateLocal != "2024-01-16" || entries[2].DateLocal != "2024-01-14" {
		t.Errorf("expected newest first, got %s..%s", entries[0].DateLocal, entries[2].DateLocal)
	}
}

func TestSQLiteStore_RolloverMarker(t *testing.T) {
	store := setupTestSQLiteStore(t)

	day, err := store.GetLastProcessedDay("alice")
	if err != nil {
		t.Fatalf("GetLastProcessedDay returned error: %v", err)
	}
	if day != "" {
		t.Errorf("unset marker = %q, want empty", day)
	}

	if err := store.SetLastProcessedDay("alice", "2024-01-15"); err != nil {
		t.Fatalf("SetLastProcessedDay returned error: %v", err)
	}
	if err := store.SetLastProcessedDay("alice", "2024-01-16"); err != nil {
		t.Fatalf("SetLastProcessedDay returned error: %v", err)
	}

	day, _ = store.GetLastProcessedDay("alice")
	if day != "2024-01-16" {
		t.Errorf("marker = %s, want 2024-01-16", day)
	}
}

func TestSQLiteStore_SettingsRoundtrip(t *testing.T) {
	store := setupTestSQLiteStore(t)

	if err := store.SaveSettings(Settings{MeID: "alice", DefaultRevealTime: "20:30"}); err != nil {
		t.Fatalf("SaveSettings returned error: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings returned error: %v", err)
	}
	if got.MeID != "alice" || got.DefaultRevealTime != "20:30" {
		t.Errorf("unexpected settings: %+v", got)
	}
}
