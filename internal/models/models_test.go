package models

import "testing"

func TestParseRevealPolicy(t *testing.T) {
	valid := map[string]RevealPolicy{
		"instant":   RevealInstant,
		"mutual":    RevealMutual,
		"scheduled": RevealScheduled,
	}
	for input, want := range valid {
		got, err := ParseRevealPolicy(input)
		if err != nil {
			t.Errorf("ParseRevealPolicy(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Errorf("ParseRevealPolicy(%q) = %s, want %s", input, got, want)
		}
	}

	for _, input := range []string{"", "INSTANT", "delayed"} {
		if _, err := ParseRevealPolicy(input); err == nil {
			t.Errorf("ParseRevealPolicy(%q) expected error", input)
		}
	}
}

func TestParticipantZone(t *testing.T) {
	p := Participant{ID: "alice", Timezone: "Asia/Tokyo"}
	if p.Zone() != "Asia/Tokyo" {
		t.Errorf("Zone() = %s, want Asia/Tokyo", p.Zone())
	}

	p.Timezone = ""
	if p.Zone() != DefaultTimezone {
		t.Errorf("Zone() fallback = %s, want %s", p.Zone(), DefaultTimezone)
	}
}

func TestConnectionOther(t *testing.T) {
	c := Connection{ID: "conn1", A: "alice", B: "bob"}

	if got := c.Other("alice"); got != "bob" {
		t.Errorf("Other(alice) = %s, want bob", got)
	}
	if got := c.Other("bob"); got != "alice" {
		t.Errorf("Other(bob) = %s, want alice", got)
	}
	if got := c.Other("carol"); got != "" {
		t.Errorf("Other(carol) = %s, want empty", got)
	}

	if !c.Has("alice") || !c.Has("bob") || c.Has("carol") {
		t.Error("Has reported wrong membership")
	}
}
