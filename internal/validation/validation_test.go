package validation

import "testing"

func TestIsSingleWord(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Simple word", "ocean", true},
		{"Surrounding whitespace trimmed", "  ocean  ", true},
		{"Hyphenated", "well-being", true},
		{"Straight apostrophe", "don't", true},
		{"Typographic apostrophe", "don’t", true},
		{"Accented letters", "naïve", true},
		{"Non-latin script", "日本語", true},
		{"Two words", "two words", false},
		{"Contains digit", "ocean1", false},
		{"Empty", "", false},
		{"Only whitespace", "   ", false},
		{"Interior tab", "a\tb", false},
		{"Punctuation", "hello!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsSingleWord(tt.input)
			if got != tt.want {
				t.Errorf("IsSingleWord(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeWord(t *testing.T) {
	if got := NormalizeWord("  ocean\n"); got != "ocean" {
		t.Errorf("NormalizeWord = %q, want %q", got, "ocean")
	}
}

func TestValidateClockTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "21:00", "23:59"}
	for _, v := range valid {
		if err := ValidateClockTime(v); err != nil {
			t.Errorf("ValidateClockTime(%q) returned error: %v", v, err)
		}
	}

	invalid := []string{"24:00", "12:60", "9:3", "noon", ""}
	for _, v := range invalid {
		if err := ValidateClockTime(v); err == nil {
			t.Errorf("ValidateClockTime(%q) expected error", v)
		}
	}
}

func TestValidateTimezone(t *testing.T) {
	if err := ValidateTimezone("America/New_York"); err != nil {
		t.Errorf("expected valid timezone, got error: %v", err)
	}
	if err := ValidateTimezone("Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
	if err := ValidateTimezone(""); err == nil {
		t.Error("expected error for empty timezone")
	}
}

func TestValidateDayKey(t *testing.T) {
	if err := ValidateDayKey("2024-01-15"); err != nil {
		t.Errorf("expected valid day key, got error: %v", err)
	}
	if err := ValidateDayKey("01/15/2024"); err == nil {
		t.Error("expected error for wrong date format")
	}
	if err := ValidateDayKey("2024-02-30"); err == nil {
		t.Error("expected error for impossible date")
	}
}
