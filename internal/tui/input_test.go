package tui

import (
	"strings"
	"testing"
)

func TestEditRuneAddCharacters(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "Roo", "k", "Rook"},
		{"append digit", "#1", "2", "#12"},
		{"append space", "Base", " ", "Base "},
		{"append slash", "", "/", "/"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, tc.key)
			if got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspace(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"single char", "a", ""},
		{"longer string", "hello", "hell"},
		{"empty does nothing", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, "backspace")
			if got != tc.want {
				t.Errorf("editRune(%q, 'backspace') = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspaceMultibyte(t *testing.T) {
	// Backspace removes a full rune, not one byte.
	got := editRune("Pokémon é", "backspace")
	if got != "Pokémon " {
		t.Errorf("editRune ending with multi-byte rune: = %q, want %q", got, "Pokémon ")
	}
}

func TestEditRuneIgnoresNonPrintableKeys(t *testing.T) {
	nonPrintable := []string{
		"enter", "esc", "up", "down", "left", "right",
		"ctrl+c", "ctrl+s", "tab", "shift+tab", "pgup", "pgdown",
	}

	original := "hello"
	for _, key := range nonPrintable {
		t.Run(key, func(t *testing.T) {
			got := editRune(original, key)
			if got != original {
				t.Errorf("editRune(%q, %q) = %q, want unchanged", original, key, got)
			}
		})
	}
}

func TestEditRuneMaxInputLen(t *testing.T) {
	atLimit := strings.Repeat("a", maxInputLen)
	belowLimit := strings.Repeat("a", maxInputLen-1)

	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"at limit rejects new char", atLimit, "b", atLimit},
		{"below limit accepts new char", belowLimit, "b", belowLimit + "b"},
		{"at limit backspace still works", atLimit, "backspace", atLimit[:len(atLimit)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := editRune(tt.text, tt.key)
			if got != tt.want {
				t.Errorf("editRune(..., %q): got %d runes, want %d", tt.key, len([]rune(got)), len([]rune(tt.want)))
			}
		})
	}
}

func TestTruncateToHeightLimitsLines(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"
	result := truncateToHeight(input, 3)

	if strings.Count(result, "\n") > 3 {
		t.Errorf("truncateToHeight(5 lines, 3) produced %d newlines, want <= 3", strings.Count(result, "\n"))
	}
	if !strings.Contains(result, "line1") {
		t.Errorf("result missing first line: %q", result)
	}
	if strings.Contains(result, "line4") {
		t.Errorf("result should not contain line4: %q", result)
	}
}

func TestTruncateToHeightWithinLimit(t *testing.T) {
	input := "line1\nline2\nline3\n"
	if got := truncateToHeight(input, 10); got != input {
		t.Errorf("truncateToHeight with maxLines > linecount: got %q, want %q", got, input)
	}
}

func TestTruncateToHeightNonPositiveMaxReturnsAll(t *testing.T) {
	input := "line1\nline2\n"
	for _, max := range []int{0, -1} {
		if got := truncateToHeight(input, max); got != input {
			t.Errorf("truncateToHeight(_, %d) should return input unchanged, got %q", max, got)
		}
	}
}
