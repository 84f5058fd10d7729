package validators

import (
	"testing"
	"unicode/utf8"
)

func TestSanitizeStringTrimsAndBounds(t *testing.T) {
	if got := SanitizeString("  linen dress  ", 0); got != "linen dress" {
		t.Fatalf("unexpected trim result: %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	got := SanitizeString("សម្លៀកបំពាក់", 5)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid utf-8: %q", got)
	}
	if n := len([]rune(got)); n != 5 {
		t.Fatalf("expected 5 runes, got %d (%q)", n, got)
	}
}
