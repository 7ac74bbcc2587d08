package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeFileName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "unknown"},
		{"only punctuation", "?!*", "unknown"},
		{"spaces become underscores", "Half Life 2", "Half_Life_2"},
		{"punctuation collapses", "Witcher 3: Wild Hunt", "Witcher_3_Wild_Hunt"},
		{"hyphen kept", "Spider-Man", "Spider-Man"},
		{"underscores collapse", "a__b   c", "a_b_c"},
		{"leading and trailing trimmed", "  [Doom]  ", "Doom"},
		{"path separators", "../../etc/passwd", "etc_passwd"},
		{"cyrillic kept", "Ведьмак 3", "Ведьмак_3"},
		{"cjk kept", "ゼルダの伝説", "ゼルダの伝説"},
		{"decomposed accents composed", "Pokémon", "Pokémon"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeFileName(tc.input); got != tc.want {
				t.Fatalf("NormalizeFileName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeFileNameTruncates(t *testing.T) {
	long := strings.Repeat("ab ", 80)
	got := NormalizeFileName(long)
	if n := utf8.RuneCountInString(got); n > MaxFileNameRunes {
		t.Fatalf("expected at most %d runes, got %d", MaxFileNameRunes, n)
	}
	if strings.HasPrefix(got, "_") || strings.HasSuffix(got, "_") {
		t.Fatalf("expected trimmed result, got %q", got)
	}

	multibyte := strings.Repeat("я", 150)
	if got := NormalizeFileName(multibyte); utf8.RuneCountInString(got) != MaxFileNameRunes {
		t.Fatalf("expected rune-based truncation, got %d runes", utf8.RuneCountInString(got))
	}
}

func TestNormalizeFileNameIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Grand Theft Auto: San Andreas",
		"___weird___name___",
		"  mixed\tWHITE\nspace ",
		"Ведьмак 3: Дикая Охота",
		strings.Repeat("x y_", 60),
		"éclair",
	}
	for _, input := range inputs {
		once := NormalizeFileName(input)
		twice := NormalizeFileName(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestDisplayLink(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"https://store.example.com/app", "store.example.com/app"},
		{"http://short.io", "short.io"},
		{"https://store.steampowered.com/app/292030/The_Witcher_3", "store.steampowered.com/app/..."},
		{"https://abcdefghijklmnopqrstuvwxyz1234", "abcdefghijklmnopqrstuvwxyz1234"},
	}
	for _, tc := range cases {
		if got := DisplayLink(tc.input); got != tc.want {
			t.Fatalf("DisplayLink(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
