package detect

import (
	"testing"

	"github.com/dhowell/papermatch/internal/model"
)

func TestSanitizeNumberHint(t *testing.T) {
	cases := []struct{ in, want string }{
		{"4", "4"},
		{" 12a ", "12a"},
		{"l", "1"},
		{"I", "1"},
		{"l2", "12"},
		{"la", "1a"},
		{"(3)", "3"},
		{"7.", "7"},
		{"", ""},
	}
	for _, c := range cases {
		if got := sanitizeNumberHint(c.in); got != c.want {
			t.Errorf("sanitizeNumberHint(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBaseNumber(t *testing.T) {
	cases := []struct{ in, want string }{
		{"12a", "12"},
		{"12iii", "12"},
		{"4", "4"},
		{"General", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := baseNumber(c.in); got != c.want {
			t.Errorf("baseNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSubLabel(t *testing.T) {
	if got := subLabel("12a"); got != "a" {
		t.Errorf("subLabel(12a) = %q, want \"a\"", got)
	}
	if got := subLabel("4"); got != "" {
		t.Errorf("subLabel(4) = %q, want empty", got)
	}
}

func TestNarrowPool(t *testing.T) {
	papers := []model.Paper{
		{Board: "Edexcel", Code: "1MA1/1H", Series: "June 2019", Qualification: "GCSE Mathematics"},
		{Board: "AQA", Code: "8300/2H", Series: "November 2020", Qualification: "GCSE Mathematics"},
	}

	pool, applied := narrowPool(papers, "edexcel june")
	if !applied || len(pool) != 1 || pool[0].Board != "Edexcel" {
		t.Errorf("narrowPool = %d papers, applied=%v", len(pool), applied)
	}

	// May in the hint matches a June series.
	pool, applied = narrowPool(papers, "edexcel may 2019")
	if !applied || len(pool) != 1 {
		t.Errorf("May hint: %d papers, applied=%v, want June paper matched", len(pool), applied)
	}

	// A hint matching nothing widens back to the full corpus.
	pool, applied = narrowPool(papers, "OCR physics")
	if applied || len(pool) != 2 {
		t.Errorf("unmatched hint: %d papers, applied=%v, want full pool, not applied", len(pool), applied)
	}

	pool, applied = narrowPool(papers, "")
	if applied || len(pool) != 2 {
		t.Errorf("empty hint: %d papers, applied=%v", len(pool), applied)
	}
}
