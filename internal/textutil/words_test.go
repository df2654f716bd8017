package textutil

import (
	"testing"
)

func TestWordCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"!!!", 0},
		{"ACME", 1},
		{"AT&T", 2},
		{"ROCKET FUEL 9000", 3},
		{"don't-stop", 3},
		{"  spaced   out  ", 2},
	}
	for _, tc := range cases {
		if got := WordCount(tc.text); got != tc.want {
			t.Errorf("WordCount(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestWordsPreservesOrder(t *testing.T) {
	got := Words("FRESH & EASY")
	want := []string{"FRESH", "EASY"}
	if len(got) != len(want) {
		t.Fatalf("Words returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Words returned %v, want %v", got, want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  \t ", ""},
		{"Serial #:", "Serial #:"},
		{"  Opposition \n  Pending  ", "Opposition Pending"},
	}
	for _, tc := range cases {
		if got := CollapseWhitespace(tc.in); got != tc.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Apple Inc., a Delaware corporation", "apple inc.") {
		t.Fatal("expected caseless substring match")
	}
	if ContainsFold("Apple Inc.", "") {
		t.Fatal("empty needle must not match")
	}
	if ContainsFold("Orange LLC", "apple") {
		t.Fatal("unrelated needle matched")
	}
}

func TestEqualFold(t *testing.T) {
	if !EqualFold("  STRASSE ", "strasse") {
		t.Fatal("expected folded equality")
	}
}
