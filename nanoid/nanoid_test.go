package nanoid

import (
	"testing"
)

func TestAlphanumericLength(t *testing.T) {
	for _, n := range []int{1, 16, 20, 64} {
		s := Alphanumeric(n)
		if len(s) != n {
			t.Errorf("Alphanumeric(%d) length = %d", n, len(s))
		}
		if !IsAlphanumeric(s) {
			t.Errorf("Alphanumeric(%d) = %q contains characters outside [0-9a-zA-Z]", n, s)
		}
	}
}

func TestAlphanumericDefaultSize(t *testing.T) {
	if got := len(Alphanumeric()); got != defaultSize {
		t.Errorf("expected default size %d, got %d", defaultSize, got)
	}
	if got := len(Alphanumeric(0)); got != defaultSize {
		t.Errorf("expected default size for 0, got %d", got)
	}
}

func TestIsAlphanumeric(t *testing.T) {
	cases := map[string]bool{
		"":          false,
		"abcXYZ019": true,
		"abc_def":   false,
		"abc-def":   false,
		"ümlaut":    false,
	}
	for in, want := range cases {
		if got := IsAlphanumeric(in); got != want {
			t.Errorf("IsAlphanumeric(%q) = %v, want %v", in, got, want)
		}
	}
}
