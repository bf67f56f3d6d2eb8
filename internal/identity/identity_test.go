package identity

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerate_Shape(t *testing.T) {
	g := NewSeeded(7)
	numeric := regexp.MustCompile(`^[1-9][0-9]{3}$`)
	var sawToken, sawNumber bool
	for i := 0; i < 500; i++ {
		name := g.Generate()
		base, suffix, ok := strings.Cut(name, "_")
		if !ok {
			t.Fatalf("missing separator in %q", name)
		}
		if !contains(Names, base) {
			t.Fatalf("unknown base %q in %q", base, name)
		}
		switch {
		case contains(Suffixes, suffix):
			sawToken = true
		case numeric.MatchString(suffix):
			sawNumber = true
		default:
			t.Fatalf("unexpected suffix %q in %q", suffix, name)
		}
	}
	if !sawToken || !sawNumber {
		t.Fatalf("expected both suffix styles, token=%v number=%v", sawToken, sawNumber)
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 20; i++ {
		if x, y := a.Generate(), b.Generate(); x != y {
			t.Fatalf("draw %d differs: %q vs %q", i, x, y)
		}
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
