package slug_test

import (
	"testing"

	"shelfmate/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"  The Go Programming Language ": "the-go-programming-language",
		"Café Society":                   "cafe-society",
		"채식주의자":                          "채식주의자",
		"소년이 온다 (개정판)":                   "소년이-온다-개정판",
		"!!!":                            "untitled",
		"":                               "untitled",
	}
	for input, want := range cases {
		if got := slug.Make(input); got != want {
			t.Fatalf("Make(%q) = %q, want %q", input, got, want)
		}
	}
}
