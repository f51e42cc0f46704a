package slug

import (
	"regexp"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Breaking:  News!! ", "breaking-news"},
		{"مرحبا", "mrhba"},
		{"خبر عاجل", "khbr-aajl"},
		{"كأس العالم ٢٠٢٦", "kas-alaalm-2026"},
		{"شمس", "shms"},
		{"--already--slugged--", "already-slugged"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Make(tt.in); got != tt.want {
			t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	got := WithSuffix("khbr", 4)
	if !regexp.MustCompile(`^khbr-[a-z0-9]{4}$`).MatchString(got) {
		t.Errorf("unexpected suffix form %q", got)
	}
}
