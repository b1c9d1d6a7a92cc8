package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("got %d, want default", got)
	}
	if got := ParseIntDefault("nope", 7); got != 7 {
		t.Fatalf("got %d, want default on garbage", got)
	}
}
