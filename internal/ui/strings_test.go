package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"Mercimek Çorbası", 20, "Mercimek Çorbası"},
		{"Mercimek Çorbası", 10, "Mercime..."},
		{"abc", 2, "ab"},
		{"  padded  ", 0, "padded"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("çay", 5); got != "çay  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("longer text", 6); got != "lon..." {
		t.Fatalf("padRight = %q", got)
	}
}

func TestUpdatedLabel(t *testing.T) {
	cases := map[time.Duration]string{
		200 * time.Millisecond: "Updated just now",
		5 * time.Second:        "Updated 5s ago",
		3 * time.Minute:        "Updated 3m ago",
		2 * time.Hour:          "Updated 2h ago",
	}
	for age, want := range cases {
		if got := updatedLabel(age); got != want {
			t.Fatalf("updatedLabel(%v) = %q, want %q", age, got, want)
		}
	}
}

func TestFormatters(t *testing.T) {
	if got := formatQuantity(2); got != "2" {
		t.Fatalf("formatQuantity(2) = %q", got)
	}
	if got := formatQuantity(0.5); got != "0.5" {
		t.Fatalf("formatQuantity(0.5) = %q", got)
	}
	if got := formatMinutes(0); got != "-" {
		t.Fatalf("formatMinutes(0) = %q", got)
	}
	if got := formatCalories(350); got != "350 kcal" {
		t.Fatalf("formatCalories(350) = %q", got)
	}
	if got := createdDate("2024-05-01T10:20:30Z"); got != "2024-05-01" {
		t.Fatalf("createdDate = %q", got)
	}
	if got := createdDate("2024-05-01T10:20:30.1234567"); got != "2024-05-01" {
		t.Fatalf("createdDate without zone = %q", got)
	}
	if got := createdDate(""); got != "-" {
		t.Fatalf("createdDate empty = %q", got)
	}
}
