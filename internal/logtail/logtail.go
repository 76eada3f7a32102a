package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// Tail returns at most maxLines from the end of the file at path, oldest
// first. A missing file yields no lines.
func Tail(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	seen := 0
	for scanner.Scan() {
		ring[seen%maxLines] = scanner.Text()
		seen++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if seen <= maxLines {
		return ring[:seen], nil
	}
	start := seen % maxLines
	return append(ring[start:], ring[:start]...), nil
}

// Matches both slog handlers: level=WARN (text) and "level":"WARN" (json).
var levelPattern = regexp.MustCompile(`(?:^|\s)level=([A-Za-z]+)|"level":"([A-Za-z]+)"`)

// Level extracts the record level from a slog line. ok is false when the
// line carries none, as with wrapped continuation lines.
func Level(line string) (level slog.Level, ok bool) {
	m := levelPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, false
	}
	return level, true
}

// AtLeast keeps the lines at or above threshold. Lines without a level follow the
// decision made for the record before them.
func AtLeast(lines []string, threshold slog.Level) []string {
	var out []string
	keep := false
	for _, line := range lines {
		if level, ok := Level(line); ok {
			keep = level >= threshold
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}
