// Package capture extracts a block of text delimited by two literal markers.
package capture

import (
	"fmt"
	"os"
	"strings"
)

// Between returns the text from the first occurrence of start (inclusive) up
// to the first occurrence of end at or after it (exclusive).
func Between(text, start, end string) (string, error) {
	if start == "" || end == "" {
		return "", ErrEmptyMarker
	}

	from := strings.Index(text, start)
	if from < 0 {
		return "", fmt.Errorf("%w: %q", ErrStartNotFound, preview(start))
	}

	to := strings.Index(text[from:], end)
	if to < 0 {
		return "", fmt.Errorf("%w: %q", ErrEndNotFound, preview(end))
	}

	return text[from : from+to], nil
}

// File reads path as UTF-8 and returns Between on its contents.
func File(path, start, end string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading capture source %s: %w", path, err)
	}

	block, err := Between(string(data), start, end)
	if err != nil {
		return "", fmt.Errorf("capturing from %s: %w", path, err)
	}

	return block, nil
}

const previewLen = 40

func preview(s string) string {
	count := 0
	for i := range s {
		if count == previewLen {
			return s[:i] + "..."
		}

		count++
	}

	return s
}
