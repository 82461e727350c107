package migration

import (
	"iter"
	"strings"
)

const (
	lineComment       = "--"
	blockCommentOpen  = "/*"
	blockCommentClose = "*/"
	terminator        = ";"
)

// splitter is the line scanner behind Split. It only knows two states:
// inside a block comment or not.
type splitter struct {
	inBlockComment bool
	buf            []string
}

// feed consumes one line and returns a completed statement, if any.
func (s *splitter) feed(raw string) (string, bool) {
	line := StripBOM(raw)
	trimmed := strings.TrimSpace(line)

	if s.inBlockComment {
		if strings.Contains(line, blockCommentClose) {
			s.inBlockComment = false
		}

		return "", false
	}

	if strings.HasPrefix(trimmed, blockCommentOpen) {
		s.inBlockComment = !strings.HasSuffix(trimmed, blockCommentClose)
		return "", false
	}

	if trimmed == "" || strings.HasPrefix(trimmed, lineComment) {
		return "", false
	}

	s.buf = append(s.buf, line)

	if !strings.HasSuffix(strings.TrimRight(line, " \t\r\n\v\f"), terminator) {
		return "", false
	}

	return s.flush()
}

func (s *splitter) flush() (string, bool) {
	stmt := strings.TrimSpace(strings.Join(s.buf, "\n"))
	s.buf = s.buf[:0]

	return stmt, stmt != ""
}

// Split returns the statements of sql in source order. Full-line "--"
// comments, block comments that start a line, and blank lines are dropped; a
// statement ends at a line whose last non-space character is ';'. Trailing
// content without a terminator is yielded as the final statement.
//
// Semicolons inside string literals or after SQL on a comment line are not
// recognised.
func Split(sql string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var s splitter

		for _, line := range splitLines(sql) {
			if stmt, ok := s.feed(line); ok {
				if !yield(stmt) {
					return
				}
			}
		}

		if len(s.buf) > 0 {
			if stmt, ok := s.flush(); ok {
				yield(stmt)
			}
		}
	}
}

// Statements collects Split into a slice.
func Statements(sql string) []string {
	var stmts []string

	for stmt := range Split(sql) {
		stmts = append(stmts, stmt)
	}

	return stmts
}

// splitLines breaks text on \n, \r\n and lone \r, without a trailing empty
// element for a final newline.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}
