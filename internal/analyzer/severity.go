package analyzer

import "strings"

// Severity ranks how likely a statement is to break a re-run.
type Severity int

const (
	// Safe indicates no finding.
	Safe Severity = iota
	// Low means the runner tolerates the re-run error, but the file relies on it.
	Low
	// Medium means a re-run may change data or hit an untolerated error.
	Medium
	// High means a re-run fails the file.
	High
)

// String returns the uppercase label for the severity level.
func (s Severity) String() string {
	switch s {
	case Safe:
		return "SAFE"
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity maps a label (any case) back to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	for _, sev := range []Severity{Safe, Low, Medium, High} {
		if strings.EqualFold(sev.String(), s) {
			return sev, true
		}
	}

	return Safe, false
}

// Color returns an ANSI color code for terminal output.
func (s Severity) Color() string {
	switch s {
	case Safe:
		return "\033[32m" // green
	case Low:
		return "\033[36m" // cyan
	case Medium:
		return "\033[33m" // yellow
	case High:
		return "\033[31m" // red
	default:
		return "\033[0m" // reset
	}
}
