package executor

import "time"

// Status is the outcome of processing one migration file.
type Status string

// File statuses. Starting is only seen by progress callbacks.
const (
	StatusStarting Status = "starting"
	StatusApplied  Status = "applied"
	StatusSkipped  Status = "skipped"
	StatusPending  Status = "pending" // dry run: would be applied
	StatusFailed   Status = "failed"
)

// BenignSkip is a tolerated statement error.
type BenignSkip struct {
	Code      string
	Statement string
	Err       error
}

// FileResult describes what happened to one migration file.
type FileResult struct {
	Path     string
	Filename string
	Checksum string
	Status   Status
	Executed int // statements that ran without error
	Benign   []BenignSkip
	Duration time.Duration
	Err      error
}

// Report collects the per-file results of a run, in processing order.
type Report struct {
	Results []FileResult
}

// Count returns the number of files with the given status.
func (r *Report) Count(s Status) int {
	n := 0

	for i := range r.Results {
		if r.Results[i].Status == s {
			n++
		}
	}

	return n
}

// Failed returns the results of files that failed.
func (r *Report) Failed() []FileResult {
	var failed []FileResult

	for i := range r.Results {
		if r.Results[i].Status == StatusFailed {
			failed = append(failed, r.Results[i])
		}
	}

	return failed
}

// HasFailures reports whether any file failed.
func (r *Report) HasFailures() bool {
	return r.Count(StatusFailed) > 0
}
