package executor

import (
	"errors"
	"fmt"
)

// ErrExecutionFailed indicates a statement failed with a non-benign error.
var ErrExecutionFailed = errors.New("migration execution failed")

// StatementError records which statement of a file failed.
type StatementError struct {
	Index int    // 1-based position within the file
	SQL   string // statement text
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d (%s): %v", e.Index, truncate(e.SQL, statementPreviewLen), e.Err)
}

func (e *StatementError) Unwrap() []error {
	return []error{ErrExecutionFailed, e.Err}
}
