package parser //nolint:revive // intentional: does not conflict with go/parser in internal package

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// ParseResult holds the parsed statements of one chunk of SQL text.
type ParseResult struct {
	Stmts []*pg_query.RawStmt
	SQL   string
}

// Parse parses SQL with the PostgreSQL grammar.
// Empty or whitespace-only input yields zero statements.
func Parse(sql string) (*ParseResult, error) {
	if strings.TrimSpace(sql) == "" {
		return &ParseResult{SQL: sql}, nil
	}

	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parsing SQL: %w", err)
	}

	return &ParseResult{
		Stmts: tree.Stmts,
		SQL:   sql,
	}, nil
}

// Text returns the trimmed source text of statement i, or "" when i is out
// of range. A statement's length is zero when it runs to the end of the input.
func (r *ParseResult) Text(i int) string {
	if i < 0 || i >= len(r.Stmts) {
		return ""
	}

	start := int(r.Stmts[i].StmtLocation)
	end := len(r.SQL)

	if n := int(r.Stmts[i].StmtLen); n > 0 {
		end = start + n
	}

	if start > len(r.SQL) || end > len(r.SQL) || start >= end {
		return ""
	}

	return strings.TrimSpace(r.SQL[start:end])
}
