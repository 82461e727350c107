package analyzer

import (
	"github.com/aqasim81/sql-migrate-runner/internal/migration"
	"github.com/aqasim81/sql-migrate-runner/internal/parser"
)

// UnparsableRuleID is reported for statements the PostgreSQL grammar rejects.
const UnparsableRuleID = "unparsable-statement"

const statementDisplayLen = 80

// Option configures the Analyzer.
type Option func(*Analyzer)

// Analyzer runs registered rules against each statement of a migration file.
type Analyzer struct {
	registry *Registry
	parseFn  func(string) (*parser.ParseResult, error)
}

// New creates a new Analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: NewRegistry(),
		parseFn:  parser.Parse,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithRegistry sets a custom rule registry.
func WithRegistry(r *Registry) Option {
	return func(a *Analyzer) { a.registry = r }
}

// WithParser overrides the SQL parser function (useful for testing).
func WithParser(fn func(string) (*parser.ParseResult, error)) Option {
	return func(a *Analyzer) { a.parseFn = fn }
}

// Analyze splits f the way the runner does and checks every statement.
// A statement the parser rejects becomes an unparsable-statement finding
// rather than an error, so one bad statement does not hide the rest.
func (a *Analyzer) Analyze(f *migration.File) *AnalysisResult {
	res := &AnalysisResult{File: f, MaxSeverity: Safe}
	idx := 0

	for chunk := range migration.Split(f.SQL) {
		parsed, err := a.parseFn(chunk)
		if err != nil {
			res.add(Finding{
				Rule:       UnparsableRuleID,
				Severity:   Medium,
				Statement:  TruncateSQL(chunk, statementDisplayLen),
				Message:    "statement could not be parsed: " + err.Error(),
				Suggestion: "Check the syntax; dialect-specific statements are not linted",
				StmtIndex:  idx,
			})

			idx++

			continue
		}

		for i, stmt := range parsed.Stmts {
			text := parsed.Text(i)
			ctx := &RuleContext{File: f, StmtIndex: idx, SQL: text}

			for _, rule := range a.registry.Rules() {
				for _, fd := range rule.Check(stmt, ctx) {
					if fd.Statement == "" {
						fd.Statement = TruncateSQL(text, statementDisplayLen)
					}

					res.add(fd)
				}
			}

			idx++
		}
	}

	return res
}

// AnalyzeAll analyzes multiple files and returns results for each.
func (a *Analyzer) AnalyzeAll(files []migration.File) []AnalysisResult {
	results := make([]AnalysisResult, 0, len(files))

	for i := range files {
		results = append(results, *a.Analyze(&files[i]))
	}

	return results
}

func (r *AnalysisResult) add(f Finding) {
	if f.Severity > r.MaxSeverity {
		r.MaxSeverity = f.Severity
	}

	r.Findings = append(r.Findings, f)
}
