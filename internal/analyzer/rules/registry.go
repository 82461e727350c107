package rules

import "github.com/aqasim81/sql-migrate-runner/internal/analyzer"

// NewDefaultRegistry returns a Registry with all built-in idempotency rules.
func NewDefaultRegistry() *analyzer.Registry {
	r := analyzer.NewRegistry()
	r.Register(NewCreateTableRule())
	r.Register(NewCreateIndexRule())
	r.Register(NewAddColumnRule())
	r.Register(NewDropRule())
	r.Register(NewInsertRule())

	return r
}
