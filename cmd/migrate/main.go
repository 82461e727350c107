// Command migrate applies re-runnable SQL migrations.
package main

import "github.com/aqasim81/sql-migrate-runner/internal/cli"

func main() {
	cli.Execute()
}
