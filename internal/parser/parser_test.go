package parser_test

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-migrate-runner/internal/parser"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sql       string
		wantErr   bool
		wantStmts int
		checkNode func(t *testing.T, result *parser.ParseResult)
	}{
		{
			name:      "valid CREATE TABLE returns one statement",
			sql:       "CREATE TABLE users (id SERIAL PRIMARY KEY, name TEXT NOT NULL);",
			wantStmts: 1,
			checkNode: func(t *testing.T, result *parser.ParseResult) {
				t.Helper()
				_, ok := result.Stmts[0].Stmt.Node.(*pg_query.Node_CreateStmt)
				assert.True(t, ok, "expected CreateStmt node")
			},
		},
		{
			name:      "multi-statement SQL returns correct count",
			sql:       "CREATE TABLE a (id INT); CREATE TABLE b (id INT); CREATE TABLE c (id INT);",
			wantStmts: 3,
		},
		{
			name:      "CREATE INDEX CONCURRENTLY parses correctly",
			sql:       "CREATE INDEX CONCURRENTLY idx_name ON users (email);",
			wantStmts: 1,
			checkNode: func(t *testing.T, result *parser.ParseResult) {
				t.Helper()
				node, ok := result.Stmts[0].Stmt.Node.(*pg_query.Node_IndexStmt)
				require.True(t, ok, "expected IndexStmt node")
				assert.True(t, node.IndexStmt.Concurrent, "expected Concurrent to be true")
			},
		},
		{
			name:      "ALTER TABLE ADD COLUMN parses correctly",
			sql:       "ALTER TABLE users ADD COLUMN status TEXT;",
			wantStmts: 1,
			checkNode: func(t *testing.T, result *parser.ParseResult) {
				t.Helper()
				_, ok := result.Stmts[0].Stmt.Node.(*pg_query.Node_AlterTableStmt)
				assert.True(t, ok, "expected AlterTableStmt node")
			},
		},
		{
			name:    "invalid SQL returns error",
			sql:     "SELECT * FROM WHERE;",
			wantErr: true,
		},
		{
			name:      "empty string returns zero statements",
			sql:       "",
			wantStmts: 0,
			checkNode: func(t *testing.T, result *parser.ParseResult) {
				t.Helper()
				assert.Empty(t, result.SQL)
			},
		},
		{
			name:      "whitespace-only returns zero statements",
			sql:       "   \n\t  ",
			wantStmts: 0,
			checkNode: func(t *testing.T, result *parser.ParseResult) {
				t.Helper()
				assert.Equal(t, "   \n\t  ", result.SQL, "original SQL preserved")
			},
		},
		{
			name:      "CREATE TABLE IF NOT EXISTS sets the flag",
			sql:       "CREATE TABLE IF NOT EXISTS users (id INT);",
			wantStmts: 1,
			checkNode: func(t *testing.T, result *parser.ParseResult) {
				t.Helper()
				node, ok := result.Stmts[0].Stmt.Node.(*pg_query.Node_CreateStmt)
				require.True(t, ok, "expected CreateStmt node")
				assert.True(t, node.CreateStmt.IfNotExists)
			},
		},
		{
			name:      "DROP INDEX IF EXISTS sets MissingOk",
			sql:       "DROP INDEX IF EXISTS idx_users_email;",
			wantStmts: 1,
			checkNode: func(t *testing.T, result *parser.ParseResult) {
				t.Helper()
				node, ok := result.Stmts[0].Stmt.Node.(*pg_query.Node_DropStmt)
				require.True(t, ok, "expected DropStmt node")
				assert.True(t, node.DropStmt.MissingOk)
			},
		},
		{
			name:      "INSERT ON CONFLICT keeps the clause",
			sql:       "INSERT INTO sports (name) VALUES ('run') ON CONFLICT DO NOTHING;",
			wantStmts: 1,
			checkNode: func(t *testing.T, result *parser.ParseResult) {
				t.Helper()
				node, ok := result.Stmts[0].Stmt.Node.(*pg_query.Node_InsertStmt)
				require.True(t, ok, "expected InsertStmt node")
				assert.NotNil(t, node.InsertStmt.OnConflictClause)
			},
		},
		{
			name:    "MySQL backtick identifiers are rejected",
			sql:     "CREATE TABLE `users` (`id` INT) ENGINE=InnoDB;",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := parser.Parse(tt.sql)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, result)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Len(t, result.Stmts, tt.wantStmts)
			assert.Equal(t, tt.sql, result.SQL)

			if tt.checkNode != nil {
				tt.checkNode(t, result)
			}
		})
	}
}

func TestParseResult_Text(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sql  string
		idx  int
		want string
	}{
		{
			name: "single statement",
			sql:  "CREATE TABLE users (id INT);",
			idx:  0,
			want: "CREATE TABLE users (id INT)",
		},
		{
			name: "second of two statements",
			sql:  "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);",
			idx:  1,
			want: "CREATE TABLE b (id INT)",
		},
		{
			name: "last statement without semicolon",
			sql:  "SELECT 1; SELECT 2",
			idx:  1,
			want: "SELECT 2",
		},
		{
			name: "out of range",
			sql:  "SELECT 1;",
			idx:  5,
			want: "",
		},
		{
			name: "negative index",
			sql:  "SELECT 1;",
			idx:  -1,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := parser.Parse(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Text(tt.idx))
		})
	}
}

func TestParseResult_Text_empty(t *testing.T) {
	t.Parallel()

	result, err := parser.Parse("")
	require.NoError(t, err)
	assert.Empty(t, result.Text(0))
}
