//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/sql-migrate-runner/internal/tracker"
)

func TestTracker_fullLifecycle(t *testing.T) {
	t.Parallel()

	for _, driver := range containerDrivers {
		t.Run(string(driver), func(t *testing.T) {
			t.Parallel()

			h := SetupDatabase(t, driver)
			ctx := context.Background()

			tr, err := tracker.New(h)
			require.NoError(t, err)

			// EnsureTable creates the table and is idempotent.
			require.NoError(t, tr.EnsureTable(ctx))
			require.NoError(t, tr.EnsureTable(ctx))

			applied, err := tr.GetApplied(ctx)
			require.NoError(t, err)
			assert.Empty(t, applied)

			ok, err := tr.AlreadyApplied(ctx, "001_users.sql", "abc123")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, tr.RecordApplied(ctx, "001_users.sql", "abc123"))

			ok, err = tr.AlreadyApplied(ctx, "001_users.sql", "abc123")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = tr.AlreadyApplied(ctx, "001_users.sql", "def456")
			require.NoError(t, err)
			assert.False(t, ok, "different checksum is not applied")

			// Recording a new checksum replaces the row.
			require.NoError(t, tr.RecordApplied(ctx, "001_users.sql", "def456"))

			applied, err = tr.GetApplied(ctx)
			require.NoError(t, err)
			require.Len(t, applied, 1)
			assert.Equal(t, "001_users.sql", applied[0].Filename)
			assert.Equal(t, "def456", applied[0].Checksum)
			assert.False(t, applied[0].AppliedAt.IsZero())

			ok, err = tr.AlreadyApplied(ctx, "001_users.sql", "def456")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}
