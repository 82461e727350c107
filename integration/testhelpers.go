//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aqasim81/sql-migrate-runner/internal/database"
)

const (
	postgresImage = "postgres:16-alpine"
	mysqlImage    = "mysql:8.0"
	testDB        = "migrate_test"
	testUser      = "migrate"
	testPassword  = "migrate"
)

// containerDSN starts the database container for driver and returns a
// connection string for it. The container is terminated when the test ends.
func containerDSN(t *testing.T, driver database.Driver) string {
	t.Helper()

	ctx := context.Background()

	var (
		req  testcontainers.ContainerRequest
		port string
	)

	switch driver {
	case database.Postgres:
		port = "5432/tcp"
		req = testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{port},
			Env: map[string]string{
				"POSTGRES_DB":       testDB,
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		}
	case database.MySQL:
		port = "3306/tcp"
		req = testcontainers.ContainerRequest{
			Image:        mysqlImage,
			ExposedPorts: []string{port},
			Env: map[string]string{
				"MYSQL_DATABASE":      testDB,
				"MYSQL_USER":          testUser,
				"MYSQL_PASSWORD":      testPassword,
				"MYSQL_ROOT_PASSWORD": testPassword,
			},
			WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(120 * time.Second),
		}
	default:
		t.Fatalf("no container for driver %q", driver)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)

	if driver == database.MySQL {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", testUser, testPassword, host, mapped.Port(), testDB)
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", testUser, testPassword, host, mapped.Port(), testDB)
}

// SetupDatabase starts a container for driver and returns an open handle.
func SetupDatabase(t *testing.T, driver database.Driver) *database.Handle {
	t.Helper()

	h, err := database.Open(context.Background(), driver, containerDSN(t, driver))
	require.NoError(t, err)

	t.Cleanup(h.Close)

	return h
}

// containerDrivers are the drivers exercised against real servers.
var containerDrivers = []database.Driver{database.Postgres, database.MySQL} //nolint:gochecknoglobals // test table
