//go:build !no_containers

package plans

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	pgOnce      sync.Once
	pgDSN       string
	pgErr       error
	pgContainer tc.Container
)

func dockerAvailable() bool {
	v := os.Getenv("DOCKER_AVAILABLE")
	return v == "true" || v == "1"
}

// postgresDSN returns EVR_TEST_POSTGRES_DSN when set, otherwise the DSN of a
// disposable PostgreSQL container shared by the package tests. It returns ""
// when neither is available.
func postgresDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("EVR_TEST_POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	if testing.Short() || !dockerAvailable() {
		return ""
	}
	pgOnce.Do(func() { pgDSN, pgErr = startPostgres(context.Background()) })
	if pgErr != nil {
		t.Fatalf("start postgres container: %v", pgErr)
	}
	return pgDSN
}

func startPostgres(ctx context.Context) (string, error) {
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "evroute",
			"POSTGRES_PASSWORD": "evroute",
			"POSTGRES_DB":       "plans",
		},
		// the server restarts once after init
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		return "", err
	}
	pgContainer = c
	host, err := c.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgres://evroute:evroute@%s:%s/plans?sslmode=disable", host, port.Port()), nil
}

func stopContainers() {
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
}
