//go:build no_containers

package plans

import (
	"os"
	"testing"
)

func postgresDSN(t *testing.T) string {
	t.Helper()
	return os.Getenv("EVR_TEST_POSTGRES_DSN")
}

func stopContainers() {}
