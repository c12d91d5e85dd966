package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evroute/core/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("EVR_STORAGE__BACKEND", "jsonl")
	t.Setenv("EVR_STORAGE__PATH", filepath.Join(t.TempDir(), "plans.jsonl"))
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		cfgPath = ""
		planFormat = "table"
		planOut = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBatchCommand(t *testing.T) {
	out, err := execute(t, "batch", filepath.Join("..", "qa", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "hamburg_munich ")
	assert.NotContains(t, out, "FAIL")
}

func TestPlanCommandJSON(t *testing.T) {
	out, err := execute(t, "plan", "--format", "json", filepath.Join("..", "qa", "scenarios", "hamburg_munich.yaml"))
	require.NoError(t, err, out)
	var plans []model.RoutePlan
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, 2, plans[0].ChargeStops)
}

func TestPlanCommandInfeasible(t *testing.T) {
	out, err := execute(t, "plan", filepath.Join("..", "qa", "scenarios", "no_stations.yaml"))
	require.Error(t, err)
	assert.True(t, strings.Contains(out, "infeasible"), out)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration ok")
	assert.Contains(t, out, "prometheus")
}

func TestEnvFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("EVR_OBJECTIVE__MODE=pareto\n"), 0o600))
	t.Cleanup(func() {
		envFile = ".env"
		_ = os.Unsetenv("EVR_OBJECTIVE__MODE")
	})
	out, err := execute(t, "validate", "--env-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "objective: pareto")
}
