package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWorkspace writes a one-row smard file, the given cases and a config
// with continue_on_error set, and returns the config path.
func writeWorkspace(t *testing.T, cases string) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("smard.csv", "unix_seconds,Solar\n1456841700,1156.25\n")
	write("cases.yaml", cases)
	write("config.yaml", `
res_path: .
timezone: UTC
validation:
  continue_on_error: true
datasets:
  - name: smard
    provider: smard
    cases_file: cases.yaml
`)
	return filepath.Join(dir, "config.yaml")
}

const solarCase = `
  - description: Solar value
    unix_seconds: 1456841700
    category: production
    field: pv
    expected: 1156.25
    scale: 1000000
`

func TestValidate_ExitCode(t *testing.T) {
	cfg := writeWorkspace(t, "cases:"+solarCase)
	assert.Equal(t, 0, run([]string{"validate", "--config", cfg}))
	assert.Equal(t, 0, run([]string{"load", "--config", cfg}))
}

func TestValidate_UnevaluatedCaseFails(t *testing.T) {
	cfg := writeWorkspace(t, "cases:"+solarCase+`
  - description: Not in the file
    local_time: "2030-01-01 00:00"
    category: production
    field: pv
    expected: 1
`)
	assert.Equal(t, 1, run([]string{"validate", "--config", cfg}))
	// load reports the error but the load itself succeeded
	assert.Equal(t, 0, run([]string{"load", "--config", cfg}))
}

func TestRun_Usage(t *testing.T) {
	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"frobnicate"}))
}
