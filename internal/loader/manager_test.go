package loader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dataset/internal/config"
	"energy-dataset/internal/series"
	"energy-dataset/internal/validate"
)

var smardColumns = []string{
	"unix_seconds", "Solar", "Wind offshore", "Wind onshore", "Biomass", "Hydro",
	"Other renewables", "Fossil hard coal", "Fossil brown coal / lignite", "Fossil gas",
	"Other conventionals", "Nuclear",
	"Installed solar", "Installed wind offshore", "Installed wind onshore", "Installed biomass",
	"Installed hydro", "Installed other renewables", "Installed fossil hard coal",
	"Installed fossil brown coal / lignite", "Installed fossil gas", "Installed other conventionals",
	"Installed nuclear", "Load", "Residual load",
}

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

// writeSmard writes one CSV row per entry; unset columns are "0".
func writeSmard(t *testing.T, dir string, rows []map[string]string) {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(smardColumns, ",") + "\n")
	for _, r := range rows {
		cells := make([]string, len(smardColumns))
		for i, col := range smardColumns {
			v, ok := r[col]
			if !ok {
				v = "0"
			}
			cells[i] = v
		}
		b.WriteString(strings.Join(cells, ",") + "\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smard.csv"), []byte(b.String()), 0o644))
}

func referenceRows(t *testing.T) []map[string]string {
	loc := berlin(t)
	unix := func(tm time.Time) string { return strconv.FormatInt(tm.Unix(), 10) }
	return []map[string]string{
		{"unix_seconds": unix(time.Date(2016, 3, 1, 15, 15, 0, 0, loc)), "Solar": "1156.25"},
		{"unix_seconds": unix(time.Date(2016, 3, 1, 15, 30, 0, 0, loc)), "Solar": "1100", "Biomass": ""},
		{"unix_seconds": unix(time.Date(2022, 8, 31, 3, 45, 0, 0, loc)), "Load": "10300.5", "Wind onshore": "1769.75"},
	}
}

func testConfig(dir string) *config.Config {
	c := config.Default()
	c.ResPath = dir
	c.ProgressEvery = 2
	return c
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetOutput(io.Discard)
	return logger, hook
}

func TestData_LoadsValidatesAndCaches(t *testing.T) {
	dir := t.TempDir()
	writeSmard(t, dir, referenceRows(t))
	logger, hook := quietLogger()

	m, err := New(testConfig(dir), logger)
	require.NoError(t, err)

	reg, err := m.Data(context.Background())
	require.NoError(t, err)
	again, err := m.Data(context.Background())
	require.NoError(t, err)
	assert.Same(t, reg, again)

	assert.Equal(t, []string{"agora", "energycharts", "smard"}, reg.Names())

	smard, err := reg.Collection("smard")
	require.NoError(t, err)
	assert.Equal(t, 3, smard.Len())
	iv, err := smard.ByTimestamp(time.Date(2016, 3, 1, 15, 15, 0, 0, berlin(t)).Unix())
	require.NoError(t, err)
	assert.Equal(t, 1156.25*1_000_000, iv.Production.PV)

	reports := m.Reports()
	require.Len(t, reports, 3)

	sm := reports[0]
	assert.True(t, sm.Loaded())
	assert.Equal(t, 3, sm.Rows)
	assert.Equal(t, 1, sm.Defects)
	assert.Equal(t, 3, sm.Validation.Total)
	assert.Equal(t, 3, sm.Validation.Passed)
	assert.True(t, sm.First.Equal(time.Date(2016, 3, 1, 15, 15, 0, 0, berlin(t))))
	assert.True(t, sm.Last.Equal(time.Date(2022, 8, 31, 3, 45, 0, 0, berlin(t))))

	assert.Equal(t, "file not found", reports[1].Skipped)
	assert.Equal(t, "no provider", reports[2].Skipped)

	var sawProgress, sawDefect bool
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "progress":
			sawProgress = true
		case "unreadable source value":
			sawDefect = true
			assert.Equal(t, "Biomass", e.Data["column"])
			assert.Equal(t, 1, e.Data["row"])
		}
	}
	assert.True(t, sawProgress)
	assert.True(t, sawDefect)
}

func TestReload_SwapsRegistry(t *testing.T) {
	dir := t.TempDir()
	writeSmard(t, dir, referenceRows(t))
	logger, _ := quietLogger()

	m, err := New(testConfig(dir), logger)
	require.NoError(t, err)
	first, err := m.Data(context.Background())
	require.NoError(t, err)

	rows := append(referenceRows(t), map[string]string{"unix_seconds": "1700000000"})
	writeSmard(t, dir, rows)
	second, err := m.Reload(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	old, _ := first.Collection("smard")
	fresh, _ := second.Collection("smard")
	assert.Equal(t, 3, old.Len())
	assert.Equal(t, 4, fresh.Len())
}

func writeCases(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const casesWithMissingTimestamp = `
cases:
  - description: Solar value
    local_time: "2016-03-01 15:15"
    category: production
    field: pv
    expected: 1156.25
    scale: 1000000
  - description: Not in the file
    local_time: "2030-01-01 00:00"
    category: production
    field: pv
    expected: 1
  - description: Wrong solar value
    local_time: "2016-03-01 15:30"
    category: production
    field: pv
    expected: 1
`

func TestValidation_AbortsOnLookupError(t *testing.T) {
	dir := t.TempDir()
	writeSmard(t, dir, referenceRows(t))
	cfg := testConfig(dir)
	cfg.Datasets[0].CasesFile = writeCases(t, dir, casesWithMissingTimestamp)
	logger, _ := quietLogger()

	m, err := New(cfg, logger)
	require.NoError(t, err)
	_, err = m.Data(context.Background())
	assert.ErrorIs(t, err, series.ErrNoData)
	assert.Empty(t, m.Reports())
}

func TestValidation_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	writeSmard(t, dir, referenceRows(t))
	cfg := testConfig(dir)
	cfg.Validation.ContinueOnError = true
	cfg.Datasets[0].CasesFile = writeCases(t, dir, casesWithMissingTimestamp)
	logger, hook := quietLogger()

	m, err := New(cfg, logger)
	require.NoError(t, err)
	_, err = m.Data(context.Background())
	require.NoError(t, err)

	rep := m.Reports()[0]
	require.Len(t, rep.Results, 2)
	assert.Equal(t, "smard", rep.Results[0].Collection)
	assert.True(t, rep.Results[0].Passed)
	assert.False(t, rep.Results[1].Passed)
	assert.Equal(t, 1, rep.Validation.Failed)

	require.Len(t, rep.Errors, 1)
	assert.Equal(t, "Not in the file", rep.Errors[0].Description)
	assert.Equal(t, "production.pv", rep.Errors[0].Path)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, berlin(t)).Unix(), rep.Errors[0].Timestamp)
	assert.Contains(t, rep.Errors[0].Err, series.ErrNoData.Error())
	assert.Equal(t, 2, rep.Unsuccessful())

	var errEntries int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errEntries++
		}
	}
	assert.Equal(t, 1, errEntries)
}

func TestValidation_ContinueOnErrorCountsUnevaluatedCases(t *testing.T) {
	dir := t.TempDir()
	writeSmard(t, dir, referenceRows(t))
	cfg := testConfig(dir)
	cfg.Validation.ContinueOnError = true
	cfg.Datasets[0].CasesFile = writeCases(t, dir, `
cases:
  - description: Not in the file
    local_time: "2030-01-01 00:00"
    category: production
    field: pv
    expected: 1
`)
	logger, _ := quietLogger()

	m, err := New(cfg, logger)
	require.NoError(t, err)
	_, err = m.Data(context.Background())
	require.NoError(t, err)

	rep := m.Reports()[0]
	assert.Empty(t, rep.Results)
	assert.Equal(t, 0, rep.Validation.Total)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, 1, rep.Unsuccessful())
}

func TestLoadDataset_DropsRowsWithoutTimestamp(t *testing.T) {
	dir := t.TempDir()
	ref := referenceRows(t)
	rows := []map[string]string{
		ref[0],
		{"unix_seconds": "", "Solar": "1"},
		{"unix_seconds": "NaN", "Solar": "2"},
		ref[1],
		ref[2],
	}
	writeSmard(t, dir, rows)
	logger, _ := quietLogger()

	m, err := New(testConfig(dir), logger)
	require.NoError(t, err)
	reg, err := m.Data(context.Background())
	require.NoError(t, err)

	smard, err := reg.Collection("smard")
	require.NoError(t, err)
	assert.Equal(t, 3, smard.Len())
	_, ok := smard.TryByTimestamp(0)
	assert.False(t, ok)
	for i := 0; i < smard.Len(); i++ {
		_, err := smard.ByPosition(i)
		assert.NoError(t, err, i)
	}

	rep := m.Reports()[0]
	assert.Equal(t, 3, rep.Rows)
	assert.Equal(t, 2, rep.Dropped)
	assert.Equal(t, 3, rep.Defects)
	assert.True(t, rep.Last.Equal(time.Date(2022, 8, 31, 3, 45, 0, 0, berlin(t))))
	assert.Equal(t, 3, rep.Validation.Passed)
}

func TestLoadDataset_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	writeSmard(t, dir, referenceRows(t))
	logger, _ := quietLogger()

	m, err := New(testConfig(dir), logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Data(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDataset_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smard.txt"), []byte("x"), 0o644))
	cfg := testConfig(dir)
	cfg.Datasets[0].File = "smard.txt"
	logger, _ := quietLogger()

	m, err := New(cfg, logger)
	require.NoError(t, err)
	_, err = m.Data(context.Background())
	assert.Error(t, err)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Timezone = "Mars/Olympus"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestReferenceCases(t *testing.T) {
	cases, err := ReferenceCases("smard", berlin(t))
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, "Solar value", cases[0].Description)
	assert.Equal(t, 1156.25e6, *cases[0].Expected)
	assert.Equal(t, "consumption.load", cases[1].Selector.String())
	assert.Equal(t, 1769.75e6, *cases[2].Expected)
}

func TestReferenceCasesMatchExampleFixture(t *testing.T) {
	loc := berlin(t)
	want, err := ReferenceCases(ReferenceCollection, loc)
	require.NoError(t, err)

	got, err := validate.LoadCases(filepath.Join("..", "..", "examples", "cases", "smard.yaml"), "", loc)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
