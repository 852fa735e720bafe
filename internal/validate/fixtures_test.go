package validate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dataset/internal/model"
)

const fixtureDoc = `
collection: smard
cases:
  - description: Solar value
    local_time: "2016-03-01 15:15"
    category: production
    field: pv
    expected: 1156.25
    scale: 1000000
  - description: Load value
    unix_seconds: 1661910300
    category: consumption
    field: load
    expected: 10300500000
  - description: Other collection, no expected value
    collection: energycharts
    local_time: "2022-08-31 03:45"
    category: power
    field: nuclear
`

func TestParseCases(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	cases, err := ParseCases([]byte(fixtureDoc), "", cet)
	require.NoError(t, err)
	require.Len(t, cases, 3)

	solar := cases[0]
	assert.Equal(t, "smard", solar.Collection)
	assert.Equal(t, time.Date(2016, 3, 1, 15, 15, 0, 0, cet).Unix(), solar.Timestamp)
	assert.Equal(t, model.Selector{Category: model.CategoryProduction, Field: model.FieldPV}, solar.Selector)
	require.NotNil(t, solar.Expected)
	assert.Equal(t, 1156.25*1_000_000, *solar.Expected)

	load := cases[1]
	assert.Equal(t, int64(1661910300), load.Timestamp)
	assert.Equal(t, 10300.5e6, *load.Expected)

	other := cases[2]
	assert.Equal(t, "energycharts", other.Collection)
	assert.Nil(t, other.Expected)
}

func TestParseCases_Errors(t *testing.T) {
	docs := map[string]string{
		"bad field": `
collection: smard
cases:
  - {description: x, unix_seconds: 1, category: consumption, field: pv, expected: 1}`,
		"no timestamp": `
collection: smard
cases:
  - {description: x, category: production, field: pv, expected: 1}`,
		"both timestamps": `
collection: smard
cases:
  - {description: x, unix_seconds: 1, local_time: "2016-03-01 15:15", category: production, field: pv}`,
		"bad local time": `
collection: smard
cases:
  - {description: x, local_time: "01.03.2016 15:15", category: production, field: pv}`,
		"no collection": `
cases:
  - {description: x, unix_seconds: 1, category: production, field: pv}`,
		"not yaml": `cases: [`,
	}
	for name, doc := range docs {
		_, err := ParseCases([]byte(doc), "", time.UTC)
		assert.Error(t, err, name)
	}
}

func TestParseCases_FallbackCollection(t *testing.T) {
	doc := `
cases:
  - {description: x, unix_seconds: 1, category: production, field: pv, expected: 1}`
	cases, err := ParseCases([]byte(doc), "smard", time.UTC)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "smard", cases[0].Collection)
}

func TestLoadCases_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureDoc), 0o644))

	cases, err := LoadCases(path, "", time.UTC)
	require.NoError(t, err)
	assert.Len(t, cases, 3)

	_, err = LoadCases(filepath.Join(t.TempDir(), "missing.yaml"), "", time.UTC)
	assert.True(t, os.IsNotExist(err))
}
