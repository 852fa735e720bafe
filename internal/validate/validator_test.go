package validate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-dataset/internal/model"
	"energy-dataset/internal/series"
	"energy-dataset/internal/validate"
)

var cet = time.FixedZone("CET", 3600)

func smardRegistry(t *testing.T) (*series.Registry, time.Time) {
	t.Helper()
	start := time.Date(2016, 3, 1, 15, 15, 0, 0, cet)
	iv := model.NewInterval(start)
	iv.Production.PV = 1156.25 * 1_000_000

	c := series.New("smard", 0, cet)
	c.Add(iv)

	reg := series.NewRegistry()
	require.NoError(t, reg.Register(c))
	return reg, start
}

func TestEvaluate_MatchingValuePasses(t *testing.T) {
	reg, start := smardRegistry(t)
	v, err := validate.New(reg)
	require.NoError(t, err)

	tc, err := validate.NewCase("Solar value", start.Unix(), "smard", "production", "pv", 1156.25e6)
	require.NoError(t, err)

	res, err := v.Evaluate(tc)
	require.NoError(t, err)
	assert.True(t, res.Passed)
	require.NotNil(t, res.Actual)
	assert.Equal(t, 1156.25e6, *res.Actual)
	assert.Equal(t, 1156.25e6, *res.Expected)
	assert.Equal(t, "Solar value", res.Description)
	assert.Equal(t, start.Unix(), res.Timestamp)
	assert.Equal(t, "production.pv", res.Path)
}

func TestEvaluate_WrongValueFails(t *testing.T) {
	reg, start := smardRegistry(t)
	v, err := validate.New(reg)
	require.NoError(t, err)

	tc, err := validate.NewCase("Solar value", start.Unix(), "smard", "production", "pv", 1e6)
	require.NoError(t, err)

	res, err := v.Evaluate(tc)
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, 1156.25e6, *res.Actual)
}

func TestEvaluate_MissingTimestampPropagates(t *testing.T) {
	reg, start := smardRegistry(t)
	v, err := validate.New(reg)
	require.NoError(t, err)

	tc, err := validate.NewCase("Solar value", start.Add(15*time.Minute).Unix(), "smard", "production", "pv", 1156.25e6)
	require.NoError(t, err)

	_, err = v.Evaluate(tc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, series.ErrNoData))
}

func TestEvaluate_UnknownCollectionPropagates(t *testing.T) {
	reg, start := smardRegistry(t)
	v, err := validate.New(reg)
	require.NoError(t, err)

	tc, err := validate.NewCase("Solar value", start.Unix(), "energycharts", "production", "pv", 1)
	require.NoError(t, err)

	_, err = v.Evaluate(tc)
	assert.ErrorIs(t, err, series.ErrUnknownCollection)
}

func TestEvaluate_UnsetValuesFailWithoutError(t *testing.T) {
	reg, start := smardRegistry(t)
	v, err := validate.New(reg)
	require.NoError(t, err)

	noExpected, err := validate.NewCase("no expected", start.Unix(), "smard", "production", "pv", 0)
	require.NoError(t, err)
	noExpected.Expected = nil

	res, err := v.Evaluate(noExpected)
	require.NoError(t, err)
	assert.False(t, res.Passed)

	expected := 0.0
	noActual := validate.Case{Description: "zero selector", Timestamp: start.Unix(), Collection: "smard", Expected: &expected}
	res, err = v.Evaluate(noActual)
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Nil(t, res.Actual)
}

func TestNewCase_RejectsInvalidPaths(t *testing.T) {
	_, err := validate.NewCase("bad", 0, "smard", "consumption", "pv", 1)
	assert.ErrorIs(t, err, model.ErrUnknownField)

	_, err = validate.NewCase("bad", 0, "smard", "weather", "pv", 1)
	assert.ErrorIs(t, err, model.ErrUnknownCategory)

	_, err = validate.NewCase("bad", 0, "", "production", "pv", 1)
	assert.Error(t, err)
}

func TestRun_StopsAtFirstError(t *testing.T) {
	reg, start := smardRegistry(t)
	v, err := validate.New(reg)
	require.NoError(t, err)

	ok, _ := validate.NewCase("ok", start.Unix(), "smard", "production", "pv", 1156.25e6)
	wrong, _ := validate.NewCase("wrong", start.Unix(), "smard", "production", "pv", 1)
	missing, _ := validate.NewCase("missing", 0, "smard", "production", "pv", 1)
	never, _ := validate.NewCase("never", start.Unix(), "smard", "production", "pv", 1156.25e6)

	results, err := v.Run([]validate.Case{ok, wrong, missing, never})
	assert.ErrorIs(t, err, series.ErrNoData)
	require.Len(t, results, 2)
	assert.Equal(t, validate.Summary{Total: 2, Passed: 1, Failed: 1}, validate.Summarize(results))
}
