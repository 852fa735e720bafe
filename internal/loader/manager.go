package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"energy-dataset/internal/canon"
	"energy-dataset/internal/config"
	"energy-dataset/internal/data"
	"energy-dataset/internal/metrics"
	"energy-dataset/internal/series"
	"energy-dataset/internal/validate"
)

// Manager loads the configured datasets into a registry of collections and
// validates them. The registry is built once on first use; Reload builds a
// fresh one and swaps it in, so registries handed out earlier stay valid.
type Manager struct {
	cfg   *config.Config
	loc   *time.Location
	log   *logrus.Logger
	cache *data.Cache

	mu      sync.Mutex
	reg     *series.Registry
	reports []Report
}

func New(cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("loader: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	ttl, err := cfg.CacheDuration()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		cfg:   cfg,
		loc:   loc,
		log:   logger,
		cache: data.NewCache(ttl),
	}, nil
}

func (m *Manager) Location() *time.Location { return m.loc }

// Data returns the loaded registry, loading every dataset on the first call.
func (m *Manager) Data(ctx context.Context) (*series.Registry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reg != nil {
		return m.reg, nil
	}
	return m.loadLocked(ctx)
}

// Reload discards the current registry and loads everything again.
func (m *Manager) Reload(ctx context.Context) (*series.Registry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx)
}

// Reports returns the per-dataset reports of the last load.
func (m *Manager) Reports() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Report, len(m.reports))
	copy(out, m.reports)
	return out
}

func (m *Manager) loadLocked(ctx context.Context) (*series.Registry, error) {
	reg, reports, err := m.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	m.reg = reg
	m.reports = reports
	return reg, nil
}

// LoadAll builds a new registry from the configuration: every dataset is
// registered, datasets with a provider are loaded, then every collection's
// cases are evaluated.
func (m *Manager) LoadAll(ctx context.Context) (*series.Registry, []Report, error) {
	reg := series.NewRegistry()
	reports := make([]Report, 0, len(m.cfg.Datasets))

	for _, ds := range m.cfg.Datasets {
		t := &tally{log: m.log.WithField("dataset", ds.Name)}
		c, err := m.newCollection(ds, t)
		if err != nil {
			return nil, nil, err
		}
		if err := reg.Register(c); err != nil {
			return nil, nil, err
		}
		rep, err := m.loadDataset(ctx, c, ds.Path(m.cfg.ResPath), t)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset %q: %w", ds.Name, err)
		}
		reports = append(reports, rep)
	}

	for i, c := range reg.Collections() {
		results, caseErrs, err := m.ValidateDataset(reg, c)
		reports[i].Results = results
		reports[i].Errors = caseErrs
		reports[i].Validation = validate.Summarize(results)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset %q: %w", c.Name(), err)
		}
	}
	return reg, reports, nil
}

func (m *Manager) newCollection(ds config.DatasetConfig, t *tally) (*series.Collection, error) {
	c := series.New(ds.Name, 0, m.loc)

	if ds.Provider != "" {
		fn, err := canon.New(ds.Provider, m.loc, t.report)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", ds.Name, err)
		}
		c.SetParseFunc(fn)
	}

	cases, err := m.casesFor(ds)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", ds.Name, err)
	}
	for _, tc := range cases {
		c.AddCase(tc)
	}
	return c, nil
}

func (m *Manager) casesFor(ds config.DatasetConfig) ([]validate.Case, error) {
	if ds.CasesFile != "" {
		return validate.LoadCases(ds.CasesFile, ds.Name, m.loc)
	}
	if ds.Name == ReferenceCollection {
		return ReferenceCases(ds.Name, m.loc)
	}
	return nil, nil
}

// tally counts and logs the defects of one dataset load.
type tally struct {
	log   *logrus.Entry
	row   int
	count int
	// noStart is set when the current row has no usable timestamp.
	noStart bool
}

func (t *tally) report(d canon.Defect) {
	t.count++
	if d.Column == canon.TimestampColumn {
		t.noStart = true
	}
	t.log.WithFields(logrus.Fields{
		"row":      t.row,
		"provider": d.Provider,
		"column":   d.Column,
	}).WithError(d.Err).Debug("unreadable source value")
}

// loadDataset reads the file at path through the collection's parse function
// and fills the collection positionally. t must be the reporter the parse
// function writes to. A missing file is logged and skipped; a collection
// without a parse function is skipped as well. Rows without a readable
// timestamp are dropped so starts stay unique.
func (m *Manager) loadDataset(ctx context.Context, c *series.Collection, path string, t *tally) (Report, error) {
	rep := Report{Dataset: c.Name(), Path: path}
	logger := m.log.WithFields(logrus.Fields{"dataset": c.Name(), "path": path})

	parse := c.ParseFunc()
	if parse == nil {
		rep.Skipped = "no provider"
		logger.Info("dataset has no provider, not loading")
		metrics.ObserveLoad(c.Name(), metrics.ResultSkipped, 0)
		return rep, nil
	}

	started := time.Now()
	table, hit, err := m.cache.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		rep.Skipped = "file not found"
		logger.WithError(err).Warn("dataset file not found, skipping")
		metrics.ObserveLoad(c.Name(), metrics.ResultSkipped, 0)
		return rep, nil
	}
	if err != nil {
		metrics.ObserveLoad(c.Name(), metrics.ResultError, time.Since(started))
		return rep, err
	}

	total := table.Len()
	logger.WithFields(logrus.Fields{"rows": total, "cached": hit}).Info("loading dataset")

	t.count = 0

	c.SetSize(total)
	for row := 0; row < total; row++ {
		t.row = row
		if err := ctx.Err(); err != nil {
			metrics.ObserveLoad(c.Name(), metrics.ResultError, time.Since(started))
			return rep, err
		}
		t.noStart = false
		iv := parse(table.Row(row))
		if t.noStart {
			rep.Dropped++
			continue
		}
		if err := c.Insert(iv, row); err != nil {
			return rep, err
		}
		if every := m.cfg.ProgressEvery; every > 0 && (row+1)%every == 0 {
			logger.WithFields(logrus.Fields{
				"rows":    row + 1,
				"total":   total,
				"percent": fmt.Sprintf("%.1f", float64(row+1)*100/float64(total)),
			}).Info("progress")
		}
	}

	if rep.Dropped > 0 {
		// close the gaps left by dropped rows
		c.Replace(c.All())
	}
	rep.Rows = c.Len()
	rep.Defects = t.count
	rep.Duration = time.Since(started)
	if rep.Rows > 0 {
		rep.AvgPerRow = rep.Duration / time.Duration(rep.Rows)
		first, _ := c.TryByPosition(0)
		last, _ := c.TryByPosition(rep.Rows - 1)
		rep.First, rep.Last = first.Start(), last.Start()
	}

	metrics.ObserveLoad(c.Name(), metrics.ResultSuccess, rep.Duration)
	metrics.SetRows(c.Name(), rep.Rows)
	metrics.AddDefects(c.Name(), t.count)

	summary := logger.WithFields(logrus.Fields{
		"rows":        rep.Rows,
		"total_time":  rep.Duration.String(),
		"avg_per_row": rep.AvgPerRow.String(),
	})
	if rep.Rows > 0 {
		summary = summary.WithFields(logrus.Fields{
			"first": rep.First.Format(time.RFC3339),
			"last":  rep.Last.Format(time.RFC3339),
		})
	}
	summary.Info("dataset loaded")
	if t.count > 0 {
		logger.WithFields(logrus.Fields{"defects": t.count, "dropped": rep.Dropped}).Warn("dataset contains unreadable values")
	}
	return rep, nil
}

// ValidateDataset evaluates the collection's cases against reg. With
// validation.continue_on_error set, a case whose lookup fails is logged,
// returned as a CaseError and skipped; otherwise the first such error aborts.
func (m *Manager) ValidateDataset(reg *series.Registry, c *series.Collection) ([]validate.Result, []CaseError, error) {
	cases := c.Cases()
	if len(cases) == 0 {
		return nil, nil, nil
	}
	v, err := validate.New(reg)
	if err != nil {
		return nil, nil, err
	}

	logger := m.log.WithField("dataset", c.Name())
	results := make([]validate.Result, 0, len(cases))
	var caseErrs []CaseError
	for _, tc := range cases {
		res, err := v.Evaluate(tc)
		metrics.IncValidation(c.Name(), res.Passed, err)
		if err != nil {
			if !m.cfg.Validation.ContinueOnError {
				return results, caseErrs, err
			}
			logger.WithError(err).WithField("case", tc.Description).Error("validation case could not be evaluated")
			caseErrs = append(caseErrs, CaseError{
				Description: tc.Description,
				Timestamp:   tc.Timestamp,
				Path:        tc.Selector.String(),
				Err:         err.Error(),
			})
			continue
		}
		results = append(results, res)
		entry := logger.WithFields(logrus.Fields{
			"case":     res.Description,
			"path":     res.Path,
			"expected": formatValue(res.Expected),
			"actual":   formatValue(res.Actual),
			"result":   res.Passed,
		})
		if res.Passed {
			entry.Info("validation passed")
		} else {
			entry.Warn("validation failed")
		}
	}
	s := validate.Summarize(results)
	logger.WithFields(logrus.Fields{
		"total":  s.Total,
		"passed": s.Passed,
		"failed": s.Failed,
		"errors": len(caseErrs),
	}).Info("validation finished")
	return results, caseErrs, nil
}

func formatValue(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%g", *v)
}
