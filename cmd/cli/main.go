package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"energy-dataset/internal/analysis"
	"energy-dataset/internal/config"
	"energy-dataset/internal/export"
	"energy-dataset/internal/loader"
	"energy-dataset/internal/model"
	"energy-dataset/internal/series"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch args[0] {
	case "load":
		return cmdLoad(ctx, args[1:])
	case "validate":
		return cmdValidate(ctx, args[1:])
	case "query":
		return cmdQuery(ctx, args[1:])
	case "export":
		return cmdExport(ctx, args[1:])
	case "stats":
		return cmdStats(ctx, args[1:])
	default:
		usage()
		return 2
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli load     --config examples/config.yaml")
	fmt.Println("  cli validate --config examples/config.yaml")
	fmt.Println("  cli query    --config examples/config.yaml --collection smard --at \"2016-03-01 15:15\"")
	fmt.Println("  cli query    --config examples/config.yaml --collection smard --from \"2022-08-31 00:00\" --to \"2022-08-31 06:00\"")
	fmt.Println("  cli export   --config examples/config.yaml --collection smard --year 2022 --out results/smard_2022.xlsx")
	fmt.Println("  cli stats    --config examples/config.yaml --collection smard --year 2022 --field production.pv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --config the default layout is used (./static/res/<name>.csv)")
	fmt.Println("  - times are \"2006-01-02 15:04\" in the configured time zone, or Unix seconds")
	fmt.Println("  - validate exits with 1 when any case fails")
}

type common struct {
	cfgPath *string
	verbose *bool
}

func addCommon(fs *flag.FlagSet) common {
	return common{
		cfgPath: fs.String("config", "", "Path to YAML config"),
		verbose: fs.Bool("v", false, "Log every unreadable source value"),
	}
}

func (c common) manager() (*loader.Manager, *logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *c.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var cfg *config.Config
	var err error
	if *c.cfgPath != "" {
		cfg, err = config.Load(*c.cfgPath)
	} else {
		cfg = config.Default()
		if err = cfg.ApplyEnv(os.Getenv); err == nil {
			err = cfg.Validate()
		}
	}
	if err != nil {
		return nil, nil, err
	}
	m, err := loader.New(cfg, logger)
	return m, logger, err
}

func cmdLoad(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	c := addCommon(fs)
	_ = fs.Parse(args)

	m, logger, err := c.manager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if _, err := m.Data(ctx); err != nil {
		logger.WithError(err).Error("load failed")
		return 1
	}
	printReports(m.Reports())
	return 0
}

func cmdValidate(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	c := addCommon(fs)
	_ = fs.Parse(args)

	m, logger, err := c.manager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if _, err := m.Data(ctx); err != nil {
		logger.WithError(err).Error("validation aborted")
		return 1
	}

	failed := 0
	fmt.Printf("%-14s %-28s %-26s %-18s %-18s %s\n", "collection", "case", "path", "expected", "actual", "result")
	for _, rep := range m.Reports() {
		for _, r := range rep.Results {
			fmt.Printf("%-14s %-28s %-26s %-18s %-18s %v\n",
				r.Collection, r.Description, r.Path, fmtPtr(r.Expected), fmtPtr(r.Actual), r.Passed)
		}
		for _, e := range rep.Errors {
			fmt.Printf("%-14s %-28s %-26s %-18s %-18s error: %s\n",
				rep.Dataset, e.Description, e.Path, "-", "-", e.Err)
		}
		failed += rep.Unsuccessful()
	}
	if failed > 0 {
		fmt.Printf("%d case(s) failed or could not be evaluated\n", failed)
		return 1
	}
	return 0
}

func cmdQuery(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	c := addCommon(fs)
	name := fs.String("collection", "smard", "Collection name")
	at := fs.String("at", "", "Interval start for a point lookup")
	from := fs.String("from", "", "Range start (inclusive)")
	to := fs.String("to", "", "Range end (inclusive)")
	divide := fs.Float64("divide", 0, "Divide every value, e.g. 1000000 for MWh / MW")
	_ = fs.Parse(args)

	m, logger, err := c.manager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	col, err := collection(ctx, m, *name)
	if err != nil {
		logger.WithError(err).Error("query failed")
		return 1
	}
	loc := m.Location()

	var ivs []model.Interval
	switch {
	case *at != "":
		t, err := parseTime(*at, loc)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		iv, err := col.ByStart(t)
		if err != nil {
			logger.WithError(err).Error("query failed")
			return 1
		}
		ivs = []model.Interval{iv}
	case *from != "" && *to != "":
		a, err := parseTime(*from, loc)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		b, err := parseTime(*to, loc)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		ivs = col.Range(a, b)
	default:
		fmt.Println("either --at or --from and --to are required")
		return 2
	}

	fmt.Printf("%-26s %-14s %-14s %-14s %-14s %-14s\n", "start", "pv", "wind_onshore", "renewables", "fossils", "load")
	for _, iv := range ivs {
		if *divide != 0 {
			iv = iv.Div(*divide)
		}
		fmt.Printf("%-26s %-14.2f %-14.2f %-14.2f %-14.2f %-14.2f\n",
			iv.Start().Format(time.RFC3339),
			iv.Production.PV,
			iv.Production.WindOnshore,
			iv.Production.TotalRenewables(),
			iv.Production.TotalFossils(),
			iv.Consumption.Load,
		)
	}
	fmt.Printf("%d interval(s)\n", len(ivs))
	return 0
}

func cmdExport(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	c := addCommon(fs)
	name := fs.String("collection", "smard", "Collection name")
	year := fs.Int("year", 0, "Optional: only export one calendar year (0=all)")
	outPath := fs.String("out", "results/export.csv", "Output path (.csv or .xlsx)")
	_ = fs.Parse(args)

	m, logger, err := c.manager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	col, err := collection(ctx, m, *name)
	if err != nil {
		logger.WithError(err).Error("export failed")
		return 1
	}

	ivs := col.All()
	if *year > 0 {
		ivs = col.Year(*year)
	}
	if err := export.WriteFile(*outPath, ivs); err != nil {
		logger.WithError(err).Error("export failed")
		return 1
	}
	fmt.Printf("Wrote %d rows to %s\n", len(ivs), *outPath)
	return 0
}

func cmdStats(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	c := addCommon(fs)
	name := fs.String("collection", "smard", "Collection name")
	year := fs.Int("year", 0, "Optional: only one calendar year (0=all)")
	field := fs.String("field", "", "Optional: category.field, e.g. production.pv (default: rank all sources)")
	divide := fs.Float64("divide", 1e6, "Divide every value, e.g. 1000000 for MWh / MW")
	_ = fs.Parse(args)

	var sel *model.Selector
	if *field != "" {
		category, f, _ := strings.Cut(*field, ".")
		s, err := model.ParseSelector(category, f)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		sel = &s
	}

	m, logger, err := c.manager()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	col, err := collection(ctx, m, *name)
	if err != nil {
		logger.WithError(err).Error("stats failed")
		return 1
	}

	ivs := col.All()
	if *year > 0 {
		ivs = col.Year(*year)
	}
	if *divide != 0 {
		for i := range ivs {
			ivs[i] = ivs[i].Div(*divide)
		}
	}

	var rows []analysis.RankedSource
	if sel != nil {
		rows = []analysis.RankedSource{{Rank: 1, FieldStats: analysis.Compute(ivs, *sel)}}
	} else {
		rows = analysis.RankSources(ivs)
	}

	fmt.Printf("%-4s %-32s %-8s %-16s %-14s %-14s %-14s %-14s %-14s\n",
		"rank", "field", "n", "sum", "mean", "min", "max", "p05", "p95")
	for _, r := range rows {
		fmt.Printf("%-4d %-32s %-8d %-16.2f %-14.2f %-14.2f %-14.2f %-14.2f %-14.2f\n",
			r.Rank, r.Path, r.Count, r.Sum, r.Mean, r.Min, r.Max, r.P05, r.P95)
	}
	fmt.Printf("%d interval(s), renewable share %.1f%%\n", len(ivs), analysis.RenewableShare(ivs)*100)
	return 0
}

func collection(ctx context.Context, m *loader.Manager, name string) (*series.Collection, error) {
	reg, err := m.Data(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Collection(name)
}

func printReports(reports []loader.Report) {
	fmt.Printf("%-14s %-10s %-8s %-8s %-12s %-10s %-26s %-26s %s\n",
		"collection", "rows", "defects", "dropped", "load time", "avg/row", "first", "last", "validation")
	for _, r := range reports {
		if !r.Loaded() {
			fmt.Printf("%-14s skipped: %s\n", r.Dataset, r.Skipped)
			continue
		}
		first, last := "-", "-"
		if r.Rows > 0 {
			first = r.First.Format(time.RFC3339)
			last = r.Last.Format(time.RFC3339)
		}
		validation := fmt.Sprintf("%d/%d passed", r.Validation.Passed, r.Validation.Total)
		if len(r.Errors) > 0 {
			validation += fmt.Sprintf(", %d error(s)", len(r.Errors))
		}
		fmt.Printf("%-14s %-10d %-8d %-8d %-12s %-10s %-26s %-26s %s\n",
			r.Dataset, r.Rows, r.Defects, r.Dropped,
			r.Duration.Round(time.Millisecond), r.AvgPerRow.Round(time.Microsecond/10),
			first, last, validation)
	}
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want \"2006-01-02 15:04\" or Unix seconds", s)
	}
	return t, nil
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
