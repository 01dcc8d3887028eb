package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/repository"
	"github.com/noah-isme/timetable-optimizer/internal/service"
	"github.com/noah-isme/timetable-optimizer/pkg/catalogio"
	"github.com/noah-isme/timetable-optimizer/pkg/config"
	"github.com/noah-isme/timetable-optimizer/pkg/database"
	"github.com/noah-isme/timetable-optimizer/pkg/logger"
)

type options struct {
	avoid          []string
	window         string
	maxEvaluations int64
	timeout        time.Duration
	output         string
	store          bool
	logLevel       string
}

type outcome struct {
	path     string
	response *dto.OptimizeResponse
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "optimize: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := pflag.NewFlagSet("optimize", pflag.ContinueOnError)
	opts := options{}
	flags.StringSliceVar(&opts.avoid, "avoid", cfg.Preferences.AvoidDays, "weekdays to avoid, e.g. tue,thu")
	flags.StringVar(&opts.window, "window", cfg.Preferences.WindowStart+"-"+cfg.Preferences.WindowEnd, "preferred daily window, HH:MM-HH:MM or hours like 6-18")
	flags.Int64Var(&opts.maxEvaluations, "max-evaluations", cfg.Optimizer.MaxEvaluations, "stop after scoring this many schedules (0 = unlimited)")
	flags.DurationVar(&opts.timeout, "timeout", cfg.Optimizer.Timeout, "search time limit per catalog (0 = unlimited)")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	flags.BoolVar(&opts.store, "store", false, "also import the catalogs into the configured Postgres catalog store")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: optimize [flags] catalog.{json,yaml,csv} ...")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	paths := flags.Args()
	if len(paths) == 0 {
		flags.Usage()
		return fmt.Errorf("no catalog files given")
	}
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	logr, err := logger.NewCLI(opts.logLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	base, err := flagPreferences(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs := make([]*catalogio.Document, len(paths))
	for i, path := range paths {
		if docs[i], err = catalogio.Load(path); err != nil {
			return err
		}
	}

	if opts.store {
		if err := storeCatalogs(ctx, cfg, logr, docs); err != nil {
			return err
		}
	}

	optimizer := service.NewOptimizerService(nil, nil, nil, nil, nil, logr, service.OptimizerConfig{
		MaxSubjects: cfg.Optimizer.MaxSubjects,
	})

	results := make([]outcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range paths {
		i := i
		g.Go(func() error {
			prefs := base
			if docs[i].Preferences != nil {
				prefs = mergePreferences(*docs[i].Preferences, base, flags)
			}
			resp, err := optimizer.Optimize(gctx, dto.OptimizeRequest{
				Catalog:     docs[i].Catalog,
				Preferences: prefs,
				Budget: dto.SearchBudgetRequest{
					MaxEvaluations: opts.maxEvaluations,
					TimeoutMs:      opts.timeout.Milliseconds(),
				},
			})
			if err != nil {
				return fmt.Errorf("%s: %w", paths[i], err)
			}
			results[i] = outcome{path: paths[i], response: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.output == "json" {
		return writeJSON(stdout, results)
	}
	return writeText(stdout, results)
}

// flagPreferences builds preferences from flag values, which default to the
// PREFERENCES_* configuration.
func flagPreferences(opts options) (models.Preferences, error) {
	prefs := models.Preferences{}
	for _, value := range opts.avoid {
		day, err := models.ParseWeekday(value)
		if err != nil {
			return prefs, fmt.Errorf("--avoid: %w", err)
		}
		prefs.AvoidDays = append(prefs.AvoidDays, day)
	}
	window, err := parseWindow(opts.window)
	if err != nil {
		return prefs, fmt.Errorf("--window: %w", err)
	}
	if window != models.FullDayWindow {
		prefs.TimeWindow = &window
	}
	return prefs, nil
}

// mergePreferences keeps the preferences embedded in a catalog file except
// where a flag was set explicitly.
func mergePreferences(embedded, flagged models.Preferences, flags *pflag.FlagSet) models.Preferences {
	merged := embedded
	if flags.Changed("avoid") {
		merged.AvoidDays = flagged.AvoidDays
	}
	if flags.Changed("window") {
		merged.TimeWindow = flagged.TimeWindow
	}
	return merged
}

func parseWindow(raw string) (models.TimeWindow, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return models.TimeWindow{}, fmt.Errorf("expected START-END, got %q", raw)
	}
	var window models.TimeWindow
	if err := window.Start.UnmarshalText([]byte(parts[0])); err != nil {
		return models.TimeWindow{}, err
	}
	if err := window.End.UnmarshalText([]byte(parts[1])); err != nil {
		return models.TimeWindow{}, err
	}
	if window.Start > window.End {
		return models.TimeWindow{}, fmt.Errorf("window start %s is after end %s", window.Start, window.End)
	}
	return window, nil
}

func storeCatalogs(ctx context.Context, cfg *config.Config, logr *zap.Logger, docs []*catalogio.Document) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect catalog store: %w", err)
	}
	defer db.Close() //nolint:errcheck
	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}
	catalogs := service.NewCatalogService(repository.NewCatalogRepository(db), logr)
	for _, doc := range docs {
		if err := catalogs.Import(ctx, doc.Catalog); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, results []outcome) error {
	for i, result := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", result.path)
		}
		for _, line := range result.response.Lines {
			fmt.Fprintln(w, line)
		}
		if !result.response.Exhaustive {
			fmt.Fprintf(w, "# search stopped early after %d of %d schedules\n", result.response.Evaluated, result.response.Combinations)
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []outcome) error {
	payload := make(map[string]*dto.OptimizeResponse, len(results))
	for _, result := range results {
		payload[result.path] = result.response
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
