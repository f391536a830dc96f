package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"complaints/internal/aggregate"
	"complaints/internal/database"
	"complaints/internal/emit"
	"complaints/internal/loader"
	"complaints/internal/spatial"
	"complaints/internal/types"
)

const dbTimeout = 30 * time.Second

// options holds the parsed command line.
type options struct {
	input     string
	start     string
	end       string
	output    string
	boundary  string
	dbConfig  string
	verbose   bool
	startDate time.Time
	endDate   time.Time
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		reportError(stderr, err)
		return exitCode(err)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := countComplaints(opts, stdout, logger); err != nil {
		reportError(stderr, err)
		return exitCode(err)
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("complaints", flag.ContinueOnError)
	fs.SetOutput(stderr)
	for _, name := range []string{"i", "input"} {
		fs.StringVar(&opts.input, name, "", "path to the input CSV file (required)")
	}
	for _, name := range []string{"s", "start"} {
		fs.StringVar(&opts.start, name, "", "start date, inclusive (YYYY-MM-DD, required)")
	}
	for _, name := range []string{"e", "end"} {
		fs.StringVar(&opts.end, name, "", "end date, inclusive at midnight (YYYY-MM-DD, required)")
	}
	for _, name := range []string{"o", "output"} {
		fs.StringVar(&opts.output, name, "", "path to the output CSV file (default stdout)")
	}
	for _, name := range []string{"v", "verbose"} {
		fs.BoolVar(&opts.verbose, name, false, "log debug details to stderr")
	}
	fs.StringVar(&opts.boundary, "boundary", "", "keep only rows inside the polygons of this shapefile (EPSG:2263)")
	fs.StringVar(&opts.dbConfig, "db-config", "", "also store the counts in Oracle using this KEY=VALUE file")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", types.ErrArgument, err)
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: unexpected arguments %q", types.ErrArgument, fs.Args())
	}

	var missing []string
	if opts.input == "" {
		missing = append(missing, "--input")
	}
	if opts.start == "" {
		missing = append(missing, "--start")
	}
	if opts.end == "" {
		missing = append(missing, "--end")
	}
	if len(missing) > 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: missing required flags %v", types.ErrArgument, missing)
	}

	var err error
	if opts.startDate, err = loader.ParseDate(opts.start); err != nil {
		fs.Usage()
		return nil, fmt.Errorf("--start: %w", err)
	}
	if opts.endDate, err = loader.ParseDate(opts.end); err != nil {
		fs.Usage()
		return nil, fmt.Errorf("--end: %w", err)
	}
	return opts, nil
}

// flagPairs lists each option once as {short, long}; short may be empty.
var flagPairs = [][2]string{
	{"i", "input"},
	{"s", "start"},
	{"e", "end"},
	{"o", "output"},
	{"", "boundary"},
	{"", "db-config"},
	{"v", "verbose"},
}

// printUsage replaces PrintDefaults, which would list every alias as its own
// flag.
func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Count complaint types per borough in a given date range.")
	fmt.Fprintln(out, "\nUsage: complaints -i <input.csv> -s <YYYY-MM-DD> -e <YYYY-MM-DD> [-o <output.csv>]")
	fmt.Fprintln(out, "\nOptions:")
	for _, pair := range flagPairs {
		f := fs.Lookup(pair[1])
		name := "--" + pair[1]
		if pair[0] != "" {
			name = "-" + pair[0] + ", " + name
		}
		if _, isBool := f.Value.(interface{ IsBoolFlag() bool }); !isBool {
			name += " <value>"
		}
		fmt.Fprintf(out, "  %s\n    \t%s\n", name, f.Usage)
	}
}

// countComplaints runs load → (boundary) → aggregate → emit → (database).
// Nothing is written unless every earlier stage succeeded.
func countComplaints(opts *options, stdout io.Writer, logger *slog.Logger) error {
	var db *database.Database
	if opts.dbConfig != "" {
		cfg, err := database.LoadConfig(opts.dbConfig)
		if err != nil {
			return err
		}
		logger.Debug("connecting to Oracle", "host", cfg.Host, "service", cfg.Service, "table", cfg.Table)
		if db, err = database.Open(cfg); err != nil {
			return err
		}
		defer db.Close()
	}

	loadStart := time.Now()
	table, err := loader.Load(opts.input, opts.startDate, opts.endDate)
	if err != nil {
		return err
	}
	logger.Info("input loaded",
		"path", opts.input,
		"start", opts.start,
		"end", opts.end,
		"rows_in_range", table.Len(),
		"elapsed", time.Since(loadStart).Truncate(time.Millisecond))
	if opts.startDate.After(opts.endDate) {
		logger.Warn("start date is after end date; no rows can match", "start", opts.start, "end", opts.end)
	}

	if opts.boundary != "" {
		b, err := spatial.LoadBoundary(opts.boundary)
		if err != nil {
			return err
		}
		before := table.Len()
		table = b.Filter(table)
		logger.Info("boundary applied", "path", opts.boundary, "polygons", b.Len(), "kept", table.Len(), "dropped", before-table.Len())
	}

	rows := aggregate.Count(table)
	logger.Debug("aggregated", "groups", len(rows), "total", aggregate.Total(rows))

	if opts.output != "" {
		if err := emit.ToFile(opts.output, rows); err != nil {
			return err
		}
		logger.Info("counts written", "path", opts.output, "groups", len(rows))
	} else if err := emit.ToStream(stdout, rows); err != nil {
		return err
	}

	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		dbRun := database.NewRun(opts.startDate, opts.endDate)
		if err := db.SaveCounts(ctx, dbRun, rows); err != nil {
			return err
		}
		logger.Info("counts stored", "run_id", dbRun.ID, "groups", len(rows))
	}
	return nil
}

func exitCode(err error) int {
	if errors.Is(err, types.ErrArgument) {
		return 2
	}
	return 1
}
