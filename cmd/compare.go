package cmd

import (
	"fmt"
	"io"
	"time"

	"abscomp/core/compare"
	"abscomp/core/report"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the compare command; they extend the config file.
	compareCSV      bool
	compareJSON     bool
	compareOut      string
	compareParallel bool
	comparePolicy   string
	compareUpload   bool
)

// compareCmd runs one comparison and writes the reports.
var compareCmd = &cobra.Command{
	Use:   "compare [config.toml]",
	Short: "Compare two libraries and write the results",
	Long: `Fetches the catalogs of both configured libraries, compares them by ASIN
and writes the results. Nothing is written unless both fetches succeed.

Datasets: both, missing_one, missing_two, one_full, two_full.

Examples:
  # Summary only
  abscomp compare

  # CSV and JSON reports in ./reports, fetching both libraries at once
  abscomp compare absconfig.toml -c -j --out reports --parallel`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVarP(&compareCSV, "csv", "c", false, "Write CSV reports")
	compareCmd.Flags().BoolVarP(&compareJSON, "json", "j", false, "Write JSON reports")
	compareCmd.Flags().StringVar(&compareOut, "out", "", "Directory reports are written to (default from config)")
	compareCmd.Flags().BoolVar(&compareParallel, "parallel", false, "Fetch both libraries concurrently")
	compareCmd.Flags().StringVar(&comparePolicy, "policy", "", "Duplicate ASIN policy: first or last (default from config)")
	compareCmd.Flags().BoolVar(&compareUpload, "upload", false, "Upload written reports to object storage")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, logg, err := setup(args)
	if err != nil {
		return err
	}
	defer logg.Sync()

	cfg.Output.CSV = cfg.Output.CSV || compareCSV
	cfg.Output.JSON = cfg.Output.JSON || compareJSON
	cfg.Output.Upload = cfg.Output.Upload || compareUpload
	cfg.Fetch.Parallel = cfg.Fetch.Parallel || compareParallel
	if compareOut != "" {
		cfg.Output.Dir = compareOut
	}
	if comparePolicy != "" {
		cfg.Compare.Policy = comparePolicy
	}
	if _, err := compare.PolicyByName(cfg.Compare.Policy); err != nil {
		return err
	}
	if cfg.Output.Upload && !cfg.Storage.Enabled {
		return fmt.Errorf("upload requested but storage.enabled is false")
	}

	logg = logg.With(zap.String("run_id", uuid.NewString()))
	logg.Info("Loaded configuration",
		zap.String("file", configFile(args)),
		zap.Any("config", cfg.Masked()),
	)

	one, two := newLibraries(cfg, logg)
	opts := compare.Options{Policy: cfg.Compare.Policy, Parallel: cfg.Fetch.Parallel}

	logg.Info("Fetching libraries", zap.Bool("parallel", opts.Parallel))
	result, err := compare.Run(cmd.Context(), one, two, opts)
	if err != nil {
		return fmt.Errorf("comparison aborted, no reports written: %w", err)
	}

	logg.Info("Fetched library", zap.String("library", one.Name()),
		zap.Int("entries", result.One.Len()), zap.Duration("elapsed", result.FetchOne))
	logg.Info("Fetched library", zap.String("library", two.Name()),
		zap.Int("entries", result.Two.Len()), zap.Duration("elapsed", result.FetchTwo))

	logConflicts(logg, one.Name(), result.OneConflicts)
	logConflicts(logg, two.Name(), result.TwoConflicts)

	writer := report.NewWriter(cfg.Output, time.Now())
	paths, err := writer.WriteAll(result)
	if err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	if len(paths) > 0 {
		logg.Info("Reports written", zap.String("dir", writer.Dir), zap.Strings("files", paths))
	}

	if cfg.Output.Upload && len(paths) > 0 {
		client, err := newStorage(cfg)
		if err != nil {
			return err
		}
		uploader := report.NewUploader(client, cfg.Storage.Bucket, cfg.Storage.Prefix)
		objects, err := uploader.Upload(cmd.Context(), paths)
		if err != nil {
			return fmt.Errorf("failed to upload reports: %w", err)
		}
		logg.Info("Reports uploaded", zap.String("bucket", cfg.Storage.Bucket), zap.Strings("objects", objects))
	}

	elapsed := time.Since(startTime)
	printSummary(cmd.OutOrStdout(), one.Name(), two.Name(), result.Summary, elapsed)

	logg.Info("Comparison completed",
		zap.Int("both", result.Summary.Both),
		zap.Int("one_missing", result.Summary.OneMissing),
		zap.Int("two_missing", result.Summary.TwoMissing),
		zap.Duration("execution_time", elapsed),
	)
	return nil
}

func logConflicts(logg *zap.Logger, library string, conflicts []compare.Conflict) {
	for _, c := range conflicts {
		logg.Warn("Duplicate ASIN",
			zap.String("library", library),
			zap.String("asin", c.ASIN),
			zap.String("kept", c.Kept.ID),
			zap.String("dropped", c.Dropped.ID),
		)
	}
}

func printSummary(w io.Writer, one, two string, s compare.Summary, elapsed time.Duration) {
	fmt.Fprintln(w, "\n=== Library Comparison ===")
	fmt.Fprintf(w, "%s: %d entries, %d unique ASINs, %d duplicate ASINs\n", one, s.OneEntries, s.OneASINs, s.OneDuplicates)
	fmt.Fprintf(w, "%s: %d entries, %d unique ASINs, %d duplicate ASINs\n", two, s.TwoEntries, s.TwoASINs, s.TwoDuplicates)
	fmt.Fprintf(w, "Missing from %s: %d ASINs\n", one, s.OneMissing)
	fmt.Fprintf(w, "Missing from %s: %d ASINs\n", two, s.TwoMissing)
	fmt.Fprintf(w, "In both: %d ASINs\n", s.Both)
	fmt.Fprintf(w, "Execution Time: %s\n", elapsed.Round(time.Millisecond))
}
