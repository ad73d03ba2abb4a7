package cmd

import (
	"fmt"
	"io"

	"abscomp/feature/integrity"
	"abscomp/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity [config.toml]",
	Short: "Check that both libraries and the report bucket are reachable",
	Long: `Pings both configured Audiobookshelf libraries and, when object storage is
enabled, checks the report bucket. Exits non-zero when any check fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup(args)
		if err != nil {
			return err
		}
		defer logg.Sync()

		store, err := newStorage(cfg)
		if err != nil {
			return err
		}

		one, two := newLibraries(cfg, logg)
		svc := integrity.NewService([]checks.Pinger{one, two}, store, cfg.Storage.Bucket, cfg.Storage.Prefix, logg)

		logg.Info("Running integrity checks...")
		report := svc.Run(cmd.Context())
		printIntegrity(cmd.OutOrStdout(), report)

		if !report.Healthy {
			return fmt.Errorf("integrity checks failed")
		}
		logg.Info("All integrity checks passed", zap.Int("libraries", len(report.Libraries)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
}

func printIntegrity(w io.Writer, report integrity.Report) {
	fmt.Fprintln(w, "\n=== Integrity ===")
	for _, lib := range report.Libraries {
		if lib.OK() {
			fmt.Fprintf(w, "%s: ok (%dms)\n", lib.Name, lib.LatencyMS)
		} else {
			fmt.Fprintf(w, "%s: error: %s\n", lib.Name, lib.Error)
		}
	}
	switch {
	case report.Bucket != nil && report.Bucket.Exists:
		fmt.Fprintf(w, "Bucket %s: ok (%d reports under %q)\n", report.Bucket.Bucket, report.Bucket.Reports, report.Bucket.Prefix)
	case report.Bucket != nil:
		fmt.Fprintf(w, "Bucket %s: missing (created on first upload)\n", report.Bucket.Bucket)
	case report.BucketError != "":
		fmt.Fprintf(w, "Bucket: error: %s\n", report.BucketError)
	default:
		fmt.Fprintln(w, "Bucket: storage disabled")
	}
}
