package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"abscomp/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "abscomp",
	Short: "Audiobookshelf library comparison",
	Long: `abscomp compares the catalogs of two Audiobookshelf libraries by ASIN.
It reports the books both libraries hold and the books each one is missing,
as CSV/JSON files or over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Console format with the development config gives ISO8601 timestamps on the terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
