package cmd

import (
	"time"

	"abscomp/core/compare"
	"abscomp/core/loader"
	"abscomp/core/logger"
	"abscomp/core/middleware/auth"
	"abscomp/core/middleware/rayid"
	"abscomp/feature/comparison"
	"abscomp/feature/integrity"
	"abscomp/feature/integrity/checks"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [config.toml]",
	Short: "Start the comparison server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration and logger
		cfg, logg, err := setup(args)
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if _, err := compare.PolicyByName(cfg.Compare.Policy); err != nil {
			return err
		}

		// 2. Storage (optional)
		store, err := newStorage(cfg)
		if err != nil {
			return err
		}

		// 3. Fiber app
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// 4. Features
		one, two := newLibraries(cfg, logg)
		opts := compare.Options{Policy: cfg.Compare.Policy, Parallel: cfg.Fetch.Parallel}
		cache := compare.NewCache(cfg.Server.CacheTTL())

		mgr := loader.NewManager()
		mgr.Register(comparison.NewFeature(one, two, opts, cache, logg))
		mgr.Register(integrity.NewFeature(
			integrity.NewService([]checks.Pinger{one, two}, store, cfg.Storage.Bucket, cfg.Storage.Prefix, logg),
		))

		// 5. Middleware: RayID first so every log line carries it
		app.Use(rayid.New())
		app.Use(requestLogger(logg))
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		if cfg.Server.ApiKey == "" {
			logg.Warn("API key is empty, authentication disabled")
		}

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 6. Serve until the command context is cancelled
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			errCh <- app.Listen(cfg.Server.Addr())
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

// requestLogger logs every request with its RayID, status and duration.
func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := logger.WithRayID(logg, c)

		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}

		l.Info("Request completed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
