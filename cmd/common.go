package cmd

import (
	"fmt"

	"abscomp/core/audiobookshelf"
	"abscomp/core/config"
	"abscomp/core/logger"
	"abscomp/core/storage"

	"go.uber.org/zap"
)

// Names the two libraries carry in logs, errors and cache keys.
const (
	libOneName = "abs_lib_one"
	libTwoName = "abs_lib_two"
)

func configFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultFile
}

// setup loads the config file named by args and builds the logger from it.
func setup(args []string) (*config.Config, *zap.Logger, error) {
	file := configFile(args)

	cfg, err := config.LoadConfig(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

func newLibraries(cfg *config.Config, logg *zap.Logger) (*audiobookshelf.Client, *audiobookshelf.Client) {
	one := audiobookshelf.NewClient(libOneName, cfg.LibOne, cfg.Fetch, logg)
	two := audiobookshelf.NewClient(libTwoName, cfg.LibTwo, cfg.Fetch, logg)
	return one, two
}

// newStorage returns nil when object storage is disabled.
func newStorage(cfg *config.Config) (storage.Client, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}
