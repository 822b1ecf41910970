package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alicanaksel/Cineseek/pkg/config"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "cineseek",
		Short:   "Cineseek — movie metadata proxy and page server",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newCacheCmd(),
		newStatsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults (plus the
// OMDB_API_KEY environment variable) when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		cfg.OMDb.APIKey = os.Getenv("OMDB_API_KEY")
		return cfg, nil
	}
	return cfg, err
}
