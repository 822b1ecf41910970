package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alicanaksel/Cineseek/pkg/cache/disk"
	"github.com/alicanaksel/Cineseek/pkg/catalog"
	"github.com/alicanaksel/Cineseek/pkg/omdb"
	"github.com/alicanaksel/Cineseek/pkg/server"
	"github.com/alicanaksel/Cineseek/pkg/tracker"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Cineseek web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env may carry OMDB_API_KEY, as in the hosted deployment.
			_ = godotenv.Load()

			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.OMDb.APIKey == "" {
				log.Printf("[WARN] OMDB_API_KEY not set — upstream calls will fail")
			}

			var cache *disk.Cache
			if cfg.Cache.Enabled {
				cache, err = disk.New(cfg.Cache.Dir, cfg.Cache.TTL)
				if err != nil {
					return fmt.Errorf("init cache: %w", err)
				}
			}

			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init tracker: %w", err)
			}
			defer func() { _ = tr.Close() }()

			client := omdb.New(cfg.OMDb, nil)
			svc := catalog.New(client, cache, tr, nil)
			srv := server.New(cfg, svc)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("starting cineseek with config: %s", configPath)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cineseek.yaml", "path to config file")
	return cmd
}
