package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alicanaksel/Cineseek/pkg/tracker"
)

func newStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-operation request statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = tr.Close() }()

			sums, err := tr.Summary(context.Background())
			if err != nil {
				return err
			}
			if len(sums) == 0 {
				fmt.Println("No requests recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tREQUESTS\tCACHE HITS\tFAILURES\tAVG MS\tLAST SEEN")
			for _, s := range sums {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\t%s\n",
					s.Operation, s.Requests, s.CacheHits, s.Failures,
					s.AvgLatencyMs, s.LastSeen.Local().Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cineseek.yaml", "path to config file")
	return cmd
}
