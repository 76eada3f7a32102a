package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/aromai/internal/config"
	"github.com/five82/aromai/internal/logtail"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var level string
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the browser log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var minLevel slog.Level
			if err := minLevel.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(level)))); err != nil {
				return fmt.Errorf("invalid --level %q", level)
			}
			if err := config.LoadDotenv(ctx.dotenvPath); err != nil {
				return err
			}
			cfg, err := config.Load(ctx.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// Read more than requested so filtering still fills the screen.
			tail, err := logtail.Tail(cfg.LogFile, lines*4)
			if err != nil {
				return err
			}
			kept := logtail.AtLeast(tail, minLevel)
			if len(kept) > lines {
				kept = kept[len(kept)-lines:]
			}
			out := cmd.OutOrStdout()
			if len(kept) == 0 {
				fmt.Fprintf(out, "No log records in %s\n", cfg.LogFile)
				return nil
			}
			for _, line := range kept {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines")
	cmd.Flags().StringVar(&level, "level", "debug", "Minimum level (debug, info, warn, error)")
	return cmd
}
