package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rctui/internal/config"
	"rctui/internal/store"
)

func newLogCmd() *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent session events (server lifecycle, commands)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			l, err := store.Open(cmd.Context(), cfg.Log.Path)
			if err != nil {
				return fmt.Errorf("open event log: %w", err)
			}
			defer l.Close()

			evs, err := l.Tail(cmd.Context(), tail)
			if err != nil {
				return err
			}
			for _, e := range evs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-22s %s\n",
					e.At.Format("2006-01-02 15:04:05"), e.Kind, e.Detail)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&tail, "tail", 50, "Number of most recent events to show (0 = all)")
	return cmd
}
