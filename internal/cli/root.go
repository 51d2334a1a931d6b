package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"rctui/internal/config"
	"rctui/internal/store"
	"rctui/internal/tui"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rctui",
		Short:        "Terminal control surface for the rclone remote control daemon",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  rctui

  # Check whether the rclone binary can be found
  rctui doctor

  # Show the last 20 session events
  rctui log --tail 20
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd)
			}
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newLogCmd())

	return cmd
}

func runTUI(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Event logging is best-effort: an unopenable log never blocks the TUI.
	var log *store.EventLog
	if cfg.Log.Enabled {
		if l, err := store.Open(cmd.Context(), cfg.Log.Path); err == nil {
			log = l
			defer l.Close()
		}
	}
	return tui.Run(cfg, log)
}
