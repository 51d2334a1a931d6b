package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"rctui/internal/config"
)

func newDoctorCmd() *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the configured helper binary is discoverable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			path, err := exec.LookPath(cfg.Helper.Binary)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: not found on PATH\n", cfg.Helper.Binary)
				if fail {
					return fmt.Errorf("%s not found", cfg.Helper.Binary)
				}
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cfg.Helper.Binary, path)
			fmt.Fprintf(cmd.OutOrStdout(), "args: %v\n", cfg.Helper.Args)
			fmt.Fprintf(cmd.OutOrStdout(), "event log: %s (enabled=%v)\n", cfg.Log.Path, cfg.Log.Enabled)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if the binary is missing")
	return cmd
}
