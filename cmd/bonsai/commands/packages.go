package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bonsai/internal/app"
)

func (c *CLI) newBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Restore missing packages and update the launcher package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			launcher, _ := cmd.Flags().GetString("launcher")
			keepGoing, _ := cmd.Flags().GetBool("keep-going")
			return c.app.Bootstrap(cmd.Context(), app.BootstrapOptions{
				ConfigPath:   configPath(cmd),
				LauncherPath: launcher,
				KeepGoing:    keepGoing,
			})
		},
	}
	cmd.Flags().String("launcher", "", "Launcher to keep up to date (defaults to the running launcher)")
	cmd.Flags().BoolP("keep-going", "k", false, "Log failed steps and continue")
	return cmd
}

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <id> [version]",
		Short: "Install a package and record it in the configuration",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var version string
			if len(args) > 1 {
				version = args[1]
			}
			return c.app.Install(cmd.Context(), configPath(cmd), args[0], version)
		},
	}
}

func (c *CLI) newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <id>",
		Short: "Uninstall a package and remove it from the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Uninstall(cmd.Context(), configPath(cmd), args[0])
		},
	}
}
