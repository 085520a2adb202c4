package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env [path]",
		Short: "Ensure the launcher pinned by the project above path and print its location",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			launcher, err := c.app.Env(cmd.Context(), path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, launcher)
			return err
		},
	}
}
