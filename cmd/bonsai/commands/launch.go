package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch [path] [-- args...]",
		Short: "Run the launcher pinned by the project above path",
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, forwarded := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				positional, forwarded = args[:dash], args[dash:]
			}
			if err := cobra.MaximumNArgs(1)(cmd, positional); err != nil {
				return err
			}

			path := "."
			if len(positional) == 1 {
				path = positional[0]
			}
			code, err := c.app.Launch(cmd.Context(), path, forwarded)
			c.exitCode = code
			return err
		},
	}
}
