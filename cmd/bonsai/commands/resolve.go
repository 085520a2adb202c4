package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <module>",
		Short: "Print the location a module is loaded from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.Resolve(configPath(cmd), args[0])
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(c.out, res.Location); err != nil {
				return err
			}

			showPackage, _ := cmd.Flags().GetBool("package")
			if showPackage && res.Package.ID != "" {
				_, err = fmt.Fprintf(c.out, "%s %s\n", res.Package.ID, res.Package.Version)
			}
			return err
		},
	}
	cmd.Flags().BoolP("package", "p", false, "Also print the package providing the module")
	return cmd
}
