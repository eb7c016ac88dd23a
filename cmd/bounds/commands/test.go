package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bounds/internal/app"
)

func (c *CLI) newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check every dependency at the edges of its declared range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dep, _ := cmd.Flags().GetString("dep")
			command, _ := cmd.Flags().GetString("command")
			minor, _ := cmd.Flags().GetBool("minor")
			patch, _ := cmd.Flags().GetBool("patch")
			printSkipped, _ := cmd.Flags().GetBool("print-skipped")

			_, err := c.app.Test(cmd.Context(), app.TestOptions{
				Options:      globalOptions(cmd),
				Dep:          dep,
				Command:      command,
				Minor:        minor || patch,
				Patch:        patch,
				PrintSkipped: printSkipped,
			})
			return err
		},
	}

	cmd.Flags().StringP("dep", "d", "", "Test a single dependency")
	cmd.Flags().StringP("command", "c", "", "Check command run through sh -c (default: cargo check --all-features)")
	cmd.Flags().BoolP("minor", "m", false, "Also test the first release of every minor version")
	cmd.Flags().BoolP("patch", "p", false, "Test every version (implies --minor)")
	cmd.Flags().BoolP("print-skipped", "s", false, "List the versions that were not tested")

	return cmd
}
