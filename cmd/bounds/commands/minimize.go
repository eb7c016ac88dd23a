package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bounds/internal/app"
)

func (c *CLI) newMinimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minimize [dep]",
		Short: "Search for the lowest version every dependency still compiles against",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skipSanity, _ := cmd.Flags().GetBool("skip-sanity")
			write, _ := cmd.Flags().GetBool("write")

			opts := app.MinimizeOptions{
				Options:    globalOptions(cmd),
				SkipSanity: skipSanity,
				Write:      write,
			}
			if len(args) == 1 {
				opts.Dep = args[0]
			}

			_, err := c.app.Minimize(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().BoolP("skip-sanity", "s", false, "Skip checking every minor version inside the minimized bound")
	cmd.Flags().BoolP("write", "w", false, "Write the minimized lower bound to Cargo.toml")

	return cmd
}
