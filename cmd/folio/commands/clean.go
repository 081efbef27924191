package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/folio/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := workDir(cmd)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetBool("output")
			return c.app.Clean(cmd.Context(), dir, app.CleanOptions{Output: output})
		},
	}

	cmd.Flags().BoolP("output", "o", false, "Also remove the published output")

	return cmd
}
