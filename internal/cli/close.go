package cli

import (
	"fmt"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/usecase"
	"github.com/spf13/cobra"
)

// newCloseCommand creates the close command.
func newCloseCommand(c *app.Container) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.CloseIssueUseCase().Execute(cmd.Context(), usecase.CloseIssueInput{
				ID:     args[0],
				Reason: reason,
			})
			if err != nil {
				return err
			}

			noteFallback(cmd, out.Backend)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Closed %s: %s\n", out.ID, out.Reason)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", `Close reason (default "Completed")`)

	return cmd
}
