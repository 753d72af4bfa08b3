package cli

import (
	"fmt"
	"strings"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/usecase"
	"github.com/spf13/cobra"
)

// newUpdateCommand creates the update command.
func newUpdateCommand(c *app.Container) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an issue status",
		Long: "Change the status of an issue.\n\nStatuses: " + statusList() + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.UpdateStatusUseCase().Execute(cmd.Context(), usecase.UpdateStatusInput{
				ID:     args[0],
				Status: status,
			})
			if err != nil {
				return err
			}

			noteFallback(cmd, out.Backend)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", out.ID, out.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "New status (required)")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func statusList() string {
	statuses := domain.AllStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
