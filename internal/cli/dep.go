package cli

import (
	"fmt"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/usecase"
	"github.com/spf13/cobra"
)

// newDepCommand creates the dep command.
func newDepCommand(c *app.Container) *cobra.Command {
	var depType string

	cmd := &cobra.Command{
		Use:   "dep <id> <depends-on>",
		Short: "Declare that an issue depends on another",
		Long: `Declare that <id> depends on <depends-on>.

With the default type "blocks", <id> does not show up in "ready" until
<depends-on> is closed. Other types: related, parent-child, discovered-from.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AddDependencyUseCase().Execute(cmd.Context(), usecase.AddDependencyInput{
				ID:        args[0],
				DependsOn: args[1],
				Type:      depType,
			})
			if err != nil {
				return err
			}

			noteFallback(cmd, out.Backend)
			dep := out.Dependency
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s depends on %s (%s)\n", dep.IssueID, dep.DependsOnID, dep.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&depType, "type", "blocks", "Dependency type")

	return cmd
}
