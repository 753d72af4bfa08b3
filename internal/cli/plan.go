package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/usecase"
	"github.com/spf13/cobra"
)

// newPlanCommand creates the plan command.
func newPlanCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Create a batch of issues from a YAML plan",
		Long: `Create issues from a YAML plan file, then declare blocking dependencies
between them. Use "-" to read the plan from stdin.

The whole file is validated first: unknown or duplicate keys abort the import
before any issue is created.

Format:
  issues:
    - key: schema
      title: Design schema
      type: task
      priority: 1
      labels: [db]
    - key: api
      title: Build API
      depends_on: [schema]

depends_on entries name keys from the same file or IDs of existing issues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readPlanFile(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			out, err := c.ImportPlanUseCase().Execute(cmd.Context(), usecase.ImportPlanInput{
				Content: content,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if dryRun {
				_, _ = fmt.Fprintf(w, "Would create %d issue(s):\n", len(out.Issues))
				for _, issue := range out.Issues {
					_, _ = fmt.Fprintf(w, "  %s: %s [%s]%s\n", issue.Key, issue.Title, issue.Type, dependsSuffix(issue.DependsOn))
				}
				return nil
			}

			noteFallback(cmd, out.Backend)
			_, _ = fmt.Fprintf(w, "Created %d issue(s):\n", len(out.Issues))
			for _, issue := range out.Issues {
				_, _ = fmt.Fprintf(w, "  %s -> %s: %s%s\n", issue.Key, issue.ID, issue.Title, dependsSuffix(issue.DependsOn))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and show what would be created")

	return cmd
}

func readPlanFile(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return data, nil
}

func dependsSuffix(deps []string) string {
	if len(deps) == 0 {
		return ""
	}
	return " (depends on " + strings.Join(deps, ", ") + ")"
}
