package cli

import (
	"fmt"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/usecase"
	"github.com/spf13/cobra"
)

// newCreateCommand creates the create command.
func newCreateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		title       string
		issueType   string
		description string
		priority    string
		labels      []string
		deps        []string
		quiet       bool
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue",
		Long: `Create an issue in bd, or in the in-session list when bd is unavailable.

Examples:
  skillbeads create --title "Add logging" --type task --priority 1
  skillbeads create --title "Fix login" --type bug --label auth --dep APP-003`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.CreateIssueInput{
				Title:       opts.title,
				Type:        opts.issueType,
				Description: opts.description,
				Labels:      opts.labels,
				Deps:        opts.deps,
			}
			if opts.priority != "" {
				p, err := domain.ParsePriority(opts.priority)
				if err != nil {
					return err
				}
				in.Priority = &p
			}

			out, err := c.CreateIssueUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			noteFallback(cmd, out.Backend)
			if opts.quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.ID)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created issue: %s\n", out.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Issue title (required)")
	cmd.Flags().StringVar(&opts.issueType, "type", "task", "Issue type (bug, feature, task, epic, chore)")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "Issue description")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "Priority 0-4 or P0-P4 (default: tracker default)")
	cmd.Flags().StringArrayVarP(&opts.labels, "label", "l", nil, "Label (repeatable)")
	cmd.Flags().StringArrayVar(&opts.deps, "dep", nil, "ID of an issue this one depends on (repeatable)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print only the new issue ID")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
