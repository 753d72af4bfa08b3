package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/usecase"
	"github.com/spf13/cobra"
)

// newReadyCommand creates the ready command.
func newReadyCommand(c *app.Container) *cobra.Command {
	var opts struct {
		assignee string
		priority string
		limit    int
		jsonOut  bool
	}

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List issues with no open blockers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.ListReadyInput{
				Assignee: opts.assignee,
				Limit:    opts.limit,
			}
			if opts.priority != "" {
				p, err := domain.ParsePriority(opts.priority)
				if err != nil {
					return err
				}
				in.Priority = &p
			}

			out, err := c.ListReadyUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			noteFallback(cmd, out.Backend)
			if opts.jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out.Issues)
			}
			printReadyIssues(cmd.OutOrStdout(), out.Issues)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.assignee, "assignee", "a", "", "Only issues assigned to this user")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", "", "Only issues with this priority (0-4 or P0-P4)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of issues (0 = tracker default, 10 for bd)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Output as JSON")

	return cmd
}

// readyStyles holds the styles for the ready list, bound to one writer so
// colors are dropped when the writer is not a terminal.
type readyStyles struct {
	id       lipgloss.Style
	muted    lipgloss.Style
	priority map[int]lipgloss.Style
}

func newReadyStyles(w io.Writer) readyStyles {
	r := lipgloss.NewRenderer(w)
	return readyStyles{
		id:    r.NewStyle().Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("245")),
		priority: map[int]lipgloss.Style{
			0: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			1: r.NewStyle().Foreground(lipgloss.Color("208")),
			2: r.NewStyle().Foreground(lipgloss.Color("220")),
			3: r.NewStyle().Foreground(lipgloss.Color("75")),
			4: r.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}

func (s readyStyles) priorityBadge(p int) string {
	badge := fmt.Sprintf("[P%d]", p)
	if style, ok := s.priority[p]; ok {
		return style.Render(badge)
	}
	return badge
}

// printReadyIssues renders one numbered line per issue:
//
//	1. [P1] APP-001 Add logging (in_progress, @alice)
func printReadyIssues(w io.Writer, issues []domain.Issue) {
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, "No ready work.")
		return
	}

	styles := newReadyStyles(w)
	for i, issue := range issues {
		var details []string
		if issue.Status != "" && issue.Status != domain.StatusOpen {
			details = append(details, string(issue.Status))
		}
		if issue.Assignee != "" {
			details = append(details, "@"+issue.Assignee)
		}
		if issue.Type != "" && issue.Type != domain.IssueTypeTask {
			details = append(details, string(issue.Type))
		}

		line := fmt.Sprintf("%d. %s %s %s", i+1, styles.priorityBadge(issue.Priority), styles.id.Render(issue.ID), issue.Title)
		if len(details) > 0 {
			line += " " + styles.muted.Render("("+strings.Join(details, ", ")+")")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
