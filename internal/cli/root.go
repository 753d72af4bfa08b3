// Package cli provides the command-line interface for skillbeads.
package cli

import (
	"fmt"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupIssue = "issue"
	groupSetup = "setup"
)

// ExitError asks main to exit with Code without printing anything.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCommand creates the root command for skillbeads.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "skillbeads",
		Short: "Optional bd (beads) issue tracking for workflow skills",
		Long: `skillbeads lets workflow skills record their work in the bd (beads) issue
tracker when it is available, and fall back to an in-session task list when it
is not.

The fallback list lives only as long as one command: "update", "close" and
"dep" cannot see issues created by an earlier "create", and "ready" starts
empty. Use "skillbeads plan" to create related issues in a single run.

Use "skillbeads status" to check whether bd is installed and initialized here.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupIssue, Title: "Issue Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Setup commands
	statusCmd := newStatusCommand(c)
	statusCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	// Issue commands
	createCmd := newCreateCommand(c)
	createCmd.GroupID = groupIssue

	updateCmd := newUpdateCommand(c)
	updateCmd.GroupID = groupIssue

	closeCmd := newCloseCommand(c)
	closeCmd.GroupID = groupIssue

	depCmd := newDepCommand(c)
	depCmd.GroupID = groupIssue

	readyCmd := newReadyCommand(c)
	readyCmd.GroupID = groupIssue

	planCmd := newPlanCommand(c)
	planCmd.GroupID = groupIssue

	root.AddCommand(
		statusCmd,
		configCmd,
		createCmd,
		updateCmd,
		closeCmd,
		depCmd,
		readyCmd,
		planCmd,
	)

	return root
}

// fallbackNote is printed when a command was served by the in-session tracker.
// Each invocation starts with an empty list, so ids from earlier commands are unknown.
const fallbackNote = "Note: bd is not available here; this command used a temporary list that is discarded " +
	"when it exits, so issue ids from earlier commands are unknown and ready work starts empty. " +
	"Use 'skillbeads plan' to create related issues in one run."

// noteFallback tells the user that a call was served by the in-session tracker.
func noteFallback(cmd *cobra.Command, backend string) {
	if backend != domain.BackendSession {
		return
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), fallbackNote)
}
