package cli

import (
	"errors"
	"fmt"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/usecase"
	"github.com/spf13/cobra"
)

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether bd is usable here",
		Long: `Check whether bd is installed, initialized for this project and answering.

Prints "available" or "unavailable (<reason>)" and exits 0 either way.
With --quiet nothing is printed and the exit code is 1 when bd is unavailable,
which suits shell conditionals:

  if skillbeads status -q; then ...; fi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.CheckAvailabilityUseCase().Execute(cmd.Context(), usecase.CheckAvailabilityInput{
				Dir: c.Config.WorkDir,
			})
			if err != nil {
				return err
			}

			if quiet {
				if !out.Available {
					return &ExitError{Code: 1}
				}
				return nil
			}

			w := cmd.OutOrStdout()
			if out.Available {
				_, _ = fmt.Fprintf(w, "available (%s)\n", out.BeadsDir)
				return nil
			}
			_, _ = fmt.Fprintf(w, "unavailable (%s)\n", unavailableReason(out.Reason))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print nothing; exit 1 when unavailable")

	return cmd
}

// unavailableReason turns a probe error into a short explanation.
func unavailableReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrToolMissing):
		return "bd not found in PATH"
	case errors.Is(err, domain.ErrToolUninitialized):
		return "no .beads directory; run 'bd init'"
	case errors.Is(err, domain.ErrTimeout):
		return "bd did not answer in time"
	default:
		return err.Error()
	}
}
