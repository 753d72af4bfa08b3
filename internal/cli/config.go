package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/usecase"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were consulted (global, then repository) and the
final merged configuration in TOML format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, src := range out.Sources {
				if src.Exists {
					_, _ = fmt.Fprintf(w, "- %s\n", src.Path)
				} else {
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", src.Path)
				}
			}

			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			if err := toml.NewEncoder(w).Encode(out.EffectiveConfig); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	}
}
