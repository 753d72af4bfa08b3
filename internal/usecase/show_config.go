package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/skillbeads/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	EffectiveConfig *domain.Config        // Merged config (defaults + global + repo)
	Sources         []domain.ConfigSource // Files consulted, in merge order
}

// ShowConfig displays the effective configuration and where it came from.
type ShowConfig struct {
	configLoader domain.ConfigLoader
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configLoader domain.ConfigLoader) *ShowConfig {
	return &ShowConfig{
		configLoader: configLoader,
	}
}

// Execute loads the merged configuration.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &ShowConfigOutput{
		EffectiveConfig: cfg,
		Sources:         uc.configLoader.Sources(),
	}, nil
}
