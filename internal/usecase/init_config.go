package usecase

import (
	"context"

	"github.com/runoshun/taskflow/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Global bool // If true, initialize global config; otherwise project config
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path string // Path to the created config file
}

// InitConfig generates a configuration file template.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{
		configManager: configManager,
	}
}

// Execute creates a configuration file with default template.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	info := uc.configManager.GetInfo()

	if in.Global {
		if err := uc.configManager.InitGlobalConfig(); err != nil {
			return nil, err
		}
		return &InitConfigOutput{Path: info.GlobalPath}, nil
	}

	if err := uc.configManager.InitProjectConfig(); err != nil {
		return nil, err
	}
	return &InitConfigOutput{Path: info.ProjectPath}, nil
}
