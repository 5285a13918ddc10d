package cli

import (
	"github.com/glorpus-work/aclshift/pkg/config"
)

// These variables will be set by the main package
var (
	ConfigPath *string
)

// loadConfig loads the YAML configuration referenced by the global
// --config flag, or the defaults when none is given.
func loadConfig() (*config.Config, error) {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	return config.LoadConfig(path)
}
