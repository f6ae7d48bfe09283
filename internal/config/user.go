package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kckc-g/init-python-project/internal/model"
	"github.com/spf13/viper"
)

// loadUserLayer builds the viper instance holding user-level configuration.
// Recognized keys: python, virtualenv, index-url, extra-index-url, log-file.
// Kebab-case keys map onto underscore env names, e.g. index-url reads
// BOOTSTRAP_INDEX_URL.
//
// With an explicit cfgFile the file must exist and parse; without one the
// default location (<user config dir>/init-python-project/config.yaml) is
// tried and silently skipped when absent. Environment variables work in
// both cases.
func loadUserLayer(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOTSTRAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, model.WrapCLIError(
				model.ExitConfigurationError,
				fmt.Sprintf("cannot read config file %s", cfgFile),
				err,
			)
		}
		return v, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		// No config directory on this host. Environment variables still apply.
		return v, nil
	}

	v.AddConfigPath(filepath.Join(configDir, "init-python-project"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, model.WrapCLIError(model.ExitConfigurationError, "cannot read user config", err)
	}
	return v, nil
}
