package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".gitglow"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for gitglow settings.
const envPrefix = "GITGLOW"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// xdgSubdir is the config search directory under the user config root.
const xdgSubdir = "gitglow"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path and
// its document is schema-validated before unmarshalling. Otherwise the config
// file is searched in CWD, $HOME, and the user config directory; a missing
// file is not an error and defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		schemaErr := ValidateConfigFile(configPath)
		if schemaErr != nil {
			return nil, fmt.Errorf("config schema: %w", schemaErr)
		}

		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}

		userCfg, err := os.UserConfigDir()
		if err == nil {
			viperCfg.AddConfigPath(filepath.Join(userCfg, xdgSubdir))
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analyzers", []string{})

	viperCfg.SetDefault("scan.extensions", DefaultScanExtensions())
	viperCfg.SetDefault("scan.ignore_dirs", DefaultIgnoreDirs())

	viperCfg.SetDefault("github.rate_rps", DefaultGitHubRateRPS)

	viperCfg.SetDefault("cache.ttl", DefaultCacheTTL)

	viperCfg.SetDefault("history.classify.sentiment", DefaultClassifySentiment)
	viperCfg.SetDefault("history.contributors.top_authors", DefaultTopAuthors)

	viperCfg.SetDefault("static.complexity.threshold", DefaultComplexityThreshold)
	viperCfg.SetDefault("static.complexity.top_functions", DefaultTopFunctions)
	viperCfg.SetDefault("static.depgraph.max_graph_nodes", DefaultMaxGraphNodes)
	viperCfg.SetDefault("static.sizes.largest_files", DefaultLargestFiles)

	viperCfg.SetDefault("observability.log_level", DefaultLogLevel)
}
