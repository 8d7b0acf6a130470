package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConverterConfig holds the process wide settings of the converter
type ConverterConfig struct {
	CSVBufferSize          int    `mapstructure:"CSV_BUFFER_SIZE"`
	MappingConfigDirectory string `mapstructure:"MAPPING_CONFIG_DIRECTORY"`
	MappingConfigFileName  string `mapstructure:"MAPPING_CONFIG_FILE_NAME"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
}

// ConfigurationPath returns the location of the data contract
func (c *ConverterConfig) ConfigurationPath() string {
	return path.Join(c.MappingConfigDirectory, c.MappingConfigFileName)
}

// Load builds a fresh configuration from the environment. Variables found in
// envFiles are loaded first without overriding variables already set; missing
// files are ignored.
func Load(envFiles ...string) (*ConverterConfig, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("CSV_BUFFER_SIZE", 1000)
	v.SetDefault("MAPPING_CONFIG_DIRECTORY", "/var/app/config")
	v.SetDefault("MAPPING_CONFIG_FILE_NAME", "data-contract.json")
	v.SetDefault("LOG_LEVEL", "info")

	v.BindEnv("CSV_BUFFER_SIZE")
	v.BindEnv("MAPPING_CONFIG_DIRECTORY")
	v.BindEnv("MAPPING_CONFIG_FILE_NAME")
	v.BindEnv("LOG_LEVEL")

	cfg := &ConverterConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.CSVBufferSize <= 0 {
		return nil, fmt.Errorf("CSV_BUFFER_SIZE must be positive, got %d", cfg.CSVBufferSize)
	}
	return cfg, nil
}
