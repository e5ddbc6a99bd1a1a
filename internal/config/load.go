package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. PROVISIONR_MANIFEST or
// PROVISIONR_RUNTIME_PACKAGES="tidyverse,knitr".
const EnvPrefix = "PROVISIONR"

// Load builds the configuration from defaults, the config file and the
// environment, in increasing precedence.
//
// With an empty path, provisionr.yaml in the working directory is used when
// present. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFilename, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		trimSpaceSliceHook(),
	))); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// UsedFile reports the config file Load would read for path, or "" when the
// defaults apply.
func UsedFile(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigFilename); err == nil {
		return DefaultConfigFilename
	}
	return ""
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default for AutomaticEnv to pick it up on Unmarshal.
	def := Default()
	v.SetDefault("manager.name", def.Manager.Name)
	v.SetDefault("manager.install_url", def.Manager.InstallURL)
	v.SetDefault("manager.install_dir", def.Manager.InstallDir)
	v.SetDefault("manager.install_shell", def.Manager.InstallShell)
	v.SetDefault("manager.install_args", def.Manager.InstallArgs)
	v.SetDefault("manifest", def.Manifest)
	v.SetDefault("tasks", def.Tasks)
	v.SetDefault("runtime.command", def.Runtime.Command)
	v.SetDefault("runtime.packages", def.Runtime.Packages)
	v.SetDefault("aux_tool.name", def.AuxTool.Name)
	v.SetDefault("aux_tool.version_args", def.AuxTool.VersionArgs)
	v.SetDefault("aux_tool.via_manager", def.AuxTool.ViaManager)
	v.SetDefault("aux_tool.required", def.AuxTool.Required)
	v.SetDefault("follow_up", def.FollowUp)
	return v
}

// trimSpaceSliceHook trims entries of string slices produced from
// comma-separated environment values.
func trimSpaceSliceHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, _ reflect.Type, data any) (any, error) {
		items, ok := data.([]string)
		if !ok {
			return data, nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}
}

// Write saves cfg as YAML at path.
func Write(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML with a short header.
func Marshal(cfg *Config) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# provisionr configuration\n")
	b.WriteString("# Environment variables prefixed with " + EnvPrefix + "_ override these values.\n\n")

	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return []byte(b.String()), nil
}
