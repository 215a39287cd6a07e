// SPDX-License-Identifier: MPL-2.0

// Package config loads the workshopctl configuration: CUE file validated
// against an embedded schema, merged over built-in defaults through Viper.
package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"workshopctl/internal/cueutil"
	"workshopctl/internal/issue"
)

const (
	// AppName is the application name, used for config and data directories.
	AppName = "workshopctl"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// LoadOptions steers config resolution. The zero value uses the standard
// locations.
type LoadOptions struct {
	// ConfigFilePath, when set, is used exclusively; a missing file is an
	// error rather than a fallback.
	ConfigFilePath string
	// ConfigDirPath overrides the standard config directory. Used by tests.
	ConfigDirPath string
}

// ConfigDir returns the workshopctl configuration directory under the
// platform config home ($XDG_CONFIG_HOME on Linux).
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Load resolves the configuration: defaults, then the CUE config file from
// the explicit path, the config directory, or the current directory, in
// that order of preference. No config file at all is not an error.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("steamcmd", defaults.SteamCmd)
	v.SetDefault("catalog.base_url", defaults.Catalog.BaseURL)
	v.SetDefault("catalog.max_retries", defaults.Catalog.MaxRetries)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.assume_yes", defaults.UI.AssumeYes)

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.New("load configuration").
				Resource(opts.ConfigFilePath).
				Suggest("Verify the file path is correct").
				Suggest("Run 'workshopctl config show' to see the effective configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath))
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", wrapParseError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			cfgDir = ConfigDir()
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		localPath := ConfigFileName + "." + ConfigFileExt
		switch {
		case fileExists(cuePath):
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", wrapParseError(cuePath, err)
			}
			resolvedPath = cuePath
		case fileExists(localPath):
			if err := loadCUEIntoViper(v, localPath); err != nil {
				return nil, "", wrapParseError(localPath, err)
			}
			resolvedPath = localPath
		}
		// No config file found: defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, resolvedPath, nil
}

func wrapParseError(path string, err error) error {
	return issue.New("load configuration").
		Resource(path).
		Suggest("Check that the file contains valid CUE syntax").
		Suggest("Verify the configuration values match the expected schema").
		Wrap(err)
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper. Validation runs with
// Concrete(false) because every config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into the config
// directory unless one already exists.
func CreateDefaultConfig() error {
	return createDefaultConfigIn(ConfigDir())
}

func createDefaultConfigIn(cfgDir string) error {
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Save writes cfg to the config directory.
func Save(cfg *Config) error {
	return saveIn(ConfigDir(), cfg)
}

func saveIn(cfgDir string, cfg *Config) error {
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Set updates one configuration key on cfg. Keys use the same dotted names
// the config file does.
func Set(cfg *Config, key, value string) error {
	switch key {
	case "data_dir":
		cfg.DataDir = value
	case "steamcmd":
		cfg.SteamCmd = value
	case "catalog.base_url":
		cfg.Catalog.BaseURL = value
	case "catalog.max_retries":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("catalog.max_retries must be a non-negative integer, got %q", value)
		}
		cfg.Catalog.MaxRetries = uint(n)
	case "ui.verbose", "ui.assume_yes":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		if key == "ui.verbose" {
			cfg.UI.Verbose = b
		} else {
			cfg.UI.AssumeYes = b
		}
	default:
		return fmt.Errorf("unknown configuration key %q", key)
	}
	return nil
}

// GenerateCUE renders cfg as a CUE document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// workshopctl configuration file.\n\n")

	sb.WriteString(fmt.Sprintf("data_dir: %q\n", cfg.DataDir))
	sb.WriteString(fmt.Sprintf("steamcmd: %q\n", cfg.SteamCmd))

	sb.WriteString("\ncatalog: {\n")
	sb.WriteString(fmt.Sprintf("\tbase_url:    %q\n", cfg.Catalog.BaseURL))
	sb.WriteString(fmt.Sprintf("\tmax_retries: %d\n", cfg.Catalog.MaxRetries))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tverbose:    %v\n", cfg.UI.Verbose))
	sb.WriteString(fmt.Sprintf("\tassume_yes: %v\n", cfg.UI.AssumeYes))
	sb.WriteString("}\n")

	return sb.String()
}
