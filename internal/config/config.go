// SPDX-License-Identifier: Apache-2.0

// Package config loads fec-mcp settings from defaults, an optional YAML file,
// FEC_MCP_* environment variables and bound command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fecmcp/fec-mcp/internal/credential"
	"github.com/fecmcp/fec-mcp/internal/docquery"
	"github.com/fecmcp/fec-mcp/internal/openfec"
)

const envPrefix = "FEC_MCP"

// Config is the full fec-mcp configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	OpenFEC    OpenFECConfig    `mapstructure:"openfec"`
	DocQuery   DocQueryConfig   `mapstructure:"docquery"`
	Credential CredentialConfig `mapstructure:"credential"`
	Filing     FilingConfig     `mapstructure:"filing"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// OpenFECConfig configures the authenticated API client.
type OpenFECConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DocQueryConfig configures filing downloads.
type DocQueryConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	TempDir   string        `mapstructure:"temp_dir"`
}

// CredentialConfig selects the credential source. A non-empty Command takes
// precedence over the keyring entry.
type CredentialConfig struct {
	Service        string        `mapstructure:"service"`
	Account        string        `mapstructure:"account"`
	Command        string        `mapstructure:"command"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

type FilingConfig struct {
	StrictLayouts bool `mapstructure:"strict_layouts"`
}

// Source builds the configured credential source.
func (c CredentialConfig) Source() credential.Source {
	return credential.NewSource(c.Service, c.Account, c.Command, c.CommandTimeout)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("openfec.base_url", openfec.DefaultBaseURL)
	v.SetDefault("openfec.timeout", openfec.DefaultTimeout)
	v.SetDefault("docquery.base_url", docquery.DefaultBaseURL)
	v.SetDefault("docquery.timeout", docquery.DefaultTimeout)
	v.SetDefault("docquery.user_agent", docquery.DefaultUserAgent)
	v.SetDefault("docquery.temp_dir", "")
	v.SetDefault("credential.service", credential.DefaultService)
	v.SetDefault("credential.account", credential.DefaultAccount)
	v.SetDefault("credential.command", "")
	v.SetDefault("credential.command_timeout", credential.DefaultCommandTimeout)
	v.SetDefault("filing.strict_layouts", false)
}

// DefaultPath returns the user-level config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fec-mcp", "config.yaml")
}

// Load reads configuration. An explicit path must exist; the default path is
// optional. Flags maps config keys to flags that override them when set.
func Load(path string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := readFile(v, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func readFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}
