// pkg/config/config.go - configuration settings for the AeroMedia setup tools.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DataDir is where the setup tools keep their own state (logs, overrides).
const DataDir = `C:\ProgramData\AKSoftware\AeroMediaService`

// ConfigPath is the optional YAML override file. Most installs never have one;
// defaults plus registry policy cover the normal cases.
const ConfigPath = DataDir + `\setup.yaml`

// PolicyRegistryPath holds enterprise overrides pushed via policy, mirroring
// the values the YAML file can set.
const PolicyRegistryPath = `SOFTWARE\AKSoftware\AeroMediaService\Setup`

// Configuration holds the configurable options for the setup tools.
type Configuration struct {
	InstallRoot        string `yaml:"InstallRoot"`
	LogDir             string `yaml:"LogDir"`
	LogLevel           string `yaml:"LogLevel"`
	Silent             bool   `yaml:"Silent"`
	Verbose            bool   `yaml:"Verbose"`
	Debug              bool   `yaml:"Debug"`
	CheckOnly          bool   `yaml:"CheckOnly"`
	KillTimeoutSeconds int    `yaml:"KillTimeoutSeconds"`
}

// KillTimeout returns the process termination deadline as a duration.
func (c *Configuration) KillTimeout() time.Duration {
	if c.KillTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.KillTimeoutSeconds) * time.Second
}

// GetDefaultConfig provides the default configuration values.
func GetDefaultConfig() *Configuration {
	// Use ProgramW6432 to force the 64-bit Program Files path.
	programFiles := os.Getenv("ProgramW6432")
	if programFiles == "" {
		programFiles = os.Getenv("ProgramFiles")
	}
	if programFiles == "" {
		programFiles = `C:\Program Files`
	}
	return &Configuration{
		InstallRoot:        filepath.Join(programFiles, "AeroMediaService"),
		LogDir:             filepath.Join(DataDir, "logs"),
		LogLevel:           "INFO",
		Silent:             false,
		Verbose:            false,
		Debug:              false,
		CheckOnly:          false,
		KillTimeoutSeconds: 10,
	}
}

// LoadConfig resolves the effective configuration: defaults, then registry
// policy values, then the YAML override file if present.
func LoadConfig() (*Configuration, error) {
	cfg := GetDefaultConfig()

	loadPolicyOverrides(cfg)

	if _, err := os.Stat(ConfigPath); err == nil {
		data, err := os.ReadFile(ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", ConfigPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", ConfigPath, err)
		}
	}

	if cfg.KillTimeoutSeconds <= 0 {
		cfg.KillTimeoutSeconds = 10
	}
	return cfg, nil
}

// SaveConfig writes the configuration back to the YAML override file.
func SaveConfig(cfg *Configuration) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serializing configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(ConfigPath), 0755); err != nil {
		return fmt.Errorf("creating configuration directory: %w", err)
	}
	if err := os.WriteFile(ConfigPath, data, 0644); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}
	return nil
}
