// Package cliconfig loads and saves the named connection profiles used
// by the appconfig CLI.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of ~/.appconfig/config.yaml: a set of named
// profiles plus which one applies when --profile is not given.
type Config struct {
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile holds everything needed to construct an appconfiguration.Client:
// the credentials to reach the service, and the (environment, collection)
// pair to pin it to.
type Profile struct {
	Region        string `yaml:"region"`
	GUID          string `yaml:"guid"`
	APIKey        string `yaml:"api_key"`
	EnvironmentID string `yaml:"environment_id"`
	CollectionID  string `yaml:"collection_id"`
}

// Path returns the path to the profile config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".appconfig", "config.yaml"), nil
}

// Load reads the profile config file. A missing file is not an error: it
// yields an empty config with no default profile set.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Profiles: make(map[string]Profile)}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	return &cfg, nil
}

// Save writes cfg to the profile config file, creating its parent
// directory if necessary.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Resolve picks the effective profile by priority: an explicit flags-built
// profile wins outright, then environment variables, then the named (or
// default) profile from the config file.
func Resolve(profileName string, flags Profile) (Profile, string, error) {
	if flags.APIKey != "" && flags.Region != "" && flags.GUID != "" {
		return flags, profileName, nil
	}

	envProfile := Profile{
		Region:        os.Getenv("APPCONFIG_REGION"),
		GUID:          os.Getenv("APPCONFIG_GUID"),
		APIKey:        os.Getenv("APPCONFIG_APIKEY"),
		EnvironmentID: os.Getenv("APPCONFIG_ENVIRONMENT_ID"),
		CollectionID:  os.Getenv("APPCONFIG_COLLECTION_ID"),
	}
	if envProfile.APIKey != "" && envProfile.Region != "" && envProfile.GUID != "" {
		return overlay(envProfile, flags), profileName, nil
	}

	cfg, err := Load()
	if err != nil {
		return Profile{}, "", err
	}
	if profileName == "" {
		profileName = cfg.DefaultProfile
	}
	if profileName == "" {
		return Profile{}, "", fmt.Errorf("no profile specified and no default profile configured")
	}

	profile, ok := cfg.Profiles[profileName]
	if !ok {
		return Profile{}, "", fmt.Errorf("profile %q not found in config", profileName)
	}
	profile = overlay(profile, envProfile)
	profile = overlay(profile, flags)

	if profile.APIKey == "" || profile.Region == "" || profile.GUID == "" {
		return Profile{}, "", fmt.Errorf("profile %q is missing api_key, region, or guid", profileName)
	}
	return profile, profileName, nil
}

// overlay returns base with any non-empty field in override replacing it.
func overlay(base, override Profile) Profile {
	if override.Region != "" {
		base.Region = override.Region
	}
	if override.GUID != "" {
		base.GUID = override.GUID
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.EnvironmentID != "" {
		base.EnvironmentID = override.EnvironmentID
	}
	if override.CollectionID != "" {
		base.CollectionID = override.CollectionID
	}
	return base
}
