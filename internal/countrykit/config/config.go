// Package config provides countrykit configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	appconfig "github.com/RobinCoderZhao/countrykit/pkg/config"
	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/i18n"
	"github.com/RobinCoderZhao/countrykit/pkg/storage"
	"golang.org/x/text/language"
)

// FileName is looked up in the working directory, then the home directory.
const FileName = ".countrykit.yaml"

// Config is the main configuration for countrykit.
type Config struct {
	// Lang is the default UI language tag, e.g. "fr" or "sw-KE".
	Lang string `yaml:"lang" env:"COUNTRYKIT_LANG"`
	// Codes backs the country picker. Empty means every ISO code.
	Codes []string `yaml:"codes" env:"COUNTRYKIT_CODES"`
	// IncludeAll puts the all-countries row first.
	IncludeAll bool `yaml:"include_all" env:"COUNTRYKIT_INCLUDE_ALL"`

	Storage storage.Config `yaml:"storage"`
	Server  ServerConfig   `yaml:"server"`
	Geo     GeoConfig      `yaml:"geo"`
	Render  RenderConfig   `yaml:"render"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Addr      string `yaml:"addr" env:"COUNTRYKIT_ADDR"`
	JWTSecret string `yaml:"jwt_secret" env:"COUNTRYKIT_JWT_SECRET"`
}

// GeoConfig selects geolocation backends.
type GeoConfig struct {
	// GeoIPDB is a MaxMind country database; tried before ip-api.com.
	GeoIPDB string `yaml:"geoip_db" env:"COUNTRYKIT_GEOIP_DB"`
	// IPAPI enables the ip-api.com lookup.
	IPAPI bool `yaml:"ip_api" env:"COUNTRYKIT_IP_API"`
}

// RenderConfig holds settings for the render command.
type RenderConfig struct {
	FontPath string `yaml:"font_path" env:"COUNTRYKIT_FONT"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Lang:       string(i18n.DefaultLanguage),
		IncludeAll: true,
		Storage: storage.Config{
			Driver: storage.SQLite,
			DSN:    "data/channels.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Geo: GeoConfig{
			IPAPI: true,
		},
	}
}

// Load loads configuration from path when given, otherwise from the standard
// locations. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := appconfig.Load(path, &cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	// Check project-level config first
	if _, err := os.Stat(FileName); err == nil {
		if err := appconfig.Load(FileName, &cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	// Then check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		if err := appconfig.LoadOrDefault(filepath.Join(home, FileName), &cfg); err != nil {
			return cfg, err
		}
	} else if err := appconfig.LoadBytes(nil, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail later.
func (c Config) Validate() error {
	if _, ok := i18n.ParseTag(c.Lang); !ok {
		return fmt.Errorf("invalid lang %q", c.Lang)
	}
	if _, err := c.CountryCodes(); err != nil {
		return err
	}
	return nil
}

// Language returns the configured language tag, English if unset.
func (c Config) Language() language.Tag {
	if tag, ok := i18n.ParseTag(c.Lang); ok {
		return tag
	}
	return language.English
}

// CountryCodes returns the picker list: Codes, or every ISO code, with the
// sentinel first when IncludeAll is set.
func (c Config) CountryCodes() ([]country.Code, error) {
	codes := country.Codes()
	if len(c.Codes) > 0 {
		codes = make([]country.Code, 0, len(c.Codes))
		for _, raw := range c.Codes {
			code, err := country.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("config codes: %w", err)
			}
			codes = append(codes, code)
		}
	}
	if c.IncludeAll {
		codes = country.WithAll(codes)
	}
	return codes, nil
}
