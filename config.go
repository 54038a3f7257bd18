package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/iochen/lcglab/lcg"
)

const (
	defaultConfigFile = "~/.lcglab.yaml"
	envPrefix         = "LCGLAB"
)

type Config struct {
	Listen     string     `yaml:"listen" mapstructure:"listen"`
	TLSCert    string     `yaml:"tls_cert" mapstructure:"tls_cert"`
	TLSKey     string     `yaml:"tls_key" mapstructure:"tls_key"`
	LogLevel   string     `yaml:"log_level" mapstructure:"log_level"`
	MaxSize    int        `yaml:"max_size" mapstructure:"max_size"`
	MaxModulus int64      `yaml:"max_modulus" mapstructure:"max_modulus"`
	RateLimit  float64    `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst  int        `yaml:"rate_burst" mapstructure:"rate_burst"`
	Defaults   lcg.Params `yaml:"defaults" mapstructure:"defaults"`
}

func defaultConfig() *Config {
	return &Config{
		Listen:     ":4004",
		LogLevel:   "info",
		MaxSize:    1024,
		MaxModulus: 1 << 32,
		RateLimit:  20,
		RateBurst:  40,
		Defaults:   lcg.NumericalRecipes,
	}
}

// Validate checks that the server can run with c.
func (c *Config) Validate() error {
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("max_size must be positive, got %d", c.MaxSize)
	}
	if c.MaxSize > lcg.MaxSequenceLength/c.MaxSize {
		return fmt.Errorf("max_size %d exceeds %d values per image", c.MaxSize, lcg.MaxSequenceLength)
	}
	if c.MaxModulus <= 0 {
		return fmt.Errorf("max_modulus must be positive, got %d", c.MaxModulus)
	}
	if c.Defaults.Modulus > c.MaxModulus {
		return fmt.Errorf("defaults: m=%d exceeds max_modulus %d", c.Defaults.Modulus, c.MaxModulus)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be at least 1 when rate_limit is set")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("tls_cert and tls_key must be set together")
	}
	return nil
}

// configPath expands a leading ~ in path, falling back to ~/.lcglab.yaml.
func configPath(path string) (string, error) {
	if path == "" {
		path = defaultConfigFile
	}
	return homedir.Expand(path)
}

// writeDefaultConfig creates path with the default settings if it does not
// exist yet. It reports whether a file was written.
func writeDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return false, err
	}
	out, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return false, err
	}
	if err := ioutil.WriteFile(path, out, 0644); err != nil {
		return false, err
	}
	return true, nil
}

// loadConfig reads path into a Config. Environment variables prefixed with
// LCGLAB_ (LCGLAB_LISTEN, LCGLAB_DEFAULTS_M, ...) and flags bound to v
// override the file.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	def := defaultConfig()
	v.SetDefault("listen", def.Listen)
	v.SetDefault("tls_cert", def.TLSCert)
	v.SetDefault("tls_key", def.TLSKey)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("max_size", def.MaxSize)
	v.SetDefault("max_modulus", def.MaxModulus)
	v.SetDefault("rate_limit", def.RateLimit)
	v.SetDefault("rate_burst", def.RateBurst)
	v.SetDefault("defaults.a", def.Defaults.Multiplier)
	v.SetDefault("defaults.c", def.Defaults.Increment)
	v.SetDefault("defaults.m", def.Defaults.Modulus)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}
