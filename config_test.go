package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iochen/lcglab/lcg"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	created, err := writeDefaultConfig(path)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = writeDefaultConfig(path)
	require.NoError(t, err)
	assert.False(t, created)

	config, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), config)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(`
listen: 127.0.0.1:9000
max_size: 512
defaults:
  a: 65539
  c: 0
  m: 2147483648
`), 0644))

	config, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", config.Listen)
	assert.Equal(t, 512, config.MaxSize)
	assert.Equal(t, int64(1<<32), config.MaxModulus)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, lcg.RANDU, config.Defaults)
}

func TestLoadConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, err := writeDefaultConfig(path)
	require.NoError(t, err)

	t.Setenv("LCGLAB_DEFAULTS_M", "16")
	t.Setenv("LCGLAB_LOG_LEVEL", "debug")

	config, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(16), config.Defaults.Modulus)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"zero modulus":  "defaults: {a: 5, c: 3, m: 0}\n",
		"too large":     "max_size: 2048\n",
		"no size":       "max_size: 0\n",
		"no burst":      "rate_burst: 0\n",
		"half tls":      "tls_cert: cert.pem\n",
		"no modulus":    "max_modulus: 0\n",
		"small modulus": "max_modulus: 16\n",
		"not yaml file": "listen: [\n",
	} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))
		_, err := loadConfig(viper.New(), path)
		assert.Error(t, err, name)
	}
}

func TestConfigPath(t *testing.T) {
	path, err := configPath("")
	require.NoError(t, err)
	assert.Equal(t, ".lcglab.yaml", filepath.Base(path))
	assert.True(t, filepath.IsAbs(path))

	path, err = configPath("local.yaml")
	require.NoError(t, err)
	assert.Equal(t, "local.yaml", path)
}
