package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/client"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contextio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "api.context.io", cfg.Endpoint)
	assert.Equal(t, "2.0", cfg.APIVersion)
	assert.True(t, cfg.UseSSL)
	assert.True(t, cfg.AuthHeaders)
	assert.False(t, cfg.InsecureSkipTLS)
	assert.Equal(t, "HMAC-SHA1", cfg.SignatureMethod)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"console"}, cfg.Log.Writer)
	assert.NotNil(t, cfg.Sources)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
access_key: ck
secret_key: cs
use_ssl: false
timeout: 15s
token:
  key: tk
  secret: ts
log:
  level: debug
  writer: [console, file]
  file: /tmp/contextio.log
`)

	cfg := Default()
	require.NoError(t, LoadFile(cfg, path))

	assert.Equal(t, "ck", cfg.AccessKey)
	assert.Equal(t, "cs", cfg.SecretKey)
	assert.False(t, cfg.UseSSL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "tk", cfg.Token.Key)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"console", "file"}, cfg.Log.Writer)

	assert.Equal(t, "api.context.io", cfg.Endpoint, "absent keys keep defaults")
	assert.True(t, cfg.AuthHeaders)

	assert.Equal(t, SourceFile, cfg.Sources["access_key"])
	assert.Equal(t, SourceFile, cfg.Sources["use_ssl"])
	assert.NotContains(t, cfg.Sources, "endpoint")
}

func TestLoadFile_Errors(t *testing.T) {
	err := LoadFile(Default(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, apierr.ErrConfigurationError)

	err = LoadFile(Default(), writeConfig(t, "access_key: [unterminated"))
	assert.ErrorIs(t, err, apierr.ErrConfigurationError)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONTEXTIO_ACCESS_KEY", "env-key")
	t.Setenv("CONTEXTIO_ENDPOINT", "api.example.com")
	t.Setenv("CONTEXTIO_USE_SSL", "0")
	t.Setenv("CONTEXTIO_AUTH_HEADERS", "false")
	t.Setenv("CONTEXTIO_INSECURE_SKIP_VERIFY", "TRUE")
	t.Setenv("CONTEXTIO_TIMEOUT", "5s")

	cfg, err := Load(writeConfig(t, "access_key: file-key\nsecret_key: file-secret\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.AccessKey, "environment wins over the file")
	assert.Equal(t, "file-secret", cfg.SecretKey)
	assert.Equal(t, "api.example.com", cfg.Endpoint)
	assert.False(t, cfg.UseSSL)
	assert.False(t, cfg.AuthHeaders)
	assert.True(t, cfg.InsecureSkipTLS)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	assert.Equal(t, SourceEnv, cfg.Sources["access_key"])
	assert.Equal(t, SourceFile, cfg.Sources["secret_key"])
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("CONTEXTIO_USE_SSL", "maybe")
	assert.ErrorIs(t, LoadFromEnv(Default()), apierr.ErrConfigurationError)

	t.Setenv("CONTEXTIO_USE_SSL", "")
	t.Setenv("CONTEXTIO_TIMEOUT", "soon")
	assert.ErrorIs(t, LoadFromEnv(Default()), apierr.ErrConfigurationError)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.AccessKey = "ck"
		cfg.SecretKey = "cs"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access key", func(c *Config) { c.AccessKey = "" }},
		{"missing secret", func(c *Config) { c.SecretKey = "" }},
		{"endpoint with scheme", func(c *Config) { c.Endpoint = "https://api.context.io" }},
		{"api version", func(c *Config) { c.APIVersion = "1.1" }},
		{"signature method", func(c *Config) { c.SignatureMethod = "HMAC-SHA256" }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"half a token", func(c *Config) { c.Token.Key = "tk" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), apierr.ErrConfigurationError)
		})
	}

	cfg := valid()
	cfg.AccessKey = ""
	cfg.APIVersion = "3"
	err := cfg.Validate()
	assert.Contains(t, err.Error(), "access_key")
	assert.Contains(t, err.Error(), "api_version")
}

func TestClientConfig(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(keyFile, []byte("PEM DATA"), 0o600))

	cfg := Default()
	cfg.AccessKey = "ck"
	cfg.SecretKeyFile = keyFile

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, client.Config{
		AccessKey:  "ck",
		SecretKey:  "PEM DATA",
		UseSSL:     true,
		Endpoint:   "api.context.io",
		APIVersion: "2.0",
	}, cc)

	cfg.SecretKeyFile = filepath.Join(t.TempDir(), "missing.pem")
	_, err = cfg.ClientConfig()
	assert.ErrorIs(t, err, apierr.ErrConfigurationError)
}

func TestClientOptions_BuildClient(t *testing.T) {
	cfg := Default()
	cfg.AccessKey = "ck"
	cfg.SecretKey = "cs"
	cfg.UseSSL = false
	cfg.Token.Key, cfg.Token.Secret = "tk", "ts"

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	c, err := client.New(cc, cfg.ClientOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "http://api.context.io/2.0/", c.BaseURL())
	assert.Equal(t, "HMAC-SHA1", c.SignatureMethod())
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := Default()
	cfg.AccessKey = "abcdefgh"
	cfg.SecretKey = "topsecret"

	s := cfg.String()
	assert.Contains(t, s, "abcd****")
	assert.NotContains(t, s, "topsecret")
	assert.NotContains(t, s, "abcdefgh")
}
