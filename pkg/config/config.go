// Package config loads client settings from a YAML file and CONTEXTIO_*
// environment variables.
//
// Precedence, lowest first: defaults, file, environment. Callers apply
// command-line flags on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/client"
	"github.com/forcebit/contextio-go/pkg/oauth"
	"github.com/forcebit/contextio-go/pkg/signing"
)

// Config is the resolved configuration.
type Config struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	// SecretKeyFile is read into SecretKey when SecretKey is empty. It is
	// the usual way to supply a PEM private key for RSA-SHA1.
	SecretKeyFile string `yaml:"secret_key_file"`

	Endpoint        string `yaml:"endpoint"`
	APIVersion      string `yaml:"api_version"`
	UseSSL          bool   `yaml:"use_ssl"`
	AuthHeaders     bool   `yaml:"auth_headers"`
	InsecureSkipTLS bool   `yaml:"insecure_skip_verify"`
	SaveHeaders     bool   `yaml:"save_headers"`

	SignatureMethod string        `yaml:"signature_method"`
	Timeout         time.Duration `yaml:"timeout"`
	UserAgent       string        `yaml:"user_agent"`

	Token struct {
		Key    string `yaml:"key"`
		Secret string `yaml:"secret"`
	} `yaml:"token"`

	Log struct {
		Level  string   `yaml:"level"`
		Writer []string `yaml:"writer"`
		File   string   `yaml:"file"`
	} `yaml:"log"`

	// Sources records where each overridden value came from.
	Sources map[string]string `yaml:"-"`
}

// Value sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{
		Endpoint:        client.DefaultEndpoint,
		APIVersion:      client.DefaultAPIVersion,
		UseSSL:          true,
		AuthHeaders:     true,
		SignatureMethod: signing.HMACSHA1,
		Timeout:         client.DefaultTimeout,
		Sources:         make(map[string]string),
	}
	cfg.Log.Level = "info"
	cfg.Log.Writer = []string{"console"}
	return cfg
}

// Load returns defaults overlaid with the file at path, when path is not
// empty, and then with the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current value.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apierr.ConfigWrap("config", err, "cannot read %s", path)
	}

	var present map[string]any
	if err := yaml.Unmarshal(data, &present); err != nil {
		return apierr.ConfigWrap("config", err, "cannot parse %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return apierr.ConfigWrap("config", err, "cannot parse %s", path)
	}
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}
	for key := range present {
		cfg.Sources[key] = SourceFile
	}
	return nil
}

// LoadFromEnv overlays CONTEXTIO_* variables onto cfg. Boolean variables
// accept true/false/1/0; anything else is an error.
func LoadFromEnv(cfg *Config) error {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	strs := []struct {
		env, key string
		dst      *string
	}{
		{"CONTEXTIO_ACCESS_KEY", "access_key", &cfg.AccessKey},
		{"CONTEXTIO_SECRET_KEY", "secret_key", &cfg.SecretKey},
		{"CONTEXTIO_SECRET_KEY_FILE", "secret_key_file", &cfg.SecretKeyFile},
		{"CONTEXTIO_ENDPOINT", "endpoint", &cfg.Endpoint},
		{"CONTEXTIO_API_VERSION", "api_version", &cfg.APIVersion},
		{"CONTEXTIO_SIGNATURE_METHOD", "signature_method", &cfg.SignatureMethod},
		{"CONTEXTIO_LOG_LEVEL", "log.level", &cfg.Log.Level},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
			cfg.Sources[s.key] = SourceEnv
		}
	}

	bools := []struct {
		env, key string
		dst      *bool
	}{
		{"CONTEXTIO_USE_SSL", "use_ssl", &cfg.UseSSL},
		{"CONTEXTIO_AUTH_HEADERS", "auth_headers", &cfg.AuthHeaders},
		{"CONTEXTIO_INSECURE_SKIP_VERIFY", "insecure_skip_verify", &cfg.InsecureSkipTLS},
		{"CONTEXTIO_SAVE_HEADERS", "save_headers", &cfg.SaveHeaders},
	}
	for _, b := range bools {
		v := os.Getenv(b.env)
		if v == "" {
			continue
		}
		parsed, ok := parseEnvBool(v)
		if !ok {
			return apierr.Config("config", "%s: invalid boolean %q", b.env, v)
		}
		*b.dst = parsed
		cfg.Sources[b.key] = SourceEnv
	}

	if v := os.Getenv("CONTEXTIO_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apierr.ConfigWrap("config", err, "CONTEXTIO_TIMEOUT: invalid duration %q", v)
		}
		cfg.Timeout = d
		cfg.Sources["timeout"] = SourceEnv
	}
	return nil
}

func parseEnvBool(v string) (bool, bool) {
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
	if err != nil {
		return false, false
	}
	return b, true
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.AccessKey == "" {
		errs = append(errs, apierr.Config("config", "access_key is required"))
	}
	if c.SecretKey == "" && c.SecretKeyFile == "" {
		errs = append(errs, apierr.Config("config", "secret_key or secret_key_file is required"))
	}
	if c.Endpoint == "" || strings.Contains(c.Endpoint, "/") {
		errs = append(errs, apierr.Config("config", "endpoint must be a host name, got %q", c.Endpoint))
	}
	if !contains(client.SupportedAPIVersions, c.APIVersion) {
		errs = append(errs, apierr.Config("config", "unsupported api_version %q", c.APIVersion))
	}
	if !contains(signing.Supported(), c.SignatureMethod) {
		errs = append(errs, apierr.Config("config", "unsupported signature_method %q", c.SignatureMethod))
	}
	if c.Timeout < 0 {
		errs = append(errs, apierr.Config("config", "timeout must not be negative"))
	}
	if (c.Token.Key == "") != (c.Token.Secret == "") {
		errs = append(errs, apierr.Config("config", "token key and secret must be set together"))
	}
	return errors.Join(errs...)
}

// secret returns SecretKey, reading SecretKeyFile when needed.
func (c *Config) secret() (string, error) {
	if c.SecretKey != "" || c.SecretKeyFile == "" {
		return c.SecretKey, nil
	}
	data, err := os.ReadFile(c.SecretKeyFile)
	if err != nil {
		return "", apierr.ConfigWrap("config", err, "cannot read secret_key_file")
	}
	return string(data), nil
}

// ClientConfig projects c onto the connection surface of client.New.
func (c *Config) ClientConfig() (client.Config, error) {
	secret, err := c.secret()
	if err != nil {
		return client.Config{}, err
	}
	return client.Config{
		AccessKey:  c.AccessKey,
		SecretKey:  secret,
		UseSSL:     c.UseSSL,
		Endpoint:   c.Endpoint,
		APIVersion: c.APIVersion,
	}, nil
}

// ClientOptions returns the client options c implies.
func (c *Config) ClientOptions() []client.Option {
	opts := []client.Option{
		client.WithAuthorizationHeaders(c.AuthHeaders),
		client.WithInsecureSkipVerify(c.InsecureSkipTLS),
		client.WithSaveHeaders(c.SaveHeaders),
		client.WithUserAgent(c.UserAgent),
	}
	if c.SignatureMethod != "" {
		opts = append(opts, client.WithSignatureMethod(c.SignatureMethod))
	}
	if c.Timeout > 0 {
		opts = append(opts, client.WithTimeout(c.Timeout))
	}
	if c.Token.Key != "" {
		opts = append(opts, client.WithToken(oauth.Token{Key: c.Token.Key, Secret: c.Token.Secret}))
	}
	return opts
}

// String renders c with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("endpoint=%s api_version=%s ssl=%t auth_headers=%t signature_method=%s access_key=%s",
		c.Endpoint, c.APIVersion, c.UseSSL, c.AuthHeaders, c.SignatureMethod, mask(c.AccessKey))
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
