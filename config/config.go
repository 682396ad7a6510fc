// Package config holds the settings a client needs to talk to the
// storage service.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// Config is an immutable value once handed to a client
type Config struct {
	BucketName string `env:"BUCKET_NAME" mapstructure:"bucketName"`

	AccessKeyID     string `env:"ACCESS_KEY_ID" mapstructure:"accessKeyId"`
	AccessKeySecret string `env:"ACCESS_KEY_SECRET" mapstructure:"accessKeySecret"`

	// PublicEndpoint is used for presigned URLs, and for everything else
	// unless Internal is set
	PublicEndpoint string `env:"PUBLIC_ENDPOINT" mapstructure:"publicEndPoint"`

	// PrivateEndpoint is reachable from inside the service's network
	PrivateEndpoint string `env:"PRIVATE_ENDPOINT" mapstructure:"privateEndPoint"`

	Internal bool `env:"INTERNAL" envDefault:"false" mapstructure:"internal"`
}

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "FSS_"

// FromEnv reads the configuration from FSS_* environment variables
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Load reads the configuration from a file. The format follows the file
// extension; ".properties" files use the same keys as the YAML and JSON
// forms (bucketName, accessKeyId, ...).
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return FromViper(v)
}

// FromViper extracts the configuration from an already populated viper
// instance
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once
func (c Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.BucketName) == "" {
		result = multierror.Append(result, fmt.Errorf("bucket name is required"))
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		result = multierror.Append(result, fmt.Errorf("access key id is required"))
	}
	if strings.TrimSpace(c.AccessKeySecret) == "" {
		result = multierror.Append(result, fmt.Errorf("access key secret is required"))
	}
	if err := validateEndpoint(c.PublicEndpoint); err != nil {
		result = multierror.Append(result, fmt.Errorf("public endpoint: %w", err))
	}
	if c.Internal || c.PrivateEndpoint != "" {
		if err := validateEndpoint(c.PrivateEndpoint); err != nil {
			result = multierror.Append(result, fmt.Errorf("private endpoint: %w", err))
		}
	}

	return result.ErrorOrNil()
}

func validateEndpoint(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", s)
	}
	return nil
}

// String hides the secret
func (c Config) String() string {
	return fmt.Sprintf("Config{BucketName:%s AccessKeyID:%s PublicEndpoint:%s PrivateEndpoint:%s Internal:%t}",
		c.BucketName, c.AccessKeyID, c.PublicEndpoint, c.PrivateEndpoint, c.Internal)
}
