// Package webapi submits quantum programs to the QRyd web API and polls for
// their results. The backend reads gate availability and the routing key
// from the device model but never mutates it.
package webapi

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	defaultBaseURL      = "https://api.qryddemo.itp3.uni-stuttgart.de"
	defaultAPIVersion   = "v5_2"
	defaultPollInterval = 30 * time.Second
	defaultMaxPolls     = 30
)

// TokenEnvVar names the environment variable consulted for the access token
// when the config does not carry one.
const TokenEnvVar = "QRYD_API_TOKEN"

// Config holds the connection parameters of the web API backend.
type Config struct {
	// BaseURL is the root of the QRyd web API.
	BaseURL string `yaml:"baseUrl"`
	// APIVersion selects the API version path segment.
	APIVersion string `yaml:"apiVersion"`
	// AccessToken authenticates against QRyd hardware and emulators. Falls
	// back to $QRYD_API_TOKEN.
	AccessToken string `yaml:"accessToken"`
	// PollInterval is the pause between job status queries.
	PollInterval time.Duration `yaml:"pollInterval"`
	// MaxPolls bounds how many status queries WaitForResult issues before
	// reporting a timeout.
	MaxPolls int `yaml:"maxPolls"`
	// Dev requests the develop version of the API.
	Dev bool `yaml:"dev"`
}

// WithDefaults returns a copy of the config with any missing fields set to
// their default values.
func (c Config) WithDefaults() Config {
	cpy := c
	if cpy.BaseURL == "" {
		cpy.BaseURL = defaultBaseURL
	}
	if cpy.APIVersion == "" {
		cpy.APIVersion = defaultAPIVersion
	}
	if cpy.PollInterval == 0 {
		cpy.PollInterval = defaultPollInterval
	}
	if cpy.MaxPolls == 0 {
		cpy.MaxPolls = defaultMaxPolls
	}
	return cpy
}

// LoadConfig reads a yaml config file and applies defaults.
func LoadConfig(path string) (Config, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read webapi config")
	}
	var c Config
	if err := yaml.Unmarshal(blob, &c); err != nil {
		return Config{}, errors.Wrap(err, "decode webapi config")
	}
	return c.WithDefaults(), nil
}
