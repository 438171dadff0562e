// Package config holds the settings the generator, model clients and server are built from. Values are layered:
// defaults, then a config file, then the environment (including a .env file), then command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klothoplatform/archdiagram/pkg/diagram"
	"github.com/klothoplatform/archdiagram/pkg/llm"
	"github.com/klothoplatform/archdiagram/pkg/multierr"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ProviderBedrock   = "bedrock"
	ProviderAnthropic = "anthropic"
)

type (
	Config struct {
		Provider string `json:"provider" yaml:"provider" toml:"provider"`

		Region          string `json:"region" yaml:"region" toml:"region"`
		AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty" toml:"access_key_id,omitempty"`
		SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty" toml:"secret_access_key,omitempty"`
		SessionToken    string `json:"session_token,omitempty" yaml:"session_token,omitempty" toml:"session_token,omitempty"`

		AnthropicAPIKey string `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty" toml:"anthropic_api_key,omitempty"`
		AnthropicURL    string `json:"anthropic_url,omitempty" yaml:"anthropic_url,omitempty" toml:"anthropic_url,omitempty"`

		ModelID        string        `json:"model_id" yaml:"model_id" toml:"model_id"`
		MaxTokens      int           `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
		RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
		RetryCount     int           `json:"retry_count" yaml:"retry_count" toml:"retry_count"`

		Dangling diagram.DanglingPolicy `json:"dangling" yaml:"dangling" toml:"dangling"`

		Server Server `json:"server" yaml:"server" toml:"server"`

		// Format is the format of the file the config was read from, if any.
		Format string `json:"-" yaml:"-" toml:"-"`
	}

	Server struct {
		Addr           string   `json:"addr" yaml:"addr" toml:"addr"`
		AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty" toml:"allowed_origins,omitempty"`
		MaxBodyBytes   int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	}

	MissingFieldError struct {
		Field string
		Hint  string
	}
)

func Default() Config {
	return Config{
		Provider:       ProviderBedrock,
		Region:         "us-east-1",
		ModelID:        llm.DefaultModelID,
		MaxTokens:      llm.DefaultMaxTokens,
		RequestTimeout: 2 * time.Minute,
		Dangling:       diagram.DropEdge,
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
	}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required setting %s (%s)", e.Field, e.Hint)
}

// ReadFile decodes fpath over cfg. Only keys present in the file are changed. The format is chosen by extension.
func (cfg *Config) ReadFile(fpath string) error {
	f, err := os.Open(fpath)
	if err != nil {
		return err
	}
	defer f.Close() // nolint:errcheck

	switch filepath.Ext(fpath) {
	case ".json":
		err = json.NewDecoder(f).Decode(cfg)
		cfg.Format = "json"

	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(cfg)
		cfg.Format = "yaml"

	case ".toml":
		err = toml.NewDecoder(f).Decode(cfg)
		cfg.Format = "toml"

	default:
		return errors.Errorf("unsupported config file type %q", filepath.Ext(fpath))
	}
	return errors.Wrapf(err, "could not read config file %s", fpath)
}

// Validate reports every missing required setting at once.
func (cfg Config) Validate() error {
	var errs multierr.Error
	switch cfg.Provider {
	case ProviderBedrock:
		if cfg.Region == "" {
			errs.Append(&MissingFieldError{Field: "region", Hint: "set AWS_REGION or --region"})
		}
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			errs.Append(&MissingFieldError{Field: "anthropic_api_key", Hint: "set ANTHROPIC_API_KEY"})
		}
	default:
		errs.Append(errors.Errorf("unknown provider %q (expected %s or %s)", cfg.Provider, ProviderBedrock, ProviderAnthropic))
	}
	if cfg.ModelID == "" {
		errs.Append(&MissingFieldError{Field: "model_id", Hint: "set BEDROCK_MODEL_ID or --model"})
	}
	if cfg.MaxTokens <= 0 {
		errs.Append(errors.Errorf("max_tokens must be positive, got %d", cfg.MaxTokens))
	}
	if cfg.RetryCount < 0 {
		errs.Append(errors.Errorf("retry_count must not be negative, got %d", cfg.RetryCount))
	}
	return errs.ErrOrNil()
}
