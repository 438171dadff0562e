package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/klothoplatform/archdiagram/pkg/cli_config"
	"github.com/klothoplatform/archdiagram/pkg/diagram"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	EnvProvider        cli_config.EnvVar = "ARCHDIAGRAM_PROVIDER"
	EnvRegion          cli_config.EnvVar = "AWS_REGION"
	EnvAccessKeyID     cli_config.EnvVar = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey cli_config.EnvVar = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken    cli_config.EnvVar = "AWS_SESSION_TOKEN"
	EnvAnthropicAPIKey cli_config.EnvVar = "ANTHROPIC_API_KEY"
	EnvAnthropicURL    cli_config.EnvVar = "ANTHROPIC_URL"
	EnvModelID         cli_config.EnvVar = "BEDROCK_MODEL_ID"
	EnvMaxTokens       cli_config.EnvVar = "ARCHDIAGRAM_MAX_TOKENS"
	EnvRequestTimeout  cli_config.EnvVar = "ARCHDIAGRAM_REQUEST_TIMEOUT"
	EnvRetryCount      cli_config.EnvVar = "ARCHDIAGRAM_RETRY_COUNT"
	EnvDangling        cli_config.EnvVar = "ARCHDIAGRAM_DANGLING"
	EnvAddr            cli_config.EnvVar = "ARCHDIAGRAM_ADDR"
	EnvAllowedOrigins  cli_config.EnvVar = "ARCHDIAGRAM_ALLOWED_ORIGINS"
	EnvMaxBodyBytes    cli_config.EnvVar = "ARCHDIAGRAM_MAX_BODY_BYTES"
)

var envVars = []cli_config.EnvVar{
	EnvProvider, EnvRegion, EnvAccessKeyID, EnvSecretAccessKey, EnvSessionToken,
	EnvAnthropicAPIKey, EnvAnthropicURL, EnvModelID, EnvMaxTokens, EnvRequestTimeout,
	EnvRetryCount, EnvDangling, EnvAddr, EnvAllowedOrigins, EnvMaxBodyBytes,
}

// envConfig mirrors the settings that can come from the environment. Nil means not set.
type envConfig struct {
	Provider        *string        `mapstructure:"ARCHDIAGRAM_PROVIDER"`
	Region          *string        `mapstructure:"AWS_REGION"`
	AccessKeyID     *string        `mapstructure:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey *string        `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	SessionToken    *string        `mapstructure:"AWS_SESSION_TOKEN"`
	AnthropicAPIKey *string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicURL    *string        `mapstructure:"ANTHROPIC_URL"`
	ModelID         *string        `mapstructure:"BEDROCK_MODEL_ID"`
	MaxTokens       *int           `mapstructure:"ARCHDIAGRAM_MAX_TOKENS"`
	RequestTimeout  *time.Duration `mapstructure:"ARCHDIAGRAM_REQUEST_TIMEOUT"`
	RetryCount      *int           `mapstructure:"ARCHDIAGRAM_RETRY_COUNT"`
	Dangling        *string        `mapstructure:"ARCHDIAGRAM_DANGLING"`
	Addr            *string        `mapstructure:"ARCHDIAGRAM_ADDR"`
	AllowedOrigins  []string       `mapstructure:"ARCHDIAGRAM_ALLOWED_ORIGINS"`
	MaxBodyBytes    *int64         `mapstructure:"ARCHDIAGRAM_MAX_BODY_BYTES"`
}

// LoadEnv applies settings from dotenvPath (if it exists) and then from the process environment, which wins.
// An empty dotenvPath skips the file.
func (cfg *Config) LoadEnv(dotenvPath string) error {
	values := make(map[string]string)
	if dotenvPath != "" {
		fileValues, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			values = fileValues
		case errors.Is(err, os.ErrNotExist):
		default:
			return errors.Wrapf(err, "could not read %s", dotenvPath)
		}
	}
	for _, v := range envVars {
		if v.IsSet() {
			values[v.String()] = v.GetOr("")
		}
	}
	return cfg.applyEnv(values)
}

func (cfg *Config) applyEnv(values map[string]string) error {
	input := make(map[string]any, len(values))
	for k, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			input[k] = v
		}
	}

	var env envConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &env,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return errors.Wrap(err, "invalid environment configuration")
	}

	setString(&cfg.Provider, env.Provider)
	setString(&cfg.Region, env.Region)
	setString(&cfg.AccessKeyID, env.AccessKeyID)
	setString(&cfg.SecretAccessKey, env.SecretAccessKey)
	setString(&cfg.SessionToken, env.SessionToken)
	setString(&cfg.AnthropicAPIKey, env.AnthropicAPIKey)
	setString(&cfg.AnthropicURL, env.AnthropicURL)
	setString(&cfg.ModelID, env.ModelID)
	setString(&cfg.Server.Addr, env.Addr)
	if env.MaxTokens != nil {
		cfg.MaxTokens = *env.MaxTokens
	}
	if env.RequestTimeout != nil {
		cfg.RequestTimeout = *env.RequestTimeout
	}
	if env.RetryCount != nil {
		cfg.RetryCount = *env.RetryCount
	}
	if env.MaxBodyBytes != nil {
		cfg.Server.MaxBodyBytes = *env.MaxBodyBytes
	}
	if len(env.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = env.AllowedOrigins
	}
	if env.Dangling != nil {
		policy, err := diagram.ParseDanglingPolicy(*env.Dangling)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvDangling)
		}
		cfg.Dangling = policy
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
