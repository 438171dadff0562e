package main

import (
	"context"

	"github.com/klothoplatform/archdiagram/pkg/config"
	"github.com/klothoplatform/archdiagram/pkg/generator"
	"github.com/klothoplatform/archdiagram/pkg/llm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.Flags(), &cfgFlags)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	zap.L().Debug("Loaded configuration",
		zap.String("provider", cfg.Provider),
		zap.String("region", cfg.Region),
		zap.String("model", cfg.ModelID),
		zap.Stringer("dangling", cfg.Dangling),
	)
	return cfg, nil
}

func newCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return llm.NewAnthropic(llm.AnthropicOptions{
			URL:        cfg.AnthropicURL,
			APIKey:     cfg.AnthropicAPIKey,
			Timeout:    cfg.RequestTimeout,
			RetryCount: cfg.RetryCount,
		}), nil

	default:
		return llm.NewBedrock(ctx, llm.BedrockOptions{
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			SessionToken:    cfg.SessionToken,
		})
	}
}

func newGenerator(ctx context.Context, cfg config.Config) (*generator.Generator, error) {
	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &generator.Generator{
		Completer: completer,
		ModelID:   cfg.ModelID,
		MaxTokens: cfg.MaxTokens,
		Dangling:  cfg.Dangling,
		Timeout:   cfg.RequestTimeout,
	}, nil
}
