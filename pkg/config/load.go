package config

import (
	"github.com/klothoplatform/archdiagram/pkg/cli_config"
	"github.com/spf13/pflag"
)

type (
	// Flags are the command-line overrides. They are applied last and only when given explicitly.
	Flags struct {
		File     string
		DotEnv   string
		Provider string
		Region   string
		ModelID  string
		Dangling string
		Addr     string
	}
)

func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.File, "config", "c", "", "Config file (.json, .yaml or .toml); defaults to ~/.archdiagram/config.yaml if present")
	fs.StringVar(&f.DotEnv, "env-file", ".env", "Environment file to load before the process environment")
	fs.StringVar(&f.Provider, "provider", "", "Model provider: bedrock or anthropic")
	fs.StringVar(&f.Region, "region", "", "AWS region for Bedrock")
	fs.StringVar(&f.ModelID, "model", "", "Model identifier")
	fs.StringVar(&f.Dangling, "dangling", "", "What to do with relationships to unknown services: drop, fail or sentinel")
}

// RegisterServer adds the flags that only apply to the HTTP server.
func (f *Flags) RegisterServer(fs *pflag.FlagSet) {
	fs.StringVar(&f.Addr, "addr", "", "Address to listen on")
}

// Load builds the configuration from every source. It does not validate.
func Load(fs *pflag.FlagSet, f *Flags) (Config, error) {
	cfg := Default()

	file := f.File
	if file == "" {
		file = cli_config.DefaultConfigFile()
	}
	if file != "" {
		if err := cfg.ReadFile(file); err != nil {
			return cfg, err
		}
	}

	if err := cfg.LoadEnv(f.DotEnv); err != nil {
		return cfg, err
	}

	return cfg, f.apply(fs, &cfg)
}

func (f *Flags) apply(fs *pflag.FlagSet, cfg *Config) error {
	changed := func(name string) bool {
		return fs != nil && fs.Lookup(name) != nil && fs.Changed(name)
	}
	if changed("provider") {
		cfg.Provider = f.Provider
	}
	if changed("region") {
		cfg.Region = f.Region
	}
	if changed("model") {
		cfg.ModelID = f.ModelID
	}
	if changed("addr") {
		cfg.Server.Addr = f.Addr
	}
	if changed("dangling") {
		return cfg.Dangling.UnmarshalText([]byte(f.Dangling))
	}
	return nil
}
