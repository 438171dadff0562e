package clicommon

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/klothoplatform/archdiagram/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type CommonConfig struct {
	verbose   LevelledFlag
	jsonLog   bool
	color     string
	logsDir   string
	profileTo string
}

// Verbosity is how many times -v was given.
func (c *CommonConfig) Verbosity() int {
	return int(c.verbose)
}

// defaultLevels quiets chatty loggers unless -vv is given.
var defaultLevels = map[string]zapcore.Level{
	"dot":           zap.WarnLevel,
	"server.access": zap.InfoLevel,
	"llm":           zap.InfoLevel,
}

func setupProfiling(commonCfg *CommonConfig) func() {
	if commonCfg.profileTo != "" {
		err := os.MkdirAll(filepath.Dir(commonCfg.profileTo), 0755)
		if err != nil {
			panic(fmt.Errorf("failed to create profile directory: %w", err))
		}
		profileF, err := os.OpenFile(commonCfg.profileTo, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open profile file: %w", err))
		}
		err = pprof.StartCPUProfile(profileF)
		if err != nil {
			panic(fmt.Errorf("failed to start profile: %w", err))
		}
		return func() {
			pprof.StopCPUProfile()
			profileF.Close()
		}
	}
	return func() {}
}

func SetupRoot(root *cobra.Command, commonCfg *CommonConfig) {
	flags := root.PersistentFlags()
	flags.VarP(&commonCfg.verbose, "verbose", "v", "Enable verbose logging (repeat for more)")
	flags.Lookup("verbose").NoOptDefVal = "true"
	flags.BoolVar(&commonCfg.jsonLog, "json-log", false, "Enable JSON logging")
	flags.StringVar(&commonCfg.color, "color", "auto", "Colorize console logs: auto, always or never")
	flags.StringVar(&commonCfg.logsDir, "logs-dir", "", "Directory to write logs to")
	flags.StringVar(&commonCfg.profileTo, "profiling", "", "Profile to file")

	profileClose := func() {}

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logOpts := logging.LogOpts{
			Verbose:         commonCfg.verbose > 0,
			Color:           commonCfg.color,
			CategoryLogsDir: commonCfg.logsDir,
			DefaultLevels:   defaultLevels,
		}
		if commonCfg.verbose > 1 {
			logOpts.DefaultLevels = nil
		}
		if commonCfg.jsonLog {
			logOpts.Encoding = "json"
		}
		zap.ReplaceGlobals(logOpts.NewLogger())

		profileClose = setupProfiling(commonCfg)
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		zap.L().Sync() //nolint:errcheck

		profileClose()
	}
}
