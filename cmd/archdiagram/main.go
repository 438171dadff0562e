package main

import (
	"os"

	clicommon "github.com/klothoplatform/archdiagram/pkg/cli_common"
	"github.com/klothoplatform/archdiagram/pkg/config"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	commonCfg clicommon.CommonConfig
	cfgFlags  config.Flags
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "archdiagram",
		Short:        "Generate AWS architecture diagrams from plain-English descriptions",
		SilenceUsage: true,
	}
	clicommon.SetupRoot(root, &commonCfg)
	cfgFlags.Register(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newInteractiveCmd(),
		newVersionCmd(),
	)
	return root
}
