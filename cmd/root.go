package cmd

import (
	"os"

	"asset-core/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "asset-core",
	Short: "Game asset manager",
	Long: `asset-core indexes, loads and maintains the asset files of a game project.
It discovers asset containers on disk, tracks their dependencies and serves
the registry to editor tooling.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		l := logger.NewConsole()
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding the .env file")
}
