package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errLocalBin = errors.New("recycle commands need RECYCLE_MODE=object")

var recycleCmd = &cobra.Command{
	Use:   "recycle",
	Short: "Manage files removed into the object storage recycle bin",
}

var recycleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recycled files",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()
		if p.objectBin == nil {
			return errLocalBin
		}

		entries, err := p.objectBin.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}

var recycleRestoreCmd = &cobra.Command{
	Use:   "restore <key> <path>",
	Short: "Restore a recycled file to an asset path and register it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, rel := args[0], args[1]

		p, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()
		if p.objectBin == nil {
			return errLocalBin
		}

		dst := p.manager.FilesystemPath(rel)
		if err := p.objectBin.Restore(cmd.Context(), p.manager.Fs(), key, dst); err != nil {
			return err
		}

		h, ok := p.manager.Register(dst)
		if !ok {
			p.logger.Warn("Restored file is not an asset container", zap.String("path", dst))
		}
		meta := p.manager.GetMetadata(h)
		return printJSON(meta)
	},
}

func init() {
	recycleCmd.AddCommand(recycleListCmd, recycleRestoreCmd)
	RootCmd.AddCommand(recycleCmd)
}
