package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"asset-core/feature/blob"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <source> <dir>",
	Short: "Wrap a raw file into a blob asset",
	Long:  `Reads <source> from disk and writes it as a blob asset into the project directory <dir>, relative to the asset root.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, dir := args[0], args[1]
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}

		p, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		if _, err := p.scan(cmd.Context()); err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		if override, _ := cmd.Flags().GetString("name"); override != "" {
			name = override
		}
		b := blob.FromFile(src, data)
		if tags, _ := cmd.Flags().GetStringToString("tag"); len(tags) > 0 {
			b.Tags = tags
		}

		meta, err := p.manager.CreateAsset(dir, name, b)
		if err != nil {
			return err
		}
		if err := p.manager.SaveAsset(b); err != nil {
			return err
		}

		p.logger.Info("Imported asset",
			zap.String("source", src),
			zap.String("path", meta.FilePath),
			zap.Stringer("handle", meta.Handle))
		return printJSON(p.manager.GetMetadata(meta.Handle))
	},
}

func init() {
	importCmd.Flags().String("name", "", "Asset name (defaults to the source file name)")
	importCmd.Flags().StringToString("tag", nil, "Tags to attach, e.g. --tag kind=texture")
	RootCmd.AddCommand(importCmd)
}
