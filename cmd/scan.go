package cmd

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover asset files and print the registry",
	Long:  `Walks the engine, editor and project asset directories, reads the header of every asset container and prints the resulting registry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		report, err := p.scan(cmd.Context())
		if err != nil {
			return err
		}

		summary, _ := cmd.Flags().GetBool("summary")
		if summary {
			return printJSON(report)
		}
		return printJSON(map[string]any{
			"report": report,
			"assets": p.manager.Snapshot(),
		})
	},
}

func init() {
	scanCmd.Flags().Bool("summary", false, "Print only the scan report")
	RootCmd.AddCommand(scanCmd)
}
