package cmd

import (
	"fmt"
	"time"

	"asset-core/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check registry entries against disk and the dependency graph",
	Long:  `Scans the project, loads every asset to resolve its dependencies, then verifies that each file carries the registered header and that every dependency edge joins registered assets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		p, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer p.close()

		if _, err := p.scan(ctx); err != nil {
			return err
		}
		if deep, _ := cmd.Flags().GetBool("deep"); deep {
			for _, meta := range p.manager.Snapshot() {
				p.manager.QueueAsset(meta.Handle)
			}
			p.scheduler.Wait()
		}

		svc := integrity.NewService(p.manager, p.logger)
		files, err := svc.CheckFiles(ctx)
		if err != nil {
			return err
		}
		deps := svc.CheckDependencies()

		if err := printJSON(map[string]integrity.Report{"files": files, "dependencies": deps}); err != nil {
			return err
		}
		p.logger.Info("Integrity check completed",
			zap.Int("files", files.Checked),
			zap.Int("edges", deps.Checked),
			zap.Duration("duration", time.Since(startTime)))

		if issues := len(files.Issues) + len(deps.Issues); issues > 0 {
			return fmt.Errorf("integrity check found %d issues", issues)
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().Bool("deep", true, "Load every asset so dependency edges are known")
	RootCmd.AddCommand(integrityCmd)
}
