package cmd

import (
	"errors"
	"fmt"

	"asset-core/feature/catalog"

	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("no catalog database configured (set DATABASE_DRIVER)")

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Mirror the asset registry into the catalog database",
}

var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write the registry into the catalog table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(p *project, svc *catalog.Service) error {
			result, err := svc.Sync(cmd.Context(), p.manager.Snapshot())
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

var catalogDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the registry with the catalog table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(p *project, svc *catalog.Service) error {
			report, err := svc.Diff(cmd.Context(), p.manager.Snapshot())
			if err != nil {
				return err
			}
			if err := printJSON(report); err != nil {
				return err
			}
			if !report.InSync() {
				return fmt.Errorf("catalog out of sync: %d missing, %d stale, %d moved",
					len(report.Missing), len(report.Stale), len(report.Moved))
			}
			return nil
		})
	},
}

var catalogSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List catalog columns missing from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(p *project, svc *catalog.Service) error {
			missing, err := svc.CheckSchema()
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"missing": missing})
		})
	},
}

func withCatalog(cmd *cobra.Command, fn func(p *project, svc *catalog.Service) error) error {
	p, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer p.close()

	svc, _, err := p.openCatalog()
	if err != nil {
		return err
	}
	if svc == nil {
		return errNoDatabase
	}
	if _, err := p.scan(cmd.Context()); err != nil {
		return err
	}
	return fn(p, svc)
}

func init() {
	catalogCmd.AddCommand(catalogSyncCmd, catalogDiffCmd, catalogSchemaCmd)
	RootCmd.AddCommand(catalogCmd)
}
