package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-core/core/loader"
	"asset-core/core/logger"
	"asset-core/core/middleware/auth"
	"asset-core/core/middleware/rayid"
	"asset-core/feature/catalog"
	"asset-core/feature/inspect"
	"asset-core/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the asset inspection server",
	Long:  `Scans the project, starts the HTTP server with all enabled features and dispatches deferred asset changes on every tick.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer p.close()
		logg := p.logger
		zap.ReplaceGlobals(logg)

		if _, err := p.scan(ctx); err != nil {
			return err
		}

		// the catalog is optional
		var db *gorm.DB
		if _, conn, err := p.openCatalog(); err != nil {
			logg.Warn("Optional catalog database connection failed", zap.Error(err))
		} else {
			db = conn
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		features := loader.NewManager(logg)
		features.Register(inspect.NewFeature(p.manager, logg))
		features.Register(integrity.NewFeature(p.manager, logg))
		features.Register(catalog.NewFeature(db, p.manager, logg))

		// ray id first so every log line can carry it
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(auth.New(auth.Config{ApiKey: p.cfg.Server.ApiKey}))

		if err := features.LoadAll(app); err != nil {
			return err
		}

		go dispatchChanges(ctx, p, time.Duration(p.cfg.Server.TickMillis)*time.Millisecond)

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", p.cfg.Server.Address()))
			errCh <- app.Listen(p.cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

// dispatchChanges drains the deferred change queue until ctx is done.
func dispatchChanges(ctx context.Context, p *project, tick time.Duration) {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.manager.Update()
		}
	}
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
