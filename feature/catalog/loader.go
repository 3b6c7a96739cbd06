package catalog

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the catalog feature. A nil db disables it.
func NewFeature(db *gorm.DB, source Source, logger *zap.Logger) *Feature {
	f := &Feature{}
	if db != nil {
		f.service = NewService(db, logger)
		f.handler = NewHandler(f.service, source)
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "catalog"
}

// IsEnabled reports whether a database is configured.
func (f *Feature) IsEnabled() bool {
	return f.service != nil
}

// Load migrates the table and registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
