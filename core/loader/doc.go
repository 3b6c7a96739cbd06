// Package loader mounts the optional HTTP features of the inspection server.
//
// A feature reports whether it is enabled (the catalog, for instance, needs a
// database) and registers its routes on the shared router when loaded.
// Features load in registration order; the first failure aborts startup.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
package loader
