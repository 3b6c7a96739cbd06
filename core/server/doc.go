// Package server holds the HTTP inspection server configuration.
//
// The serve command builds the Fiber application; this package only defines
// the settings it reads.
//
// # Configuration
//
// The Config struct defines the bind address, the API key protecting every
// route, and the tick interval at which the asset manager dispatches its
// deferred change notifications while the server runs.
package server
