// Package middleware groups the Fiber middleware of the inspection server.
//
//   - auth: rejects requests without the configured X-API-Key. An empty key
//     leaves the server open, which suits a local editor session.
//   - rayid: tags each request with an X-Ray-ID that logger.WithRayID picks up.
//
// Register rayid before any middleware that logs.
package middleware
