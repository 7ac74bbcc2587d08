// Package server exposes the catalog service over JSON on a loopback HTTP
// listener for the browser UI.
//
// Routes:
//
//	GET    /api/games            list games in display order
//	POST   /api/games            create a game
//	PUT    /api/games/{id}       update a game
//	DELETE /api/games/{id}       delete a game
//	GET    /api/statistics       per-status counts
//	GET    /api/version          application version
//
// Create and update bodies look like {"game": {...}, "screenshot": ...}. An
// absent "screenshot" key leaves the screenshot unchanged, an empty string
// removes it, and a data URI replaces it.
//
// Every request is tagged with a correlation id that is echoed in the
// X-Request-ID header and attached to log lines. The server holds the catalog
// lock file while running.
package server
