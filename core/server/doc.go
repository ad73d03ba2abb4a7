// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the listen port,
// the API key protecting every route, and how long comparison results are cached.
package server
