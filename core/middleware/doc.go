// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for the comparison and integrity endpoints.
//   - rayid: assigns every request a RayID, stores it in the request locals
//     and echoes it in the response headers so log lines can be correlated.
//
// Both are registered globally in the start command.
package middleware
