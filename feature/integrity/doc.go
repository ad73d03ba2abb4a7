// Package integrity checks that the infrastructure a comparison depends on is reachable.
//
// # Checks Provided
//
//   - Libraries: pings both Audiobookshelf servers and reports latency or the failure.
//   - Bucket: verifies the report bucket exists and counts the reports stored under the prefix.
//     Skipped when object storage is disabled.
//
// # HTTP Endpoints
//
//   - GET /integrity : runs all checks; 503 when any of them fails.
//   - GET /integrity/libraries : runs the library checks.
//   - GET /integrity/bucket : runs the bucket check.
package integrity
