// Package comparison exposes the library comparison over HTTP.
//
// # Endpoints
//
//   - GET /comparison returns the summary and ASIN conflicts of the latest
//     comparison. Results are cached for the configured TTL; ?refresh=true
//     drops the cached result and compares again.
//   - GET /comparison/:dataset streams one dataset (both, missing_one,
//     missing_two, one_full, two_full) as JSON or CSV, chosen by ?format=.
//
// A fetch failure on either library yields 502 and no partial data.
package comparison
