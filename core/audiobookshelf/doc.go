// Package audiobookshelf downloads library catalogs from Audiobookshelf servers.
//
// The Client calls the library items endpoint with a bearer token, optionally paging through
// large libraries, and maps every item into a catalog.Book keyed by the item ID. A fetch either
// returns the complete catalog or fails:
//   - non-2xx responses fail with a *StatusError (429 and 5xx are retried up to MaxRetries),
//   - bodies that are not a valid items payload fail with ErrTransferCorrupted,
//   - the first item lacking a required field fails with catalog.ErrMalformedRecord.
//
// # Usage
//
//	client := audiobookshelf.NewClient("one", cfg.LibOne, cfg.Fetch, logger)
//	lib, err := client.FetchCatalog(ctx)
package audiobookshelf
