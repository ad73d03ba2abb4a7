// Package compare turns two primary-keyed catalogs into an ASIN comparison.
//
// The comparison runs in two steps:
//
//  1. Reindex: each catalog is rebuilt under the ASIN of its books. Books without an ASIN are
//     dropped, and when several books share an ASIN a CollisionPolicy decides which one is kept.
//     The default policy, FirstSeenWins, keeps the book encountered first and silently drops
//     the rest. This step is lossy on purpose; it is a best-effort dedup, not an integrity check.
//
//  2. Partition: the entries of one ASIN-keyed catalog are split into those whose key also
//     exists in the other catalog (Both) and those that do not (Missing). Calling Partition with
//     the arguments swapped gives the other direction.
//
// Compare runs both steps for a pair of catalogs and Run adds the fetching in front of it.
// Reindex and Partition never fail and never mutate their inputs.
//
// # Usage Example
//
//	result, err := compare.Run(ctx, libOne, libTwo, compare.Options{Policy: compare.PolicyFirst})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Summary.Both)
//
// # Caching
//
// The HTTP feature keeps recent results in a Cache. Builds are deduplicated with
// singleflight so concurrent requests share one pair of fetches.
package compare
