package compare

import (
	"fmt"

	"abscomp/core/catalog"
)

// Policy names accepted by PolicyByName.
const (
	PolicyFirst = "first"
	PolicyLast  = "last"
)

// CollisionPolicy decides which book keeps an ASIN already taken during reindexing.
type CollisionPolicy interface {
	Resolve(asin string, kept, incoming catalog.Book) catalog.Book
}

// CollisionFunc adapts a function to CollisionPolicy.
type CollisionFunc func(asin string, kept, incoming catalog.Book) catalog.Book

// Resolve calls f.
func (f CollisionFunc) Resolve(asin string, kept, incoming catalog.Book) catalog.Book {
	return f(asin, kept, incoming)
}

// FirstSeenWins keeps the book encountered first. Later duplicates are dropped silently.
var FirstSeenWins CollisionPolicy = CollisionFunc(func(_ string, kept, _ catalog.Book) catalog.Book {
	return kept
})

// LastSeenWins replaces the kept book with the incoming one. The ASIN keeps its first position.
var LastSeenWins CollisionPolicy = CollisionFunc(func(_ string, _, incoming catalog.Book) catalog.Book {
	return incoming
})

// PolicyByName resolves a policy name. The empty name means PolicyFirst.
func PolicyByName(name string) (CollisionPolicy, error) {
	switch name {
	case "", PolicyFirst:
		return FirstSeenWins, nil
	case PolicyLast:
		return LastSeenWins, nil
	default:
		return nil, fmt.Errorf("unknown collision policy %q (want %q or %q)", name, PolicyFirst, PolicyLast)
	}
}

// ConflictRecorder wraps a policy and records every collision it resolves.
// It is not safe for concurrent use.
type ConflictRecorder struct {
	Next      CollisionPolicy
	Conflicts []Conflict
}

// Resolve delegates to Next and records which book was dropped.
func (r *ConflictRecorder) Resolve(asin string, kept, incoming catalog.Book) catalog.Book {
	next := r.Next
	if next == nil {
		next = FirstSeenWins
	}
	winner := next.Resolve(asin, kept, incoming)

	dropped := incoming
	if winner != kept {
		dropped = kept
	}
	r.Conflicts = append(r.Conflicts, Conflict{ASIN: asin, Kept: winner, Dropped: dropped})
	return winner
}

// Reindex rebuilds a primary-keyed catalog under each book's ASIN.
// Books with an empty ASIN are dropped; collisions go through policy (nil means FirstSeenWins).
// The result never has more entries than primary.
func Reindex(primary *catalog.Catalog, policy CollisionPolicy) *catalog.Catalog {
	if policy == nil {
		policy = FirstSeenWins
	}

	out := catalog.New(primary.Len())
	primary.Each(func(_ string, book catalog.Book) {
		if book.ASIN == "" {
			return
		}
		if kept, exists := out.Get(book.ASIN); exists {
			out.Set(book.ASIN, policy.Resolve(book.ASIN, kept, book))
			return
		}
		out.Set(book.ASIN, book)
	})
	return out
}
