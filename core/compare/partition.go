package compare

import "abscomp/core/catalog"

// Split is the result of partitioning one catalog against another.
type Split struct {
	// Both holds left's entries whose key exists in right.
	Both *catalog.Catalog
	// Missing holds left's entries whose key does not exist in right.
	Missing *catalog.Catalog
}

// Partition splits left by key membership in right, preserving left's order.
// Keys compare by exact string equality and right's books never appear in the output.
func Partition(left, right *catalog.Catalog) Split {
	split := Split{
		Both:    catalog.New(0),
		Missing: catalog.New(left.Len()),
	}

	left.Each(func(key string, book catalog.Book) {
		if right.Has(key) {
			split.Both.Set(key, book)
		} else {
			split.Missing.Set(key, book)
		}
	})
	return split
}
