// Package catalog defines the canonical book record and the keyed catalog type.
//
// A Book is an immutable value: every field is a plain string or integer, so two books are
// equal exactly when all of their fields are equal and a Book can be used as a map key.
//
// # Catalogs
//
// A Catalog maps a string key to a Book and remembers insertion order. The fetcher builds
// primary-keyed catalogs (key = Book.ID); the compare package derives secondary-keyed
// catalogs (key = Book.ASIN) from them. Order carries no meaning for comparison, but it is
// what makes written reports deterministic.
//
// # Construction
//
//	book, err := catalog.NewBook(catalog.RawFields{"id": "li_1", "title": "Dune", "author": "Frank Herbert"})
//	if errors.Is(err, catalog.ErrMalformedRecord) {
//	    // abort the whole fetch
//	}
package catalog
