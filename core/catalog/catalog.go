package catalog

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Catalog is an insertion-ordered mapping from key to Book.
// The zero value is not usable; call New or FromBooks.
type Catalog struct {
	keys  []string
	books map[string]Book
}

// New returns an empty catalog with room for size entries.
func New(size int) *Catalog {
	return &Catalog{
		keys:  make([]string, 0, size),
		books: make(map[string]Book, size),
	}
}

// FromBooks builds a primary-keyed catalog (key = Book.ID) in argument order.
func FromBooks(books ...Book) *Catalog {
	c := New(len(books))
	for _, b := range books {
		c.Set(b.ID, b)
	}
	return c
}

// Set stores book under key. A new key is appended; an existing key keeps its position.
func (c *Catalog) Set(key string, book Book) {
	if _, exists := c.books[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.books[key] = book
}

// Get returns the book stored under key.
func (c *Catalog) Get(key string) (Book, bool) {
	if c == nil {
		return Book{}, false
	}
	b, ok := c.books[key]
	return b, ok
}

// Has reports whether key is present.
func (c *Catalog) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.books[key]
	return ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns a copy of the keys in insertion order.
func (c *Catalog) Keys() []string {
	out := make([]string, c.Len())
	if c != nil {
		copy(out, c.keys)
	}
	return out
}

// Books returns the books in insertion order.
func (c *Catalog) Books() []Book {
	out := make([]Book, 0, c.Len())
	c.Each(func(_ string, b Book) {
		out = append(out, b)
	})
	return out
}

// Each calls fn for every entry in insertion order.
func (c *Catalog) Each(fn func(key string, book Book)) {
	if c == nil {
		return
	}
	for _, k := range c.keys {
		fn(k, c.books[k])
	}
}

// MarshalJSON encodes the catalog as a JSON object whose members follow insertion order.
// HTML characters are left unescaped. A nil catalog encodes as {}.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var (
		buf  bytes.Buffer
		elem bytes.Buffer
		err  error
	)
	enc := json.NewEncoder(&elem)
	enc.SetEscapeHTML(false)

	encode := func(v any) []byte {
		elem.Reset()
		if err = enc.Encode(v); err != nil {
			return nil
		}
		return bytes.TrimRight(elem.Bytes(), "\n")
	}

	buf.WriteByte('{')
	for i, k := range c.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encode(k))
		if err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		book, _ := c.Get(k)
		buf.Write(encode(book))
		if err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
