package catalog

import (
	"errors"
	"fmt"

	"abscomp/core/utils"
)

// Field names understood by NewBook.
const (
	FieldID     = "id"
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldSeries = "series"
	FieldYear   = "year"
	FieldASIN   = "asin"
	FieldISBN   = "isbn"
	FieldAdded  = "added"
	FieldFiles  = "files"
	FieldSize   = "size"
)

// requiredFields must be present in every raw record.
var requiredFields = []string{FieldID, FieldTitle, FieldAuthor}

// ErrMalformedRecord is matched by every *MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a raw record lacking a required field.
type MalformedRecordError struct {
	// ID is the record id when known.
	ID string
	// Field is the missing required field.
	Field string
}

func (e *MalformedRecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("malformed record: missing %q", e.Field)
	}
	return fmt.Sprintf("malformed record %s: missing %q", e.ID, e.Field)
}

// Is makes errors.Is(err, ErrMalformedRecord) hold.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Book holds the important contents of one audiobook.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Series string `json:"series"`
	// Year is kept as text; feeds disagree on its format.
	Year string `json:"year"`
	// ASIN is the comparison key. Empty means "not comparable".
	ASIN  string `json:"asin"`
	ISBN  string `json:"isbn"`
	Added string `json:"added"`
	Files int    `json:"files"`
	Size  int64  `json:"size"`
}

// RawFields is the flattened field set of one source record.
// Absent keys and nil values are both treated as missing.
type RawFields map[string]any

// NewBook builds a Book from raw fields.
// It fails with a *MalformedRecordError if id, title or author is missing, or if id is empty.
func NewBook(raw RawFields) (Book, error) {
	id := raw.str(FieldID)
	for _, field := range requiredFields {
		if v, ok := raw[field]; !ok || v == nil {
			return Book{}, &MalformedRecordError{ID: id, Field: field}
		}
	}
	if id == "" {
		return Book{}, &MalformedRecordError{Field: FieldID}
	}

	return Book{
		ID:     id,
		Title:  raw.str(FieldTitle),
		Author: raw.str(FieldAuthor),
		Series: raw.str(FieldSeries),
		Year:   raw.str(FieldYear),
		ASIN:   raw.str(FieldASIN),
		ISBN:   raw.str(FieldISBN),
		Added:  raw.str(FieldAdded),
		Files:  utils.ToInt(raw[FieldFiles]),
		Size:   utils.ToInt64(raw[FieldSize]),
	}, nil
}

func (r RawFields) str(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	return utils.ToString(v)
}
