package compare

import (
	"context"
	"time"

	"abscomp/core/catalog"
)

// Source produces a primary-keyed catalog, or fails as a whole.
type Source interface {
	// Name identifies the source in logs and cache keys.
	Name() string

	// FetchCatalog returns the complete catalog keyed by book ID.
	FetchCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// Dataset names the five writable outputs of a comparison.
type Dataset string

const (
	// DatasetBoth holds library one's books whose ASIN is also in library two.
	DatasetBoth Dataset = "both"
	// DatasetMissingOne holds library two's books whose ASIN is not in library one.
	DatasetMissingOne Dataset = "missing_one"
	// DatasetMissingTwo holds library one's books whose ASIN is not in library two.
	DatasetMissingTwo Dataset = "missing_two"
	// DatasetOneFull is library one's full primary-keyed catalog.
	DatasetOneFull Dataset = "one_full"
	// DatasetTwoFull is library two's full primary-keyed catalog.
	DatasetTwoFull Dataset = "two_full"
)

// Datasets lists every dataset in output order.
var Datasets = []Dataset{DatasetBoth, DatasetMissingOne, DatasetMissingTwo, DatasetOneFull, DatasetTwoFull}

// IsFull reports whether the dataset is a raw catalog rather than a comparison set.
func (d Dataset) IsFull() bool {
	return d == DatasetOneFull || d == DatasetTwoFull
}

// Options controls a comparison.
type Options struct {
	// Policy names the ASIN collision policy ("first" or "last"). Empty means "first".
	Policy string

	// Parallel fetches both sources concurrently. Comparison still waits for both.
	Parallel bool
}

// Conflict records two books of one library sharing an ASIN.
type Conflict struct {
	ASIN    string       `json:"asin"`
	Kept    catalog.Book `json:"kept"`
	Dropped catalog.Book `json:"dropped"`
}

// Result holds everything one comparison run produced.
type Result struct {
	// One and Two are the full primary-keyed catalogs.
	One *catalog.Catalog `json:"-"`
	Two *catalog.Catalog `json:"-"`

	// OneByASIN and TwoByASIN are the reindexed catalogs.
	OneByASIN *catalog.Catalog `json:"-"`
	TwoByASIN *catalog.Catalog `json:"-"`

	// Both is keyed by ASIN and holds library one's books.
	Both *catalog.Catalog `json:"-"`

	// MissingFromTwo holds library one's books whose ASIN library two lacks.
	MissingFromTwo *catalog.Catalog `json:"-"`

	// MissingFromOne holds library two's books whose ASIN library one lacks.
	MissingFromOne *catalog.Catalog `json:"-"`

	// OneConflicts and TwoConflicts list ASIN collisions seen while reindexing.
	OneConflicts []Conflict `json:"one_conflicts"`
	TwoConflicts []Conflict `json:"two_conflicts"`

	Summary Summary `json:"summary"`

	// FetchOne and FetchTwo are the fetch durations; zero when Compare was called directly.
	FetchOne time.Duration `json:"-"`
	FetchTwo time.Duration `json:"-"`

	// Built is when the comparison finished.
	Built time.Time `json:"built"`
}

// Summary provides aggregate counts for a comparison.
type Summary struct {
	// OneEntries is the number of books in library one.
	OneEntries int `json:"one_entries"`
	// OneASINs is the number of unique ASINs in library one.
	OneASINs int `json:"one_asins"`
	// OneMissing counts ASINs in library two that library one lacks.
	OneMissing int `json:"one_missing"`
	// OneDuplicates counts books of library one dropped as ASIN duplicates.
	OneDuplicates int `json:"one_duplicates"`

	TwoEntries    int `json:"two_entries"`
	TwoASINs      int `json:"two_asins"`
	TwoMissing    int `json:"two_missing"`
	TwoDuplicates int `json:"two_duplicates"`

	// Both counts ASINs present in both libraries.
	Both int `json:"both"`
}

// Dataset returns the catalog for a dataset name.
func (r *Result) Dataset(name Dataset) (*catalog.Catalog, bool) {
	switch name {
	case DatasetBoth:
		return r.Both, true
	case DatasetMissingOne:
		return r.MissingFromOne, true
	case DatasetMissingTwo:
		return r.MissingFromTwo, true
	case DatasetOneFull:
		return r.One, true
	case DatasetTwoFull:
		return r.Two, true
	default:
		return nil, false
	}
}
