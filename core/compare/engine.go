package compare

import (
	"context"
	"fmt"
	"time"

	"abscomp/core/catalog"

	"golang.org/x/sync/errgroup"
)

// Run fetches both sources and compares them.
// Both fetches must complete before any comparison starts; a failed fetch fails the run.
func Run(ctx context.Context, one, two Source, opts Options) (*Result, error) {
	if _, err := PolicyByName(opts.Policy); err != nil {
		return nil, err
	}

	var (
		libOne, libTwo *catalog.Catalog
		durOne, durTwo time.Duration
		errOne, errTwo error
	)

	fetchOne := func(ctx context.Context) error {
		libOne, durOne, errOne = fetch(ctx, one)
		return errOne
	}
	fetchTwo := func(ctx context.Context) error {
		libTwo, durTwo, errTwo = fetch(ctx, two)
		return errTwo
	}

	if opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return fetchOne(gctx) })
		g.Go(func() error { return fetchTwo(gctx) })
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		if err := fetchOne(ctx); err != nil {
			return nil, err
		}
		if err := fetchTwo(ctx); err != nil {
			return nil, err
		}
	}

	result, err := Compare(libOne, libTwo, opts)
	if err != nil {
		return nil, err
	}
	result.FetchOne = durOne
	result.FetchTwo = durTwo
	return result, nil
}

func fetch(ctx context.Context, src Source) (*catalog.Catalog, time.Duration, error) {
	start := time.Now()
	lib, err := src.FetchCatalog(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch library %s: %w", src.Name(), err)
	}
	return lib, time.Since(start), nil
}

// Compare reindexes both catalogs by ASIN and partitions them in both directions.
func Compare(one, two *catalog.Catalog, opts Options) (*Result, error) {
	policy, err := PolicyByName(opts.Policy)
	if err != nil {
		return nil, err
	}

	if one == nil {
		one = catalog.New(0)
	}
	if two == nil {
		two = catalog.New(0)
	}

	recOne := &ConflictRecorder{Next: policy}
	recTwo := &ConflictRecorder{Next: policy}
	oneByASIN := Reindex(one, recOne)
	twoByASIN := Reindex(two, recTwo)

	first := Partition(oneByASIN, twoByASIN)
	second := Partition(twoByASIN, oneByASIN)

	return &Result{
		One:            one,
		Two:            two,
		OneByASIN:      oneByASIN,
		TwoByASIN:      twoByASIN,
		Both:           first.Both,
		MissingFromTwo: first.Missing,
		MissingFromOne: second.Missing,
		OneConflicts:   recOne.Conflicts,
		TwoConflicts:   recTwo.Conflicts,
		Summary: Summary{
			OneEntries:    one.Len(),
			OneASINs:      oneByASIN.Len(),
			OneMissing:    second.Missing.Len(),
			OneDuplicates: len(recOne.Conflicts),
			TwoEntries:    two.Len(),
			TwoASINs:      twoByASIN.Len(),
			TwoMissing:    first.Missing.Len(),
			TwoDuplicates: len(recTwo.Conflicts),
			Both:          first.Both.Len(),
		},
		Built: time.Now(),
	}, nil
}
