package compare

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"abscomp/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a Source serving a fixed catalog or error.
type fakeSource struct {
	name    string
	catalog *catalog.Catalog
	err     error
	calls   atomic.Int32
	fetchFn func(ctx context.Context) (*catalog.Catalog, error)
}

func (f *fakeSource) Name() string {
	return f.name
}

func (f *fakeSource) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	f.calls.Add(1)
	if f.fetchFn != nil {
		return f.fetchFn(ctx)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func libraries() (*catalog.Catalog, *catalog.Catalog) {
	one := catalog.FromBooks(
		book("o1", "A"),
		book("o2", "B"),
		book("o3", ""),
		book("o4", "A"),
		book("o5", "C"),
	)
	two := catalog.FromBooks(
		book("t1", "C"),
		book("t2", "D"),
		book("t3", "A"),
		book("t4", "D"),
	)
	return one, two
}

// TestCompare_Datasets tests all five datasets and the summary.
func TestCompare_Datasets(t *testing.T) {
	one, two := libraries()

	result, err := Compare(one, two, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C"}, result.Both.Keys())
	bothA, _ := result.Both.Get("A")
	assert.Equal(t, "o1", bothA.ID)

	assert.Equal(t, []string{"B"}, result.MissingFromTwo.Keys())
	assert.Equal(t, []string{"D"}, result.MissingFromOne.Keys())
	assert.Same(t, one, result.One)
	assert.Same(t, two, result.Two)

	assert.Equal(t, Summary{
		OneEntries:    5,
		OneASINs:      3,
		OneMissing:    1,
		OneDuplicates: 1,
		TwoEntries:    4,
		TwoASINs:      3,
		TwoMissing:    1,
		TwoDuplicates: 1,
		Both:          2,
	}, result.Summary)

	require.Len(t, result.OneConflicts, 1)
	assert.Equal(t, "o4", result.OneConflicts[0].Dropped.ID)
	require.Len(t, result.TwoConflicts, 1)
	assert.Equal(t, "t4", result.TwoConflicts[0].Dropped.ID)
}

// TestCompare_MissingSetsAreDisjoint tests that no ASIN is missing in both directions.
func TestCompare_MissingSetsAreDisjoint(t *testing.T) {
	one, two := libraries()

	result, err := Compare(one, two, Options{})
	require.NoError(t, err)

	for _, k := range result.MissingFromTwo.Keys() {
		assert.False(t, result.MissingFromOne.Has(k))
		assert.False(t, result.Both.Has(k))
	}
}

// TestCompare_Empty tests that empty catalogs produce empty outputs in both directions.
func TestCompare_Empty(t *testing.T) {
	result, err := Compare(catalog.New(0), nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Both.Len())
	assert.Equal(t, 0, result.MissingFromOne.Len())
	assert.Equal(t, 0, result.MissingFromTwo.Len())
	assert.Equal(t, Summary{}, result.Summary)
}

// TestCompare_UnknownPolicy tests policy validation.
func TestCompare_UnknownPolicy(t *testing.T) {
	_, err := Compare(catalog.New(0), catalog.New(0), Options{Policy: "merge"})
	assert.Error(t, err)
}

func TestResult_Dataset(t *testing.T) {
	one, two := libraries()
	result, err := Compare(one, two, Options{})
	require.NoError(t, err)

	for _, name := range Datasets {
		c, ok := result.Dataset(name)
		assert.True(t, ok, name)
		assert.NotNil(t, c, name)
	}

	c, _ := result.Dataset(DatasetOneFull)
	assert.Same(t, one, c)

	_, ok := result.Dataset("nope")
	assert.False(t, ok)
}

// TestRun tests fetching and comparing in sequential and parallel modes.
func TestRun(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		one, two := libraries()
		srcOne := &fakeSource{name: "one", catalog: one}
		srcTwo := &fakeSource{name: "two", catalog: two}

		result, err := Run(context.Background(), srcOne, srcTwo, Options{Parallel: parallel})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Summary.Both)
		assert.Equal(t, int32(1), srcOne.calls.Load())
		assert.Equal(t, int32(1), srcTwo.calls.Load())
	}
}

// TestRun_FetchErrorFailsRun tests that any fetch failure aborts the whole run.
func TestRun_FetchErrorFailsRun(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name     string
		parallel bool
		failOne  bool
	}{
		{"SequentialFirst", false, true},
		{"SequentialSecond", false, false},
		{"ParallelFirst", true, true},
		{"ParallelSecond", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			one, two := libraries()
			srcOne := &fakeSource{name: "one", catalog: one}
			srcTwo := &fakeSource{name: "two", catalog: two}
			if tt.failOne {
				srcOne.err = boom
			} else {
				srcTwo.err = boom
			}

			result, err := Run(context.Background(), srcOne, srcTwo, Options{Parallel: tt.parallel})
			assert.Nil(t, result)
			assert.ErrorIs(t, err, boom)
		})
	}
}

// TestRun_SequentialStopsAfterFirstFailure tests that library two is not fetched after one fails.
func TestRun_SequentialStopsAfterFirstFailure(t *testing.T) {
	srcOne := &fakeSource{name: "one", err: errors.New("down")}
	srcTwo := &fakeSource{name: "two", catalog: catalog.New(0)}

	_, err := Run(context.Background(), srcOne, srcTwo, Options{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "one")
	assert.Equal(t, int32(0), srcTwo.calls.Load())
}

// TestRun_UnknownPolicySkipsFetch tests that option errors surface before any fetch.
func TestRun_UnknownPolicySkipsFetch(t *testing.T) {
	srcOne := &fakeSource{name: "one", catalog: catalog.New(0)}
	srcTwo := &fakeSource{name: "two", catalog: catalog.New(0)}

	_, err := Run(context.Background(), srcOne, srcTwo, Options{Policy: "merge"})
	assert.Error(t, err)
	assert.Equal(t, int32(0), srcOne.calls.Load())
}
