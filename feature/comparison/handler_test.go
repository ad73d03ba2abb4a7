package comparison

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"abscomp/core/catalog"
	"abscomp/core/compare"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	name  string
	books []catalog.Book
	err   error
	calls atomic.Int32
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return catalog.FromBooks(f.books...), nil
}

func libraries() (*fakeSource, *fakeSource) {
	one := &fakeSource{name: "home", books: []catalog.Book{
		{ID: "a", Title: "Dune", Author: "Frank Herbert", ASIN: "B1"},
		{ID: "b", Title: "Hyperion", Author: "Dan Simmons", ASIN: "B2"},
		{ID: "c", Title: "Dune (dup)", Author: "Frank Herbert", ASIN: "B1"},
	}}
	two := &fakeSource{name: "friend", books: []catalog.Book{
		{ID: "x", Title: "Dune", Author: "Frank Herbert", ASIN: "B1"},
		{ID: "y", Title: "Neuromancer", Author: "William Gibson", ASIN: "B3"},
		{ID: "z", Title: "No ASIN", Author: "Anon"},
	}}
	return one, two
}

func setupTestApp(t *testing.T, one, two compare.Source) *fiber.App {
	t.Helper()
	app := fiber.New()
	svc := NewService(one, two, compare.Options{}, compare.NewCache(time.Hour), zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func TestHandleSummary(t *testing.T) {
	one, two := libraries()
	app := setupTestApp(t, one, two)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparison", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Libraries    map[string]string  `json:"libraries"`
		Summary      compare.Summary    `json:"summary"`
		OneConflicts []compare.Conflict `json:"one_conflicts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, map[string]string{"one": "home", "two": "friend"}, body.Libraries)
	assert.Equal(t, compare.Summary{
		OneEntries: 3, OneASINs: 2, OneMissing: 1, OneDuplicates: 1,
		TwoEntries: 3, TwoASINs: 2, TwoMissing: 1,
		Both: 1,
	}, body.Summary)
	require.Len(t, body.OneConflicts, 1)
	assert.Equal(t, "c", body.OneConflicts[0].Dropped.ID)
}

func TestHandleSummary_CachedAndRefresh(t *testing.T) {
	one, two := libraries()
	app := setupTestApp(t, one, two)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/comparison", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, int32(1), one.calls.Load())

	resp, err := app.Test(httptest.NewRequest("GET", "/comparison?refresh=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), one.calls.Load())
	assert.Equal(t, int32(2), two.calls.Load())
}

func TestHandleSummary_FetchFailure(t *testing.T) {
	one, two := libraries()
	two.err = errors.New("connection reset")
	app := setupTestApp(t, one, two)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparison", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "friend")
	assert.Contains(t, body["error"], "connection reset")
}

func TestHandleDataset_JSON(t *testing.T) {
	one, two := libraries()
	app := setupTestApp(t, one, two)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparison/missing_one", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "missing_one.json")

	var body map[string]catalog.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "Neuromancer", body["B3"].Title)
}

func TestHandleDataset_CSV(t *testing.T) {
	one, two := libraries()
	app := setupTestApp(t, one, two)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparison/two_full?format=csv", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))

	rows, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Added", rows[0][6])
	assert.Equal(t, "No ASIN", rows[3][0])
}

func TestHandleDataset_Errors(t *testing.T) {
	one, two := libraries()
	app := setupTestApp(t, one, two)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparison/both?format=xml", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(0), one.calls.Load())

	resp, err = app.Test(httptest.NewRequest("GET", "/comparison/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
