package audiobookshelf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"abscomp/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func absItem(id, title, author, asin string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"addedAt": 1706000000000,
		"media": {
			"numAudioFiles": 3,
			"size": 123456789,
			"metadata": {
				"title": %q,
				"authorName": %q,
				"seriesName": "",
				"publishedYear": null,
				"asin": %q,
				"isbn": null
			}
		}
	}`, id, title, author, asin)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg FetchConfig) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("one", LibraryConfig{URL: srv.URL + "/", Token: "secret", Library: "lib_1"}, cfg, nil)
	c.backoff = time.Millisecond
	return c
}

// TestFetchCatalog tests the request shape and item mapping.
func TestFetchCatalog(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/libraries/lib_1/items", r.URL.Path)
		assert.Equal(t, "media.metadata.authorName", r.URL.Query().Get("sort"))
		assert.Empty(t, r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		fmt.Fprintf(w, `{"results": [%s, %s], "total": 2}`,
			absItem("li_b", "Beta", "Author B", "B0002"),
			absItem("li_a", "Alpha", "Author A", ""),
		)
	}, FetchConfig{})

	lib, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"li_b", "li_a"}, lib.Keys())
	got, _ := lib.Get("li_b")
	assert.Equal(t, catalog.Book{
		ID:     "li_b",
		Title:  "Beta",
		Author: "Author B",
		ASIN:   "B0002",
		Added:  "1706000000000",
		Files:  3,
		Size:   123456789,
	}, got)
}

// TestFetchCatalog_Paging tests that pages are requested until total is reached.
func TestFetchCatalog_Paging(t *testing.T) {
	var requests atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		switch page {
		case 0:
			fmt.Fprintf(w, `{"results": [%s, %s], "total": 5, "limit": 2, "page": 0}`,
				absItem("1", "T1", "A", "X1"), absItem("2", "T2", "A", "X2"))
		case 1:
			fmt.Fprintf(w, `{"results": [%s, %s], "total": 5, "limit": 2, "page": 1}`,
				absItem("3", "T3", "A", "X3"), absItem("4", "T4", "A", "X4"))
		case 2:
			fmt.Fprintf(w, `{"results": [%s], "total": 5, "limit": 2, "page": 2}`,
				absItem("5", "T5", "A", "X5"))
		default:
			t.Errorf("unexpected page %d", page)
		}
	}, FetchConfig{PageSize: 2})

	lib, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, lib.Keys())
	assert.Equal(t, int32(3), requests.Load())
}

// TestFetchCatalog_EmptyLibrary tests that an empty results array is valid.
func TestFetchCatalog_EmptyLibrary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": [], "total": 0}`)
	}, FetchConfig{PageSize: 50})

	lib, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())
}

// TestFetchCatalog_Corrupted tests that unparsable bodies fail the fetch.
func TestFetchCatalog_Corrupted(t *testing.T) {
	bodies := map[string]string{
		"Truncated":   `{"results": [{"id": "li_1", "media": {`,
		"NotJSON":     `<html>bad gateway</html>`,
		"NoResults":   `{"total": 3}`,
		"NullResults": `{"results": null}`,
		"NonObject":   `{"results": ["li_1"]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}, FetchConfig{MaxRetries: 2})

			lib, err := c.FetchCatalog(context.Background())
			assert.Nil(t, lib)
			assert.ErrorIs(t, err, ErrTransferCorrupted)
		})
	}
}

// TestFetchCatalog_MalformedItemAbortsFetch tests that one bad item fails the whole fetch.
func TestFetchCatalog_MalformedItemAbortsFetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": [%s, {"id": "li_bad", "media": {"metadata": {"authorName": "X"}}}]}`,
			absItem("li_ok", "Fine", "A", "X1"))
	}, FetchConfig{})

	lib, err := c.FetchCatalog(context.Background())
	assert.Nil(t, lib)
	assert.ErrorIs(t, err, catalog.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "li_bad")
	assert.Contains(t, err.Error(), "title")
}

// TestFetchCatalog_StatusErrors tests non-2xx handling and retries.
func TestFetchCatalog_StatusErrors(t *testing.T) {
	t.Run("NotFoundIsNotRetried", func(t *testing.T) {
		var requests atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}, FetchConfig{MaxRetries: 3})

		_, err := c.FetchCatalog(context.Background())
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.NotContains(t, statusErr.Error(), "sort=")
		assert.Equal(t, int32(1), requests.Load())
	})

	t.Run("ServerErrorIsRetried", func(t *testing.T) {
		var requests atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprintf(w, `{"results": [%s]}`, absItem("li_1", "T", "A", "X"))
		}, FetchConfig{MaxRetries: 2})

		lib, err := c.FetchCatalog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, lib.Len())
		assert.Equal(t, int32(3), requests.Load())
	})

	t.Run("RetriesExhausted", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}, FetchConfig{MaxRetries: 1})

		_, err := c.FetchCatalog(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 1 retries")
	})

	t.Run("Unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, FetchConfig{})

		_, err := c.FetchCatalog(context.Background())
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	})
}

// TestFetchCatalog_ContextCancelled tests that cancellation aborts the fetch.
func TestFetchCatalog_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	}, FetchConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchCatalog(ctx)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ping", r.URL.Path)
			fmt.Fprint(w, `{"success": true}`)
		}, FetchConfig{})
		assert.NoError(t, c.Ping(context.Background()))
	})

	t.Run("Unhealthy", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success": false}`)
		}, FetchConfig{})
		assert.Error(t, c.Ping(context.Background()))
	})
}

func TestName(t *testing.T) {
	c := NewClient("two", LibraryConfig{}, FetchConfig{}, nil)
	assert.Equal(t, "two", c.Name())
}
