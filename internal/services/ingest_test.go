package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsbrew/internal/db"
	"newsbrew/internal/models"

	"github.com/stretchr/testify/require"
)

// fakeUpstream serves a topstories listing plus item details the way the
// real news API does.
type fakeUpstream struct {
	topStatus int
	ids       []int64
	items     map[int64]map[string]interface{}
	failItems map[int64]bool
}

func (f *fakeUpstream) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v0/topstories.json" {
			if f.topStatus != 0 && f.topStatus != http.StatusOK {
				w.WriteHeader(f.topStatus)
				return
			}
			json.NewEncoder(w).Encode(f.ids)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/v0/item/") {
			var id int64
			fmt.Sscanf(r.URL.Path, "/v0/item/%d.json", &id)
			if f.failItems[id] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			item, ok := f.items[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(item)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func storyItem(id int64, title string) map[string]interface{} {
	return map[string]interface{}{
		"id":          id,
		"by":          "pg",
		"type":        "story",
		"title":       title,
		"url":         fmt.Sprintf("https://example.com/%d", id),
		"time":        1700000000 + id,
		"score":       42,
		"descendants": 3,
		"kids":        []int64{id * 10, id*10 + 1},
	}
}

func TestIngestRun(t *testing.T) {
	db.OpenTest(t)

	upstream := &fakeUpstream{
		ids: []int64{1, 2, 3, 4},
		items: map[int64]map[string]interface{}{
			1: storyItem(1, "First story"),
			2: {"id": int64(2), "type": "comment", "title": "not a story", "url": "https://example.com/2"},
			3: {"id": int64(3), "by": "pg", "type": "story", "title": "Ask HN: no url"},
			4: storyItem(4, "Fourth story"),
		},
	}
	srv := upstream.server(t)
	defer srv.Close()

	count, err := NewIngestor(srv.URL).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count, "only story-type items with a URL are accepted")

	var stored int64
	db.DB.Model(&models.Post{}).Count(&stored)
	require.EqualValues(t, 2, stored)

	var post models.Post
	require.NoError(t, db.DB.First(&post, "id = ?", int64(1)).Error)
	require.Equal(t, "First story", post.Title)
	require.Equal(t, "pg", post.Author)
	require.Equal(t, 0, post.Popularity)

	var kids []int64
	require.NoError(t, json.Unmarshal(post.Kids, &kids))
	require.Equal(t, []int64{10, 11}, kids)
}

func TestIngestIdempotent(t *testing.T) {
	db.OpenTest(t)

	upstream := &fakeUpstream{
		ids: []int64{7, 8},
		items: map[int64]map[string]interface{}{
			7: storyItem(7, "Seven"),
			8: storyItem(8, "Eight"),
		},
	}
	srv := upstream.server(t)
	defer srv.Close()

	ing := NewIngestor(srv.URL)
	count, err := ing.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)

	// Unchanged upstream listing inserts nothing on a re-run.
	count, err = ing.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestIngestAbortsOnListingFailure(t *testing.T) {
	db.OpenTest(t)

	upstream := &fakeUpstream{topStatus: http.StatusServiceUnavailable}
	srv := upstream.server(t)
	defer srv.Close()

	count, err := NewIngestor(srv.URL).Run(context.Background())
	require.Error(t, err)
	require.Equal(t, 0, count)

	var stored int64
	db.DB.Model(&models.Post{}).Count(&stored)
	require.EqualValues(t, 0, stored, "a failed listing fetch must not leave partial state")
}

func TestIngestSkipsFailingItems(t *testing.T) {
	db.OpenTest(t)

	upstream := &fakeUpstream{
		ids: []int64{1, 2, 3},
		items: map[int64]map[string]interface{}{
			1: storyItem(1, "One"),
			3: storyItem(3, "Three"),
		},
		failItems: map[int64]bool{2: true},
	}
	srv := upstream.server(t)
	defer srv.Close()

	count, err := NewIngestor(srv.URL).Run(context.Background())
	require.NoError(t, err, "a single failing item must not abort the run")
	require.Equal(t, 2, count)
}

func TestIngestSanitizesTitles(t *testing.T) {
	db.OpenTest(t)

	item := storyItem(5, `Nice <script>alert("x")</script> title`)
	upstream := &fakeUpstream{
		ids:   []int64{5},
		items: map[int64]map[string]interface{}{5: item},
	}
	srv := upstream.server(t)
	defer srv.Close()

	_, err := NewIngestor(srv.URL).Run(context.Background())
	require.NoError(t, err)

	var post models.Post
	require.NoError(t, db.DB.First(&post, "id = ?", int64(5)).Error)
	require.NotContains(t, post.Title, "<script>")
}
