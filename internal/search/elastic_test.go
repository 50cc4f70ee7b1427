package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/models"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

func fakeElastic(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Index, func() []recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewIndex(client, "products"), func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), reqs...)
	}
}

func TestIndex_Search_DecodesHits(t *testing.T) {
	idx, requests := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_source":{"id":3,"title":"Red phone","price":10}},
			{"_source":{"id":7,"title":"Phone case","price":2}}
		]}}`)
	})

	total, items, err := idx.Search(context.Background(), "phone", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, uint(3), items[0].ID)
	assert.Equal(t, "Phone case", items[1].Title)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/products/_search", reqs[0].Path)

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(reqs[0].Body), &q))
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "phone", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
}

func TestIndex_IndexAndRemoveProduct(t *testing.T) {
	idx, requests := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	ctx := context.Background()
	require.NoError(t, idx.IndexProduct(ctx, models.Product{ID: 5, Title: "Lamp"}))
	require.NoError(t, idx.RemoveProduct(ctx, 5))

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/products/_doc/5", reqs[0].Path)
	assert.Contains(t, reqs[0].Body, `"title":"Lamp"`)
	assert.Equal(t, http.MethodDelete, reqs[1].Method)
	assert.Equal(t, "/products/_doc/5", reqs[1].Path)
}

func TestIndex_SearchError(t *testing.T) {
	idx, _ := fakeElastic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad query"}`)
	})

	_, _, err := idx.Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
