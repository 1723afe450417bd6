package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   []byte
}

// fakeCluster answers every request with the status and body chosen by route.
func fakeCluster(t *testing.T, route func(r *http.Request) (int, string)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: body})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = io.WriteString(w, `{"version":{"number":"8.19.1"}}`)
			return
		}
		code, payload := route(r)
		w.WriteHeader(code)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return c, &calls
}

func TestNewClient_InfoError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"unauthorized"}`)
	}))
	defer srv.Close()

	c, err := NewClient(&Config{Addresses: []string{srv.URL}})
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestSearch_DecodesHits(t *testing.T) {
	c, calls := fakeCluster(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"hits":{"total":{"value":7},"hits":[{"_id":"g1","_source":{"name":"Polo"}}]}}`
	})

	res, err := c.Search(context.Background(), "garments", map[string]interface{}{"size": 1})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Hits.Total.Value)
	require.Len(t, res.Hits.Hits, 1)
	assert.Equal(t, "g1", res.Hits.Hits[0].ID)
	assert.JSONEq(t, `{"name":"Polo"}`, string(res.Hits.Hits[0].Source))

	last := (*calls)[len(*calls)-1]
	assert.Equal(t, "/garments/_search", last.path)
	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(last.body, &sent))
	assert.EqualValues(t, 1, sent["size"])
}

func TestSearch_ErrorStatus(t *testing.T) {
	c, _ := fakeCluster(t, func(r *http.Request) (int, string) {
		return http.StatusBadRequest, `{"error":{"type":"parsing_exception"}}`
	})

	_, err := c.Search(context.Background(), "garments", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing_exception")
}

func TestCreateIndex_ExistingIndexIsNotAnError(t *testing.T) {
	c, calls := fakeCluster(t, func(r *http.Request) (int, string) {
		return http.StatusBadRequest, `{"error":{"type":"resource_already_exists_exception"}}`
	})

	require.NoError(t, c.CreateIndex(context.Background(), "garments", `{"mappings":{}}`))
	last := (*calls)[len(*calls)-1]
	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/garments", last.path)
}

func TestIndex_SendsDocument(t *testing.T) {
	c, calls := fakeCluster(t, func(r *http.Request) (int, string) {
		return http.StatusCreated, `{"result":"created"}`
	})

	require.NoError(t, c.Index(context.Background(), "garments", "g1", map[string]string{"name": "Polo"}))
	last := (*calls)[len(*calls)-1]
	assert.Equal(t, "/garments/_doc/g1", last.path)
	assert.JSONEq(t, `{"name":"Polo"}`, string(last.body))
}

func TestIndex_ErrorStatus(t *testing.T) {
	c, _ := fakeCluster(t, func(r *http.Request) (int, string) {
		return http.StatusForbidden, `{"error":"read only"}`
	})

	assert.Error(t, c.Index(context.Background(), "garments", "g1", map[string]string{}))
}

func TestDelete_MissingDocumentIsNotAnError(t *testing.T) {
	c, _ := fakeCluster(t, func(r *http.Request) (int, string) {
		return http.StatusNotFound, `{"result":"not_found"}`
	})

	assert.NoError(t, c.Delete(context.Background(), "garments", "gone"))
}

func TestDelete_ErrorStatus(t *testing.T) {
	c, _ := fakeCluster(t, func(r *http.Request) (int, string) {
		return http.StatusForbidden, `{"error":"read only"}`
	})

	assert.Error(t, c.Delete(context.Background(), "garments", "g1"))
}
