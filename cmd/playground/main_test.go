package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createResponse struct {
	ID          string `json:"id"`
	Fingerprint string `json:"fingerprint"`
	Duplicate   bool   `json:"duplicate"`
}

type valuesResponse struct {
	Values map[string]float64 `json:"values"`
}

func playgroundRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}

func TestCreateGraphDedupsByTopology(t *testing.T) {
	h := newPlayground().routes()

	rr := playgroundRequest(t, h, http.MethodPost, "/graphs", graphDef{
		Inputs: map[string]float64{"a": 6, "b": 2},
		Computes: []computeDef{
			{Name: "total", Op: "sum", Deps: []string{"a", "b"}},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var first createResponse
	decodeInto(t, rr, &first)
	assert.False(t, first.Duplicate)

	// Same names and edges, different op and values: identity is the
	// topology fingerprint, so this aliases to the first graph.
	rr = playgroundRequest(t, h, http.MethodPost, "/graphs", graphDef{
		Inputs: map[string]float64{"a": 3, "b": 5},
		Computes: []computeDef{
			{Name: "total", Op: "product", Deps: []string{"a", "b"}},
		},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var second createResponse
	decodeInto(t, rr, &second)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	// The first submission's values survive, the second never ran.
	rr = playgroundRequest(t, h, http.MethodGet, "/graphs/"+first.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var snap valuesResponse
	decodeInto(t, rr, &snap)
	assert.Equal(t, map[string]float64{"a": 6, "b": 2, "total": 8}, snap.Values)
}

func TestCreateGraphSeparatorNamesGetOwnGraphs(t *testing.T) {
	h := newPlayground().routes()

	rr := playgroundRequest(t, h, http.MethodPost, "/graphs", graphDef{
		Inputs: map[string]float64{"a|input\nb": 1},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var tricky createResponse
	decodeInto(t, rr, &tricky)

	rr = playgroundRequest(t, h, http.MethodPost, "/graphs", graphDef{
		Inputs: map[string]float64{"a": 1, "b": 1},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var plain createResponse
	decodeInto(t, rr, &plain)

	assert.False(t, plain.Duplicate)
	assert.NotEqual(t, tricky.ID, plain.ID)
	assert.NotEqual(t, tricky.Fingerprint, plain.Fingerprint)
}

func TestSetCellsRollsBackOnComputeFailure(t *testing.T) {
	h := newPlayground().routes()

	rr := playgroundRequest(t, h, http.MethodPost, "/graphs", graphDef{
		Inputs: map[string]float64{"a": 8, "b": 2},
		Computes: []computeDef{
			{Name: "ratio", Op: "div", Deps: []string{"a", "b"}},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created createResponse
	decodeInto(t, rr, &created)

	rr = playgroundRequest(t, h, http.MethodPost, "/graphs/"+created.ID+"/set", setRequest{
		Cells: map[string]float64{"b": 0},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "division by zero")

	rr = playgroundRequest(t, h, http.MethodGet, "/graphs/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var snap valuesResponse
	decodeInto(t, rr, &snap)
	assert.Equal(t, map[string]float64{"a": 8, "b": 2, "ratio": 4}, snap.Values)

	v := 4.0
	rr = playgroundRequest(t, h, http.MethodPost, "/graphs/"+created.ID+"/set", setRequest{
		Cell:  "b",
		Value: &v,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeInto(t, rr, &snap)
	assert.Equal(t, map[string]float64{"a": 8, "b": 4, "ratio": 2}, snap.Values)
}
