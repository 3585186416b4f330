package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolParse/pkg/types/chem"
	"github.com/turtacn/MolParse/pkg/types/common"
)

func newAPIServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	return c
}

func TestMoleculesParseSuccess(t *testing.T) {
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/molecules/parse", r.URL.Path)

		var req chem.ParseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CCO", req.SMILES)
		assert.True(t, req.Persist)

		resp := common.APIResponse[chem.ParseResponse]{
			Success: true,
			Data: chem.ParseResponse{
				Graph: &chem.MoleculeGraphDTO{SMILES: "CCO", MolecularFormula: "C2H6O"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	resp, err := c.Molecules().Parse(context.Background(), "CCO", true)
	require.NoError(t, err)
	require.NotNil(t, resp.Graph)
	assert.Equal(t, "C2H6O", resp.Graph.MolecularFormula)
	assert.Nil(t, resp.Error)
}

func TestMoleculesParseRejection(t *testing.T) {
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := common.APIResponse[chem.ParseResponse]{
			Success: false,
			Code:    "SMI_102",
			Message: "unmatched parenthesis",
			Data: chem.ParseResponse{
				Error: &chem.ParseErrorDTO{
					Kind:    "syntax",
					Code:    "SMI_102",
					Column:  1,
					Message: "unmatched parenthesis",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(resp)
	})

	resp, err := c.Molecules().Parse(context.Background(), "C(C", false)
	require.NoError(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SMI_102", resp.Error.Code)
	assert.Equal(t, 1, resp.Error.Column)
	assert.Nil(t, resp.Graph)
}

func TestMoleculesGetNotFound(t *testing.T) {
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"code":"MOL_001","message":"molecule not found"}`))
	})

	_, err := c.Molecules().Get(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "MOL_001", apiErr.Code)
}

func TestMoleculesList(t *testing.T) {
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("page_size"))

		page := common.NewPageResponse([]chem.MoleculeDTO{
			{SMILES: "CCO"},
			{SMILES: "c1ccccc1"},
		}, 12, common.PageRequest{Page: 2, PageSize: 5})
		resp := common.APIResponse[common.PageResponse[chem.MoleculeDTO]]{Success: true, Data: page}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	page, err := c.Molecules().List(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "CCO", page.Items[0].SMILES)
}

func TestMoleculesDelete(t *testing.T) {
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/molecules/abc", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.Molecules().Delete(context.Background(), "abc"))
}
