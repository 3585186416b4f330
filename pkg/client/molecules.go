package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/MolParse/pkg/types/chem"
	"github.com/turtacn/MolParse/pkg/types/common"
)

// MoleculesClient wraps the /api/v1/molecules endpoints.
type MoleculesClient struct {
	client *Client
}

// Parse submits a SMILES string.  A rejected string is not a transport
// failure: the returned ParseResponse carries the structured parse error and
// err is nil, mirroring the server's contract.
func (m *MoleculesClient) Parse(ctx context.Context, smiles string, persist bool) (*chem.ParseResponse, error) {
	req := chem.ParseRequest{SMILES: smiles, Persist: persist}
	status, body, err := m.client.do(ctx, http.MethodPost, "/api/v1/molecules/parse", req)
	if err != nil {
		return nil, err
	}

	var envelope common.APIResponse[chem.ParseResponse]
	if decodeErr := json.Unmarshal(body, &envelope); decodeErr == nil {
		if status == http.StatusOK || envelope.Data.Error != nil {
			resp := envelope.Data
			return &resp, nil
		}
	} else if status == http.StatusOK {
		return nil, fmt.Errorf("molparse: decode parse response: %w", decodeErr)
	}
	return nil, apiError(status, body)
}

// Get fetches a stored molecule by id.
func (m *MoleculesClient) Get(ctx context.Context, id string) (*chem.MoleculeDTO, error) {
	status, body, err := m.client.do(ctx, http.MethodGet, "/api/v1/molecules/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}
	var envelope common.APIResponse[chem.MoleculeDTO]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("molparse: decode molecule: %w", err)
	}
	dto := envelope.Data
	return &dto, nil
}

// List pages through stored molecules.
func (m *MoleculesClient) List(ctx context.Context, page, pageSize int) (*common.PageResponse[chem.MoleculeDTO], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	path := "/api/v1/molecules"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	status, body, err := m.client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}
	var envelope common.APIResponse[common.PageResponse[chem.MoleculeDTO]]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("molparse: decode molecule page: %w", err)
	}
	result := envelope.Data
	return &result, nil
}

// Delete removes a stored molecule.
func (m *MoleculesClient) Delete(ctx context.Context, id string) error {
	status, body, err := m.client.do(ctx, http.MethodDelete, "/api/v1/molecules/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return apiError(status, body)
	}
	return nil
}
