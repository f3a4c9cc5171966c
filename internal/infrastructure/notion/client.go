package notion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"whiskd-backend/internal/domain"

	"github.com/goccy/go-json"
)

// Client reads the bakery catalog from a Notion database through its first data source.
type Client struct {
	token      string
	databaseID string
	baseURL    string
	version    string
	httpClient *http.Client
}

func NewClient(token, databaseID, baseURL, version string, timeout time.Duration) *Client {
	return &Client{
		token:      token,
		databaseID: databaseID,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		version:    version,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type databaseResponse struct {
	DataSources []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data_sources"`
}

type querySort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type queryRequest struct {
	Sorts []querySort `json:"sorts"`
}

type queryResponse struct {
	Results []page `json:"results"`
}

type page struct {
	Object     string                     `json:"object"`
	ID         string                     `json:"id"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// FetchVariantRows runs one sorted query: family name ascending, then price ascending.
func (c *Client) FetchVariantRows(ctx context.Context) ([]domain.VariantRow, error) {
	if c.token == "" || c.databaseID == "" {
		return nil, fmt.Errorf("%w: NOTION_API and NOTION_DB_ID are required", domain.ErrContentStoreConfig)
	}

	// 1. Retrieve database metadata to get the data source ID
	var db databaseResponse
	if err := c.do(ctx, http.MethodGet, "/databases/"+c.databaseID, nil, &db); err != nil {
		return nil, fmt.Errorf("failed to retrieve database: %w", err)
	}
	if len(db.DataSources) == 0 || db.DataSources[0].ID == "" {
		return nil, fmt.Errorf("no data source found for database %s, ensure the integration has access", c.databaseID)
	}

	// 2. Query the data source
	req := queryRequest{Sorts: []querySort{
		{Property: PropMarketingName, Direction: "ascending"},
		{Property: PropPrice, Direction: "ascending"},
	}}
	var res queryResponse
	if err := c.do(ctx, http.MethodPost, "/data_sources/"+db.DataSources[0].ID+"/query", req, &res); err != nil {
		return nil, fmt.Errorf("failed to query data source: %w", err)
	}

	// 3. Partial page objects carry no properties and are skipped
	rows := make([]domain.VariantRow, 0, len(res.Results))
	for _, p := range res.Results {
		if p.Properties == nil {
			continue
		}
		rows = append(rows, decodeRow(p))
	}
	return rows, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notion responded with %d: %s", resp.StatusCode, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode notion response: %w", err)
	}
	return nil
}
