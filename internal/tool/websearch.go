package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const searchOutputLimit = 10000

// WebSearch provides real-time web search using DuckDuckGo HTML.
type WebSearch struct {
	client  *http.Client
	baseURL string
}

// NewWebSearch creates the webSearch tool.
func NewWebSearch() *WebSearch {
	return &WebSearch{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://html.duckduckgo.com/html/",
	}
}

func (t *WebSearch) Schema() Schema {
	return Schema{
		Name:        "webSearch",
		Description: "Real-time web search for rates, regulations, or news.",
		Parameters: map[string]Param{
			"query":          {Type: "string", Description: "Search query."},
			"freshness_days": {Type: "integer", Description: "Restrict results to the last N days (optional)."},
		},
		Required: []string{"query"},
	}
}

func (t *WebSearch) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params struct {
		Query         string `json:"query"`
		FreshnessDays int    `json:"freshness_days"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if params.Query == "" {
		return "", errors.New("query is required")
	}

	q := url.Values{}
	q.Set("q", params.Query)
	if df := freshnessParam(params.FreshnessDays); df != "" {
		q.Set("df", df)
	}
	searchURL := t.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; LendPilot/1.0)")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 100000))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	// Raw HTML is good enough for the model to pick results out of.
	output := string(body)
	if len(output) > searchOutputLimit {
		output = output[:searchOutputLimit] + "\n... (truncated)"
	}
	return output, nil
}

// freshnessParam maps a day window onto DuckDuckGo's coarse df buckets.
func freshnessParam(days int) string {
	switch {
	case days <= 0:
		return ""
	case days <= 1:
		return "d"
	case days <= 7:
		return "w"
	case days <= 31:
		return "m"
	default:
		return "y"
	}
}
