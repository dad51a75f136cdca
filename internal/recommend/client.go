package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Recommendation is one ranked country suggestion from the recommender.
type Recommendation struct {
	Country         string   `json:"country"`
	CountryCode     string   `json:"countryCode"`
	Score           float64  `json:"score"`
	Rank            int      `json:"rank"`
	MatchPercentage float64  `json:"matchPercentage"`
	Reasoning       string   `json:"reasoning"`
	Strengths       []string `json:"strengths"`
	Considerations  []string `json:"considerations"`
}

// Advice is the recommender's response for a single query.
type Advice struct {
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
	Explanation     string           `json:"explanation,omitempty"`
	Methodology     string           `json:"methodology,omitempty"`
}

type Client interface {
	Recommend(ctx context.Context, query string, context []CountryContext) (*Advice, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type recommendRequest struct {
	Query   string           `json:"query"`
	Context []CountryContext `json:"context"`
}

func (c *HTTPClient) Recommend(ctx context.Context, query string, countries []CountryContext) (*Advice, error) {
	payload, err := json.Marshal(recommendRequest{Query: query, Context: countries})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/recommend", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("recommender: %d %s", resp.StatusCode, string(body))
	}
	var advice Advice
	if err := json.Unmarshal(body, &advice); err != nil {
		return nil, err
	}
	return &advice, nil
}
