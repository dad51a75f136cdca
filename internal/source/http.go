package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// HTTPProvider fetches raw series from an upstream data service.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) FetchSeries(ctx context.Context, criterionID string) (Series, error) {
	if !IsKnown(criterionID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCriterion, criterionID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/series/"+criterionID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("source GET /v1/series/%s: %d %s", criterionID, resp.StatusCode, string(body))
	}

	// JSON object keys are strings; convert the year axis back to ints.
	var raw map[string]map[string]RawDataPoint
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode series %s: %w", criterionID, err)
	}
	series := make(Series, len(raw))
	for yearStr, countries := range raw {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return nil, fmt.Errorf("decode series %s: bad year %q", criterionID, yearStr)
		}
		series[year] = countries
	}
	return series, nil
}
