package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"job-research/internal/config"
	"job-research/internal/logging/types"
)

// SerpAPIProvider queries the SerpAPI google_jobs engine
type SerpAPIProvider struct {
	baseURL    string
	apiKey     string
	engine     string
	country    string
	language   string
	pageSize   int
	maxPages   int
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	logger     types.Logger
}

// NewSerpAPIProvider creates a provider from the search configuration
func NewSerpAPIProvider(cfg *config.Config, logger types.Logger) *SerpAPIProvider {
	pageSize := cfg.Search.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	maxPages := cfg.Search.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	return &SerpAPIProvider{
		baseURL:    cfg.Search.BaseURL,
		apiKey:     cfg.Search.APIKey,
		engine:     cfg.Search.Engine,
		country:    cfg.Search.CountryCode,
		language:   cfg.Search.Language,
		pageSize:   pageSize,
		maxPages:   maxPages,
		maxRetries: cfg.Search.MaxRetries,
		backoff:    500 * time.Millisecond,
		httpClient: &http.Client{Timeout: cfg.Search.Timeout},
		logger:     logger,
	}
}

// Name returns the provider name recorded as posting source
func (p *SerpAPIProvider) Name() string {
	return "serpapi"
}

// Query fetches pages until MaxResults items are collected, the provider has no next page,
// or the page limit is reached.
func (p *SerpAPIProvider) Query(ctx context.Context, req SearchRequest) ([]json.RawMessage, error) {
	if p.apiKey == "" {
		return nil, errors.New("serpapi api key is not configured")
	}

	pages := p.maxPages
	if req.MaxResults > 0 {
		needed := (req.MaxResults + p.pageSize - 1) / p.pageSize
		if needed < pages {
			pages = needed
		}
	}

	var items []json.RawMessage
	nextToken := ""
	for page := 0; page < pages; page++ {
		body, err := p.fetchPage(ctx, req, nextToken)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page+1, err)
		}

		if msg := gjson.GetBytes(body, "error").String(); msg != "" {
			// SerpAPI reports an empty result set as an error message
			if strings.Contains(strings.ToLower(msg), "hasn't returned any results") {
				break
			}
			return nil, fmt.Errorf("serpapi error: %s", msg)
		}

		for _, job := range gjson.GetBytes(body, "jobs_results").Array() {
			items = append(items, json.RawMessage(job.Raw))
		}

		nextToken = gjson.GetBytes(body, "serpapi_pagination.next_page_token").String()
		if nextToken == "" || (req.MaxResults > 0 && len(items) >= req.MaxResults) {
			break
		}
	}

	p.logger.Debug("SerpAPI query completed", map[string]interface{}{
		"query":    req.Query,
		"location": req.Location,
		"items":    len(items),
	})

	return items, nil
}

func (p *SerpAPIProvider) fetchPage(ctx context.Context, req SearchRequest, nextToken string) ([]byte, error) {
	params := url.Values{}
	params.Set("engine", p.engine)
	params.Set("q", req.Query)
	params.Set("api_key", p.apiKey)
	if p.language != "" {
		params.Set("hl", p.language)
	}
	if p.country != "" {
		params.Set("gl", p.country)
	}
	if req.Location != "" {
		params.Set("location", req.Location)
	}
	if req.RemoteOnly {
		params.Set("ltype", "1")
	}
	if nextToken != "" {
		params.Set("next_page_token", nextToken)
	}
	endpoint := p.baseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			wait := p.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := p.doRequest(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		p.logger.Warn("SerpAPI request failed, retrying", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}

	return nil, lastErr
}

func (p *SerpAPIProvider) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.New("response is not valid json")
	}

	return body, nil
}
