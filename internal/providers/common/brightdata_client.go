package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.brightdata.com/datasets/v3"

// BrightDataClient reads finished answer snapshots from the BrightData API
type BrightDataClient struct {
	apiKey        string
	baseURL       string
	httpClient    *http.Client
	maxRetries    int
	retryInterval time.Duration
}

// NewBrightDataClient creates a new BrightData API client. An empty baseURL uses the public API.
func NewBrightDataClient(apiKey, baseURL string) *BrightDataClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &BrightDataClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		maxRetries:    20,
		retryInterval: 30 * time.Second,
	}
}

// WithRetry overrides how often a still-building snapshot is re-requested
func (c *BrightDataClient) WithRetry(maxRetries int, interval time.Duration) *BrightDataClient {
	c.maxRetries = maxRetries
	c.retryInterval = interval
	return c
}

// CheckProgress checks the progress of a BrightData job
func (c *BrightDataClient) CheckProgress(ctx context.Context, snapshotID string) (*ProgressResponse, error) {
	url := fmt.Sprintf("%s/progress/%s", c.baseURL, snapshotID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to check progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("progress check returned status %d", resp.StatusCode)
	}

	var progressResp ProgressResponse
	if err := json.NewDecoder(resp.Body).Decode(&progressResp); err != nil {
		return nil, fmt.Errorf("failed to decode progress response: %w", err)
	}

	return &progressResp, nil
}

// GetSnapshot retrieves the results of a completed snapshot.
// It retries while the snapshot is still building.
func (c *BrightDataClient) GetSnapshot(ctx context.Context, snapshotID string) ([]byte, error) {
	logger := log.With().Str("snapshot_id", snapshotID).Logger()

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		url := fmt.Sprintf("%s/snapshot/%s?format=json", c.baseURL, snapshotID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create results request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to get results: %w", err)
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			resp.Body.Close()
			return nil, fmt.Errorf("results request returned status %d", resp.StatusCode)
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		logger.Debug().Int("attempt", attempt).Int("bytes", len(bodyBytes)).Msg("Snapshot response received")

		isStatus, status, message := IsStatusResponse(bodyBytes)
		if !isStatus {
			return bodyBytes, nil
		}

		switch status {
		case "building", "running":
			if attempt == c.maxRetries {
				return nil, fmt.Errorf("snapshot still building after %d attempts", c.maxRetries)
			}
			logger.Info().Int("attempt", attempt).Str("message", message).Msg("Snapshot still building")
			select {
			case <-time.After(c.retryInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		case "failed":
			return nil, fmt.Errorf("snapshot failed: %s", message)
		default:
			logger.Warn().Str("status", status).Msg("Unknown snapshot status, decoding as results")
			return bodyBytes, nil
		}
	}

	return nil, fmt.Errorf("failed to retrieve results after %d attempts", c.maxRetries)
}
