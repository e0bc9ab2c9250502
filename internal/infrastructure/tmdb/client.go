// Package tmdb implements the trailer lookup gateway against the TMDB
// API.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"trendarr/internal/application/usecase"
)

const watchURLBase = "https://www.youtube.com/watch?v="

// Client resolves trailer links for movies.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a TMDB client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
	}
}

type videosResponse struct {
	Results []video `json:"results"`
}

type video struct {
	Site string `json:"site"`
	Key  string `json:"key"`
}

// TrailerURL returns a YouTube watch URL for the first YouTube-hosted
// video of the movie, or "" when none exists. Absence is not an error.
func (c *Client) TrailerURL(ctx context.Context, id int) (string, error) {
	endpoint := fmt.Sprintf("%s/movie/%d/videos?api_key=%s", c.baseURL, id, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrTrailerUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: videos for %d: %v", usecase.ErrTrailerUnavailable, id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: videos for %d: status %d", usecase.ErrTrailerUnavailable, id, resp.StatusCode)
	}

	var payload videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode videos for %d: %v", usecase.ErrTrailerUnavailable, id, err)
	}

	for _, v := range payload.Results {
		if v.Site == "YouTube" && v.Key != "" {
			return watchURLBase + v.Key, nil
		}
	}
	return "", nil
}
