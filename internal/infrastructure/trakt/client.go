// Package trakt implements the trending feed gateway against the Trakt
// API.
package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"trendarr/internal/application/usecase"
	"trendarr/internal/domain/media"
)

// Client fetches trending movies and shows.
type Client struct {
	baseURL  string
	clientID string
	http     *http.Client
}

// NewClient creates a Trakt client. Timeouts are the caller's job via
// context; the transport itself is unbounded.
func NewClient(baseURL, clientID string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		http:     &http.Client{},
	}
}

type trendingEntry struct {
	Movie *trendingPayload `json:"movie"`
	Show  *trendingPayload `json:"show"`
}

type trendingPayload struct {
	Title string `json:"title"`
	IDs   struct {
		Tmdb int `json:"tmdb"`
	} `json:"ids"`
}

// FetchTrending returns trending movies followed by trending shows, in
// the feed's own order. Entries without a tmdb id are skipped; they
// cannot be joined against the library or the ignore list.
func (c *Client) FetchTrending(ctx context.Context) ([]media.Item, error) {
	movies, err := c.fetch(ctx, "/movies/trending", media.KindMovie)
	if err != nil {
		return nil, err
	}
	shows, err := c.fetch(ctx, "/shows/trending", media.KindShow)
	if err != nil {
		return nil, err
	}
	return append(movies, shows...), nil
}

func (c *Client) fetch(ctx context.Context, path string, kind media.Kind) ([]media.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrFeedUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", usecase.ErrFeedUnavailable, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: get %s: status %d", usecase.ErrFeedUnavailable, path, resp.StatusCode)
	}

	var entries []trendingEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", usecase.ErrFeedUnavailable, path, err)
	}

	items := make([]media.Item, 0, len(entries))
	for _, entry := range entries {
		payload := entry.Movie
		if kind == media.KindShow {
			payload = entry.Show
		}
		if payload == nil || payload.IDs.Tmdb == 0 {
			continue
		}
		items = append(items, media.Item{
			TmdbID: payload.IDs.Tmdb,
			Title:  payload.Title,
			Kind:   kind,
		})
	}
	return items, nil
}
