// Package radarr implements the library gateway against the Radarr API.
package radarr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"trendarr/internal/application/usecase"
)

// Client talks to a Radarr instance.
type Client struct {
	baseURL        string
	apiKey         string
	rootFolder     string
	qualityProfile int
	http           *http.Client
}

// NewClient creates a Radarr client. rootFolder and qualityProfile are
// applied to every add request.
func NewClient(baseURL, apiKey, rootFolder string, qualityProfile int) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		rootFolder:     rootFolder,
		qualityProfile: qualityProfile,
		http:           &http.Client{},
	}
}

type ownedMovie struct {
	TmdbID int `json:"tmdbId"`
}

type addRequest struct {
	Title            string     `json:"title"`
	TmdbID           int        `json:"tmdbId"`
	QualityProfileID int        `json:"qualityProfileId"`
	RootFolderPath   string     `json:"rootFolderPath"`
	Monitored        bool       `json:"monitored"`
	AddOptions       addOptions `json:"addOptions"`
}

type addOptions struct {
	SearchForMovie bool `json:"searchForMovie"`
}

// FetchOwned returns the tmdb ids of every movie in the library.
func (c *Client) FetchOwned(ctx context.Context) (map[int]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/movie", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrLibraryUnavailable, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get movies: %v", usecase.ErrLibraryUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: get movies: status %d", usecase.ErrLibraryUnavailable, resp.StatusCode)
	}

	var movies []ownedMovie
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		return nil, fmt.Errorf("%w: decode movies: %v", usecase.ErrLibraryUnavailable, err)
	}

	owned := make(map[int]struct{}, len(movies))
	for _, m := range movies {
		owned[m.TmdbID] = struct{}{}
	}
	return owned, nil
}

// Add submits a movie to the library. It returns true only on Radarr's
// "created" acknowledgment (HTTP 201); any other response, including the
// rejection of an already-present movie, is false with a nil error.
func (c *Client) Add(ctx context.Context, id int, title string) (bool, error) {
	body, err := json.Marshal(addRequest{
		Title:            title,
		TmdbID:           id,
		QualityProfileID: c.qualityProfile,
		RootFolderPath:   c.rootFolder,
		Monitored:        true,
		AddOptions:       addOptions{SearchForMovie: true},
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", usecase.ErrLibraryUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/movie", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("%w: %v", usecase.ErrLibraryUnavailable, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: add movie %d: %v", usecase.ErrLibraryUnavailable, id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusCreated, nil
}
