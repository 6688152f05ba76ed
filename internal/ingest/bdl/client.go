package bdl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	// BaseURL for the balldontlie REST API.
	BaseURL = "https://api.balldontlie.io/v1"

	perPage        = 100
	requestTimeout = 30 * time.Second
)

// Client handles balldontlie API requests. The free tier requires an API
// key passed in the Authorization header.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a balldontlie client with a custom base URL.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// NewClient creates a balldontlie client against the default API base.
func NewClient(apiKey string) *Client {
	return New(BaseURL, apiKey)
}

// FetchTeams fetches the full NBA team list.
func (c *Client) FetchTeams(ctx context.Context) ([]Team, error) {
	url := fmt.Sprintf("%s/teams?per_page=%d", c.baseURL, perPage)

	var envelope teamsResponse
	if err := c.get(ctx, url, &envelope); err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}
	return envelope.Data, nil
}

// FetchGamesPage fetches one page of games for a season. Returns an empty
// slice once the season is exhausted.
func (c *Client) FetchGamesPage(ctx context.Context, season, page int) ([]Game, error) {
	url := fmt.Sprintf("%s/games?seasons[]=%d&per_page=%d&page=%d", c.baseURL, season, perPage, page)

	var envelope gamesResponse
	if err := c.get(ctx, url, &envelope); err != nil {
		return nil, fmt.Errorf("fetching games page %d: %w", page, err)
	}
	return envelope.Data, nil
}

// FetchSeasonGames walks the pagination for a season up to maxPages.
func (c *Client) FetchSeasonGames(ctx context.Context, season, maxPages int) ([]Game, error) {
	var all []Game
	for page := 1; page <= maxPages; page++ {
		games, err := c.FetchGamesPage(ctx, season, page)
		if err != nil {
			return nil, err
		}
		if len(games) == 0 {
			break
		}
		all = append(all, games...)
		log.Printf("[bdl-client] Season %d page %d: %d games", season, page, len(games))
	}
	return all, nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("unauthorized: set NBA_API_KEY (free key at app.balldontlie.io)")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
