package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/spacesedan/tweetsense/internal/models"
)

const (
	TWITTER_API_URL      = "https://api.twitter.com"
	TWITTER_SEARCH_PATH  = "/2/tweets/search/recent"
	TWITTER_TWEET_FIELDS = "id,text,created_at,author_id"
)

// TwitterClient draws pages of recent tweets matching a query. It is
// stateless across calls; the continuation token lives with the caller.
type TwitterClient struct {
	Client  *http.Client
	baseURL string
}

// NewTwitterClient builds a search client around the given bearer token.
// baseURL overrides the Twitter API host, used for local testing.
func NewTwitterClient(ctx context.Context, bearerToken, baseURL string) *TwitterClient {
	if baseURL == "" {
		baseURL = TWITTER_API_URL
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearerToken})

	return &TwitterClient{
		Client:  oauth2.NewClient(ctx, src),
		baseURL: baseURL,
	}
}

// SearchRecent fetches one page of tweets. An empty next token in the
// returned meta means the upstream has no further pages.
func (tc *TwitterClient) SearchRecent(ctx context.Context, query string, maxResults int, nextToken string) (*models.TweetSearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	parsedUrl, err := url.Parse(tc.baseURL + TWITTER_SEARCH_PATH)
	if err != nil {
		return nil, fmt.Errorf("[TwitterClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Set("query", query)
	queryParams.Set("max_results", strconv.Itoa(maxResults))
	queryParams.Set("tweet.fields", TWITTER_TWEET_FIELDS)
	if nextToken != "" {
		queryParams.Set("next_token", nextToken)
	}
	parsedUrl.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedUrl.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("[TwitterClient] Failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := tc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[TwitterClient] Request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[TwitterClient] Failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[TwitterClient] Search request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("query", query))
		return nil, &UpstreamError{Service: "twitter", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response models.TweetSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("[TwitterClient] Failed to unmarshal response: %w", err)
	}

	slog.Info("[TwitterClient] Fetched tweets",
		slog.String("query", query),
		slog.Int("result_count", response.Meta.ResultCount),
		slog.Bool("has_next_page", response.Meta.NextToken != ""))

	return &response, nil
}
