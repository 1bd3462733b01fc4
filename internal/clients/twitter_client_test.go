package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const searchPage = `{
	"data": [
		{"id": "1", "text": "first tweet", "author_id": "a1", "created_at": "2024-01-01T00:00:00Z"},
		{"id": "2", "text": "second tweet", "author_id": "a2", "created_at": "2024-01-01T00:01:00Z"}
	],
	"meta": {"newest_id": "2", "oldest_id": "1", "result_count": 2, "next_token": "tok-1"}
}`

func TestSearchRecent(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Write([]byte(searchPage))
	}))
	defer server.Close()

	client := NewTwitterClient(context.Background(), "test-token", server.URL)
	resp, err := client.SearchRecent(context.Background(), "golang", 10, "")
	if err != nil {
		t.Fatalf("SearchRecent failed: %v", err)
	}

	if gotPath != "/2/tweets/search/recent" {
		t.Errorf("Expected recent search path, got %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotQuery["query"] != "golang" {
		t.Errorf("Expected query golang, got %q", gotQuery["query"])
	}
	if gotQuery["max_results"] != "10" {
		t.Errorf("Expected max_results 10, got %q", gotQuery["max_results"])
	}
	if gotQuery["tweet.fields"] != "id,text,created_at,author_id" {
		t.Errorf("Unexpected tweet.fields: %q", gotQuery["tweet.fields"])
	}
	if _, ok := gotQuery["next_token"]; ok {
		t.Error("next_token should not be sent on the first page")
	}

	if len(resp.Data) != 2 {
		t.Fatalf("Expected 2 tweets, got %d", len(resp.Data))
	}
	if resp.Data[0].ID != "1" || resp.Data[0].Text != "first tweet" || resp.Data[0].AuthorID != "a1" {
		t.Errorf("Unexpected first tweet: %+v", resp.Data[0])
	}
	if resp.Meta.ResultCount != 2 {
		t.Errorf("Expected result_count 2, got %d", resp.Meta.ResultCount)
	}
	if resp.Meta.NextToken != "tok-1" {
		t.Errorf("Expected next_token tok-1, got %q", resp.Meta.NextToken)
	}
}

func TestSearchRecent_ThreadsNextToken(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("next_token")
		w.Write([]byte(`{"data": [], "meta": {"result_count": 0}}`))
	}))
	defer server.Close()

	client := NewTwitterClient(context.Background(), "test-token", server.URL)
	resp, err := client.SearchRecent(context.Background(), "golang", 10, "tok-1")
	if err != nil {
		t.Fatalf("SearchRecent failed: %v", err)
	}

	if gotToken != "tok-1" {
		t.Errorf("Expected next_token tok-1, got %q", gotToken)
	}
	if resp.Meta.NextToken != "" {
		t.Errorf("Expected exhausted pagination, got token %q", resp.Meta.NextToken)
	}
}

func TestSearchRecent_EmptyQuery(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewTwitterClient(context.Background(), "test-token", server.URL)
	if _, err := client.SearchRecent(context.Background(), "  ", 10, ""); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Expected ErrEmptyQuery, got %v", err)
	}
	if requests != 0 {
		t.Errorf("Expected no requests for empty query, got %d", requests)
	}
}

func TestSearchRecent_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limit exceeded"))
	}))
	defer server.Close()

	client := NewTwitterClient(context.Background(), "test-token", server.URL)
	_, err := client.SearchRecent(context.Background(), "golang", 10, "")

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upstreamErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", upstreamErr.StatusCode)
	}
	if upstreamErr.Body != "rate limit exceeded" {
		t.Errorf("Expected upstream body in error, got %q", upstreamErr.Body)
	}
}
