package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/tweetsense/internal/clients"
	"github.com/spacesedan/tweetsense/internal/models"
)

type TweetSearcher interface {
	SearchRecent(ctx context.Context, query string, maxResults int, nextToken string) (*models.TweetSearchResponse, error)
}

type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (models.Sentiment, error)
}

type TweetStore interface {
	UpsertScoredTweet(ctx context.Context, tweet models.ScoredTweet) error
}

// RequestBudget gates page fetches against the search-API rate window shared
// by every invocation. Acquire returns how long to wait before the next
// request is allowed; zero means go now.
type RequestBudget interface {
	Acquire(ctx context.Context) (time.Duration, error)
}

const (
	DEFAULT_PAGE_SIZE        = 10
	DEFAULT_MAX_TOTAL_TWEETS = 30
)

type Options struct {
	// PageSize bounds tweets requested per search call. The upstream enforces
	// its own cap on top of this.
	PageSize int
	// MaxTotalTweets bounds total work regardless of how many pages the
	// upstream offers.
	MaxTotalTweets int
}

// Pipeline walks the search pages for one query, scores every tweet, and
// persists each scored tweet before moving to the next. One bad tweet never
// aborts the batch; a failed page fetch does.
type Pipeline struct {
	searcher TweetSearcher
	analyzer SentimentAnalyzer
	store    TweetStore
	budget   RequestBudget
	opts     Options
}

// New wires a pipeline from its collaborators. budget may be nil, which
// disables rate gating.
func New(searcher TweetSearcher, analyzer SentimentAnalyzer, store TweetStore, budget RequestBudget, opts Options) *Pipeline {
	return &Pipeline{
		searcher: searcher,
		analyzer: analyzer,
		store:    store,
		budget:   budget,
		opts:     withDefaults(opts),
	}
}

func withDefaults(opts Options) Options {
	if opts.PageSize <= 0 {
		opts.PageSize = DEFAULT_PAGE_SIZE
	}
	if opts.MaxTotalTweets <= 0 {
		opts.MaxTotalTweets = DEFAULT_MAX_TOTAL_TWEETS
	}
	return opts
}

// Run processes the query and returns one entry per tweet successfully
// scored and stored, in upstream order. Tweets from later pages may repeat an
// earlier id when upstream pagination drifts; the store overwrites and the
// result list keeps both entries.
func (p *Pipeline) Run(ctx context.Context, query string) ([]models.TweetSentiment, error) {
	if strings.TrimSpace(query) == "" {
		return nil, clients.ErrEmptyQuery
	}

	slog.Info("[Pipeline] Starting batch", slog.String("query", query))

	results := make([]models.TweetSentiment, 0, p.opts.MaxTotalTweets)
	pager := newTweetPager(p.searcher, p.waitForBudget, query, p.opts.PageSize, p.opts.MaxTotalTweets)

	for {
		tweets, ok, err := pager.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching tweets failed: %w", err)
		}
		if !ok {
			break
		}

		for _, tweet := range tweets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			scored, err := p.processTweet(ctx, tweet)
			if err != nil {
				slog.Warn("[Pipeline] Skipping tweet",
					slog.String("tweet_id", tweet.ID),
					slog.String("error", err.Error()))
				continue
			}
			results = append(results, scored)
		}
	}

	slog.Info("[Pipeline] Batch complete",
		slog.String("query", query),
		slog.Int("processed", len(results)))

	return results, nil
}

// processTweet scores one tweet and commits it. Each write is independently
// committed and final; a skip later in the batch does not roll it back.
func (p *Pipeline) processTweet(ctx context.Context, tweet models.Tweet) (models.TweetSentiment, error) {
	sentiment, err := p.analyzer.AnalyzeSentiment(ctx, tweet.Text)
	if err != nil {
		return models.TweetSentiment{}, fmt.Errorf("sentiment analysis failed: %w", err)
	}
	if sentiment.Label == "" {
		return models.TweetSentiment{}, errors.New("sentiment has no label")
	}

	scored := models.ScoredTweet{
		TweetID:        tweet.ID,
		Text:           tweet.Text,
		AuthorID:       tweet.AuthorID,
		CreatedAt:      tweet.CreatedAt,
		SentimentLabel: sentiment.Label,
		SentimentScore: sentiment.Score,
	}
	if err := p.store.UpsertScoredTweet(ctx, scored); err != nil {
		return models.TweetSentiment{}, fmt.Errorf("storing tweet failed: %w", err)
	}

	return models.TweetSentiment{
		TweetID:        tweet.ID,
		Text:           tweet.Text,
		SentimentLabel: sentiment.Label,
		SentimentScore: sentiment.Score,
	}, nil
}

// waitForBudget blocks until the shared request budget admits one more search
// call. The cooldown sleep is cancellable through ctx.
func (p *Pipeline) waitForBudget(ctx context.Context) error {
	if p.budget == nil {
		return nil
	}

	for {
		wait, err := p.budget.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("request budget unavailable: %w", err)
		}
		if wait <= 0 {
			return nil
		}

		slog.Warn("[Pipeline] Search budget exhausted, cooling down",
			slog.Duration("wait", wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
