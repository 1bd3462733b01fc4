package pipeline

import (
	"context"
	"log/slog"

	"github.com/spacesedan/tweetsense/internal/models"
)

// tweetPager is a bounded, lazy iterator over search result pages. It owns
// the continuation token and the total ceiling, so termination is a property
// of the iterator rather than a break somewhere in the loop body. A consumed
// token is never reused.
type tweetPager struct {
	searcher  TweetSearcher
	gate      func(context.Context) error
	query     string
	pageSize  int
	maxTotal  int
	nextToken string
	fetched   int
	done      bool
}

func newTweetPager(searcher TweetSearcher, gate func(context.Context) error, query string, pageSize, maxTotal int) *tweetPager {
	return &tweetPager{
		searcher: searcher,
		gate:     gate,
		query:    query,
		pageSize: pageSize,
		maxTotal: maxTotal,
	}
}

// Next returns the next page of tweets. ok is false once the pager is
// exhausted; any error ends the iteration.
func (p *tweetPager) Next(ctx context.Context) (tweets []models.Tweet, ok bool, err error) {
	if p.done {
		return nil, false, nil
	}

	if err := ctx.Err(); err != nil {
		p.done = true
		return nil, false, err
	}

	if p.gate != nil {
		if err := p.gate(ctx); err != nil {
			p.done = true
			return nil, false, err
		}
	}

	resp, err := p.searcher.SearchRecent(ctx, p.query, p.pageSize, p.nextToken)
	if err != nil {
		p.done = true
		return nil, false, err
	}

	p.fetched += len(resp.Data)
	p.nextToken = resp.Meta.NextToken
	if p.nextToken == "" || p.fetched >= p.maxTotal {
		p.done = true
	}

	slog.Info("[Pipeline] Fetched page",
		slog.Int("result_count", resp.Meta.ResultCount),
		slog.Int("total_fetched", p.fetched),
		slog.Bool("more_pages", !p.done))

	return resp.Data, true, nil
}
