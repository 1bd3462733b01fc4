package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

const VALKEY_SEARCH_BUDGET_KEY = "twitter:search:request_budget"

// SearchBudget tracks search-API requests in a windowed counter shared across
// every process talking to the same upstream, so concurrent invocations spend
// one common rate-limit budget.
type SearchBudget struct {
	Client valkey.Client
	limit  int
	window time.Duration
}

func NewSearchBudget(addr, password string, useTLS bool, limit int, window time.Duration) (*SearchBudget, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			addr,
		},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[SearchBudget] failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[SearchBudget] failed to ping Valkey: %w", err)
	}

	slog.Info("[SearchBudget] Successfully connected to valkey",
		slog.Int("limit", limit),
		slog.Duration("window", window))

	return &SearchBudget{Client: client, limit: limit, window: window}, nil
}

func (sb *SearchBudget) Close() {
	sb.Client.Close()
}

// Acquire reserves one request from the shared window. It returns how long
// the caller must wait before the next request is allowed; zero means go now.
func (sb *SearchBudget) Acquire(ctx context.Context) (time.Duration, error) {
	res := sb.Client.Do(ctx, sb.Client.B().Incr().Key(VALKEY_SEARCH_BUDGET_KEY).Build())
	count, err := res.AsInt64()
	if err != nil {
		return 0, fmt.Errorf("[SearchBudget] failed to reserve request: %w", err)
	}

	if count == 1 {
		seconds := int64(sb.window / time.Second)
		if err := sb.Client.Do(ctx, sb.Client.B().Expire().Key(VALKEY_SEARCH_BUDGET_KEY).Seconds(seconds).Build()).Error(); err != nil {
			return 0, fmt.Errorf("[SearchBudget] failed to start window: %w", err)
		}
		return 0, nil
	}

	if count <= int64(sb.limit) {
		return 0, nil
	}

	ttlRes := sb.Client.Do(ctx, sb.Client.B().Ttl().Key(VALKEY_SEARCH_BUDGET_KEY).Build())
	ttl, err := ttlRes.AsInt64()
	if err != nil || ttl < 0 {
		return sb.window, nil
	}

	slog.Warn("[SearchBudget] Window exhausted",
		slog.Int64("requests", count),
		slog.Int64("seconds_until_reset", ttl))

	return time.Duration(ttl) * time.Second, nil
}
