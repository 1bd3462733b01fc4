package config

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

type Settings struct {
	Port string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`

	// AWS configuration
	AWSRegion   string `long:"aws-region" env:"AWS_REGION" default:"us-west-2" description:"AWS region"`
	AWSEndpoint string `long:"aws-endpoint" env:"AWS_ENDPOINT" description:"Override AWS endpoint (local DynamoDB)"`
	SecretName  string `long:"secret-name" env:"SECRET_NAME" default:"dev/sentiment" description:"Secrets Manager secret holding the API tokens"`
	TweetsTable string `long:"tweets-table" env:"TWEETS_TABLE" default:"Tweets" description:"DynamoDB table for scored tweets"`

	// Upstream endpoints
	TwitterBaseURL    string `long:"twitter-base-url" env:"TWITTER_BASE_URL" description:"Override Twitter API base URL"`
	SentimentModelURL string `long:"sentiment-model-url" env:"SENTIMENT_MODEL_URL" description:"Override sentiment inference endpoint"`

	// Pipeline budget
	PageSize       int `long:"page-size" env:"PAGE_SIZE" default:"10" description:"Tweets requested per search page"`
	MaxTotalTweets int `long:"max-total-tweets" env:"MAX_TOTAL_TWEETS" default:"30" description:"Ceiling on tweets processed per query"`

	// Shared rate window (requires valkey)
	SearchRateLimit  int    `long:"search-rate-limit" env:"SEARCH_RATE_LIMIT" default:"450" description:"Search requests allowed per window"`
	SearchRateWindow int    `long:"search-rate-window" env:"SEARCH_RATE_WINDOW" default:"900" description:"Rate window length in seconds"`
	ValkeyAddress    string `long:"valkey-address" env:"VALKEY_INIT_ADDRESS" description:"Valkey address for the shared request budget (optional)"`
	ValkeyPassword   string `long:"valkey-password" env:"VALKEY_PASSWORD" description:"Valkey password"`
	ValkeyTLS        bool   `long:"valkey-tls" env:"VALKEY_TLS" description:"Connect to valkey over TLS"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses settings from flags and environment. A nil, nil return means
// help was requested.
func Load() (*Settings, error) {
	var settings Settings

	parser := flags.NewParser(&settings, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &settings, nil
}
