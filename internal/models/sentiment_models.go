package models

type SentimentRequest struct {
	Inputs string `json:"inputs"`
}

type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoredTweet is the unit of persistence: one tweet joined with its
// sentiment, keyed by tweet_id.
type ScoredTweet struct {
	TweetID        string  `json:"tweet_id" dynamodbav:"tweet_id"`
	Text           string  `json:"text" dynamodbav:"text"`
	AuthorID       string  `json:"author_id" dynamodbav:"author_id"`
	CreatedAt      string  `json:"created_at" dynamodbav:"created_at"`
	SentimentLabel string  `json:"sentiment_label" dynamodbav:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score" dynamodbav:"sentiment_score"`
}
