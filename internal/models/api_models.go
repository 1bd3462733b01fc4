package models

type SearchRequest struct {
	Query string `json:"query"`
}

type TweetSentiment struct {
	TweetID        string  `json:"tweet_id"`
	Text           string  `json:"text"`
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
