package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/spacesedan/tweetsense/internal/models"
)

const TWEETS_TABLE_NAME = "Tweets"

// DynamoDBPutAPI is the slice of the DynamoDB client the store uses.
type DynamoDBPutAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// TweetStore persists scored tweets keyed by tweet_id. Writes are upserts: a
// second write with the same id fully overwrites the first.
type TweetStore struct {
	client DynamoDBPutAPI
	table  string
}

func NewTweetStore(client DynamoDBPutAPI, table string) *TweetStore {
	if table == "" {
		table = TWEETS_TABLE_NAME
	}
	return &TweetStore{client: client, table: table}
}

func (s *TweetStore) UpsertScoredTweet(ctx context.Context, tweet models.ScoredTweet) error {
	item, err := attributevalue.MarshalMap(tweet)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal tweet %s: %w", tweet.TweetID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store tweet %s: %w", tweet.TweetID, err)
	}

	slog.Info("[DynamoDB] Stored scored tweet",
		slog.String("tweet_id", tweet.TweetID),
		slog.String("label", tweet.SentimentLabel))

	return nil
}
