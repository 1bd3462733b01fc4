package db

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/tweetsense/internal/models"
)

type fakePutAPI struct {
	items map[string]map[string]types.AttributeValue
	table string
	calls int
	err   error
}

func (f *fakePutAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if params.TableName != nil {
		f.table = *params.TableName
	}
	key := params.Item["tweet_id"].(*types.AttributeValueMemberS).Value
	if f.items == nil {
		f.items = make(map[string]map[string]types.AttributeValue)
	}
	f.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func scoredTweet(id, label string, score float64) models.ScoredTweet {
	return models.ScoredTweet{
		TweetID:        id,
		Text:           "some tweet",
		AuthorID:       "author-1",
		CreatedAt:      "2024-01-01T00:00:00Z",
		SentimentLabel: label,
		SentimentScore: score,
	}
}

func TestUpsertScoredTweet(t *testing.T) {
	client := &fakePutAPI{}
	store := NewTweetStore(client, "")

	if err := store.UpsertScoredTweet(context.Background(), scoredTweet("1", "POSITIVE", 0.9)); err != nil {
		t.Fatalf("UpsertScoredTweet failed: %v", err)
	}

	if client.table != TWEETS_TABLE_NAME {
		t.Errorf("Expected default table %q, got %q", TWEETS_TABLE_NAME, client.table)
	}

	item, ok := client.items["1"]
	if !ok {
		t.Fatal("Tweet was not written")
	}

	stringAttrs := map[string]string{
		"tweet_id":        "1",
		"text":            "some tweet",
		"author_id":       "author-1",
		"created_at":      "2024-01-01T00:00:00Z",
		"sentiment_label": "POSITIVE",
	}
	for attr, want := range stringAttrs {
		got, ok := item[attr].(*types.AttributeValueMemberS)
		if !ok {
			t.Errorf("Attribute %s missing or not a string", attr)
			continue
		}
		if got.Value != want {
			t.Errorf("Attribute %s: expected %q, got %q", attr, want, got.Value)
		}
	}

	if _, ok := item["sentiment_score"].(*types.AttributeValueMemberN); !ok {
		t.Error("Attribute sentiment_score missing or not a number")
	}
}

func TestUpsertScoredTweet_Idempotent(t *testing.T) {
	client := &fakePutAPI{}
	store := NewTweetStore(client, "TweetsTest")

	if err := store.UpsertScoredTweet(context.Background(), scoredTweet("1", "POSITIVE", 0.9)); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if err := store.UpsertScoredTweet(context.Background(), scoredTweet("1", "NEGATIVE", 0.4)); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	if len(client.items) != 1 {
		t.Fatalf("Expected 1 stored record, got %d", len(client.items))
	}

	label := client.items["1"]["sentiment_label"].(*types.AttributeValueMemberS).Value
	if label != "NEGATIVE" {
		t.Errorf("Expected second write to overwrite the first, got label %q", label)
	}
}

func TestUpsertScoredTweet_WriteFailure(t *testing.T) {
	writeErr := errors.New("throughput exceeded")
	store := NewTweetStore(&fakePutAPI{err: writeErr}, "Tweets")

	err := store.UpsertScoredTweet(context.Background(), scoredTweet("1", "POSITIVE", 0.9))
	if !errors.Is(err, writeErr) {
		t.Errorf("Expected the write error to be wrapped, got %v", err)
	}
}
