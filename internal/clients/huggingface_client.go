package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/tweetsense/internal/models"
)

const HF_SENTIMENT_MODEL_URL = "https://api-inference.huggingface.co/models/distilbert/distilbert-base-uncased-finetuned-sst-2-english"

// HuggingFaceClient scores a single text against a hosted sentiment model.
// One request per text; batching is left out on purpose so a single bad text
// cannot corrupt a whole batch response.
type HuggingFaceClient struct {
	Client   *http.Client
	apiToken string
	endpoint string
}

func NewHuggingFaceClient(apiToken, endpoint string) *HuggingFaceClient {
	if endpoint == "" {
		endpoint = HF_SENTIMENT_MODEL_URL
	}
	return &HuggingFaceClient{
		Client:   &http.Client{Timeout: 30 * time.Second},
		apiToken: apiToken,
		endpoint: endpoint,
	}
}

// AnalyzeSentiment sends one text to the inference endpoint and normalizes
// the response into a single label/score pair. A payload that cannot be
// normalized fails with ErrUnexpectedShape rather than being silently
// replaced with a sentinel score.
func (h *HuggingFaceClient) AnalyzeSentiment(ctx context.Context, text string) (models.Sentiment, error) {
	var sentiment models.Sentiment

	if strings.TrimSpace(text) == "" {
		return sentiment, ErrEmptyText
	}

	body, err := json.Marshal(models.SentimentRequest{Inputs: text})
	if err != nil {
		return sentiment, fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return sentiment, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiToken)
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Sentiment request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return sentiment, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return sentiment, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("[HuggingFaceClient] Sentiment request rejected",
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return sentiment, &UpstreamError{Service: "huggingface", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	sentiment, err = decodeSentiment(respBody)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Could not normalize response",
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return models.Sentiment{}, err
	}

	slog.Info("[HuggingFaceClient] Sentiment analysis successful",
		slog.String("label", sentiment.Label),
		slog.Duration("elapsed", time.Since(start)))

	return sentiment, nil
}

// decodeSentiment accepts the three shapes the inference endpoint is known to
// produce: a flat object, a one-level array (first element wins), and a
// nested array of arrays (max score within the first inner array wins).
func decodeSentiment(raw []byte) (models.Sentiment, error) {
	var flat models.Sentiment
	if err := json.Unmarshal(raw, &flat); err == nil {
		return validateSentiment(flat)
	}

	var outer []json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil || len(outer) == 0 {
		return models.Sentiment{}, ErrUnexpectedShape
	}

	var inner []models.Sentiment
	if err := json.Unmarshal(outer[0], &inner); err == nil {
		if len(inner) == 0 {
			return models.Sentiment{}, ErrUnexpectedShape
		}
		best := inner[0]
		for _, candidate := range inner[1:] {
			if candidate.Score > best.Score {
				best = candidate
			}
		}
		return validateSentiment(best)
	}

	var single models.Sentiment
	if err := json.Unmarshal(outer[0], &single); err != nil {
		return models.Sentiment{}, ErrUnexpectedShape
	}
	return validateSentiment(single)
}

func validateSentiment(s models.Sentiment) (models.Sentiment, error) {
	if s.Label == "" || s.Score < 0.0 || s.Score > 1.0 {
		return models.Sentiment{}, ErrUnexpectedShape
	}
	return s, nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
