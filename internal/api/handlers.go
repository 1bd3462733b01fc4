package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/tweetsense/internal/clients"
	"github.com/spacesedan/tweetsense/internal/models"
)

// Secret keys expected inside the resolved secret payload.
const (
	SECRET_KEY_TWITTER_TOKEN = "TwitterBearerToken"
	SECRET_KEY_HUGGING_FACE  = "HuggingFaceAPI"
)

// SecretResolver resolves a named secret to its key/value payload.
type SecretResolver interface {
	GetSecret(ctx context.Context, name string) (map[string]string, error)
}

// PipelineRunner runs one query through the fetch/score/store pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, query string) ([]models.TweetSentiment, error)
}

// PipelineFactory builds a pipeline bound to the bearer tokens resolved for
// one invocation, so credentials never outlive the request that fetched them.
type PipelineFactory func(ctx context.Context, twitterToken, huggingFaceToken string) PipelineRunner

type Handler struct {
	secrets     SecretResolver
	secretName  string
	newPipeline PipelineFactory
}

func NewHandler(secrets SecretResolver, secretName string, newPipeline PipelineFactory) *Handler {
	return &Handler{
		secrets:     secrets,
		secretName:  secretName,
		newPipeline: newPipeline,
	}
}

// SearchSentiment handles POST /search. A 200 always carries a well-formed
// JSON array, possibly empty; any non-200 carries an object with an error
// field.
func (h *Handler) SearchSentiment(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		slog.Warn("[Handler] Query parameter missing in the request")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Query parameter is required."})
		return
	}

	ctx := c.Request.Context()
	slog.Info("[Handler] Query received", slog.String("query", req.Query))

	secrets, err := h.secrets.GetSecret(ctx, h.secretName)
	if err != nil {
		slog.Error("[Handler] Failed to resolve secrets",
			slog.String("secret", h.secretName),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "An internal error occurred.",
			Details: err.Error(),
		})
		return
	}

	runner := h.newPipeline(ctx, secrets[SECRET_KEY_TWITTER_TOKEN], secrets[SECRET_KEY_HUGGING_FACE])

	results, err := runner.Run(ctx, req.Query)
	if err != nil {
		if errors.Is(err, clients.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Query parameter is required."})
			return
		}
		slog.Error("[Handler] Pipeline failed",
			slog.String("query", req.Query),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "An internal error occurred.",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "tweetsense",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
