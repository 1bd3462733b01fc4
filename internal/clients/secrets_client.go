package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsClient resolves named secrets to their key/value payloads at
// invocation time. A resolution failure is fatal to the whole invocation.
type SecretsClient struct {
	Client *secretsmanager.Client
}

func NewSecretsClient(client *secretsmanager.Client) *SecretsClient {
	return &SecretsClient{Client: client}
}

// GetSecret fetches the named secret and decodes its JSON string payload.
func (sc *SecretsClient) GetSecret(ctx context.Context, name string) (map[string]string, error) {
	out, err := sc.Client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		slog.Error("[SecretsClient] Failed to retrieve secret",
			slog.String("secret", name),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("[SecretsClient] Failed to retrieve secret %s: %w", name, err)
	}

	if out.SecretString == nil || *out.SecretString == "" {
		return nil, errors.New("[SecretsClient] Secret string is empty")
	}

	var secrets map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &secrets); err != nil {
		return nil, fmt.Errorf("[SecretsClient] Failed to decode secret %s: %w", name, err)
	}

	return secrets, nil
}
