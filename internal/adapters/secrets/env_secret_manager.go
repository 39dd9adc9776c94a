package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kevin07696/billing-service/internal/domain/ports"
)

// envSecretManager resolves secrets from environment variables.
// WARNING: This is for development only. Use AWS Secrets Manager in production.
type envSecretManager struct {
	prefix string
	logger ports.Logger
}

// NewEnvSecretManager creates a secret manager backed by the process environment.
// A secret name like "billing/gateway/api-key" resolves to the variable
// PREFIX_BILLING_GATEWAY_API_KEY.
func NewEnvSecretManager(prefix string, logger ports.Logger) ports.SecretManager {
	return &envSecretManager{prefix: prefix, logger: logger}
}

// GetSecret retrieves a secret from the environment
func (m *envSecretManager) GetSecret(_ context.Context, name string) (string, error) {
	key := m.envKey(name)

	m.logger.Debug("Reading secret from environment", ports.String("name", name))

	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("secret not found: %s (env %s)", name, key)
	}
	return value, nil
}

func (m *envSecretManager) envKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(key)
	if m.prefix != "" {
		return m.prefix + "_" + key
	}
	return key
}
