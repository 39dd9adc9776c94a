package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/kevin07696/billing-service/internal/domain/ports"
)

// AWSSecretsManagerConfig contains configuration for the AWS adapter
type AWSSecretsManagerConfig struct {
	// AWS Region (e.g., "us-east-1")
	Region string

	// Optional: AWS profile name (for local development)
	Profile string

	// Optional: Custom endpoint (for LocalStack testing)
	Endpoint string

	// Cache TTL for secrets (default: 5 minutes)
	CacheTTL time.Duration
}

// DefaultAWSSecretsManagerConfig returns default configuration
func DefaultAWSSecretsManagerConfig(region string) *AWSSecretsManagerConfig {
	return &AWSSecretsManagerConfig{
		Region:   region,
		CacheTTL: 5 * time.Minute,
	}
}

// awsSecretManager implements ports.SecretManager over AWS Secrets Manager
type awsSecretManager struct {
	client *secretsmanager.Client
	cfg    *AWSSecretsManagerConfig
	logger ports.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// NewAWSSecretManager creates a new AWS Secrets Manager adapter
func NewAWSSecretManager(ctx context.Context, cfg *AWSSecretsManagerConfig, logger ports.Logger) (ports.SecretManager, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOptions := []func(*secretsmanager.Options){}
	if cfg.Endpoint != "" {
		clientOptions = append(clientOptions, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	logger.Info("AWS Secrets Manager adapter initialized",
		ports.String("region", cfg.Region))

	return &awsSecretManager{
		client: secretsmanager.NewFromConfig(awsConfig, clientOptions...),
		cfg:    cfg,
		logger: logger,
		cache:  make(map[string]cacheEntry),
	}, nil
}

// GetSecret retrieves a secret by name or full ARN
func (m *awsSecretManager) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := m.cached(name); ok {
		m.logger.Debug("Secret retrieved from cache", ports.String("name", name))
		return value, nil
	}

	result, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		m.logger.Error("Failed to retrieve secret",
			ports.String("name", name),
			ports.Err(err))
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}

	value := aws.ToString(result.SecretString)
	m.store(name, value)
	return value, nil
}

func (m *awsSecretManager) cached(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.cache[name]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(m.cache, name)
		return "", false
	}
	return entry.value, true
}

func (m *awsSecretManager) store(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[name] = cacheEntry{value: value, expiresAt: time.Now().Add(m.cfg.CacheTTL)}
}
