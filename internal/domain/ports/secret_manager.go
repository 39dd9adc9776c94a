package ports

import "context"

// SecretManager resolves named secrets (gateway credentials) at startup
type SecretManager interface {
	GetSecret(ctx context.Context, name string) (string, error)
}
