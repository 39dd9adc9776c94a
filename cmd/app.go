package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevin07696/billing-service/internal/adapters/gateway"
	"github.com/kevin07696/billing-service/internal/adapters/logger"
	"github.com/kevin07696/billing-service/internal/adapters/postgres"
	"github.com/kevin07696/billing-service/internal/adapters/secrets"
	"github.com/kevin07696/billing-service/internal/config"
	"github.com/kevin07696/billing-service/internal/domain/ports"
	"github.com/kevin07696/billing-service/internal/events"
	"github.com/kevin07696/billing-service/internal/services/charge"
	pkghttp "github.com/kevin07696/billing-service/pkg/http"
	"github.com/kevin07696/billing-service/pkg/timeutil"
)

// app holds everything a command needs after dependency wiring
type app struct {
	cfg     *config.Config
	logger  *logger.ZapLogger
	pool    *pgxpool.Pool
	charges *charge.Service
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// buildApp loads configuration and wires the full dependency graph
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}

	log, err := logger.NewZapLogger(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db := postgres.NewDBExecutor(pool)
	payments := postgres.NewPaymentRepository(db)
	recurrents := postgres.NewRecurrentPaymentRepository(db)
	logs := postgres.NewPaymentLogRepository(db)
	subTypes := postgres.NewSubscriptionTypeRepository(db)

	secretManager, err := buildSecretManager(ctx, log)
	if err != nil {
		pool.Close()
		log.Sync()
		return nil, err
	}
	apiKey, err := secretManager.GetSecret(ctx, cfg.Gateway.APIKeySecret)
	if err != nil {
		pool.Close()
		log.Sync()
		return nil, fmt.Errorf("resolve gateway API key: %w", err)
	}

	httpClient := pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), cfg.Gateway.Timeout)
	registry := gateway.NewRegistry()
	registry.Register(gateway.CardPayCode, gateway.NewCardPayAdapter(
		cfg.Gateway.BaseURL, apiKey, cfg.Gateway.Timeout, httpClient, log))
	registry.Register(charge.TestGatewayCode, gateway.NewTestGateway())

	emitter := events.NewEmitter(log)
	emitter.Register(events.LoggingHandler(log))
	emitter.Register(events.MetricsHandler())

	schedule, err := charge.NewRetrySchedule(cfg.Charge.RetrySchedule)
	if err != nil {
		pool.Close()
		log.Sync()
		return nil, err
	}
	builder := charge.NewPaymentBuilder(cfg.Charge.DonationVATRate, cfg.Charge.DonationItemName, timeutil.Now)
	resolver := charge.NewResolver(subTypes)

	svc := charge.NewService(
		db, payments, recurrents, logs,
		registry, resolver, builder, schedule,
		emitter, log,
		cfg.Charge.GatewayFailDelay,
		int32(cfg.Charge.BatchSize),
	)

	return &app{cfg: cfg, logger: log, pool: pool, charges: svc}, nil
}

// buildSecretManager selects the secrets backend. AWS Secrets Manager in
// production, plain environment variables everywhere else.
func buildSecretManager(ctx context.Context, log ports.Logger) (ports.SecretManager, error) {
	if os.Getenv("SECRETS_BACKEND") == "aws" {
		region := os.Getenv("AWS_REGION")
		if region == "" {
			return nil, fmt.Errorf("AWS_REGION is required when SECRETS_BACKEND=aws")
		}
		return secrets.NewAWSSecretManager(ctx, secrets.DefaultAWSSecretsManagerConfig(region), log)
	}
	return secrets.NewEnvSecretManager("", log), nil
}
