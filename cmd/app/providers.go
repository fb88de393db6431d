package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/nuvia/nutrition-advisor/internal/domain/adminauth"
	"github.com/nuvia/nutrition-advisor/internal/domain/configcenter"
	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
	"github.com/nuvia/nutrition-advisor/internal/domain/review"
	"github.com/nuvia/nutrition-advisor/internal/infra/commercerepo"
	"github.com/nuvia/nutrition-advisor/internal/infra/config"
	"github.com/nuvia/nutrition-advisor/internal/infra/configrepo"
	"github.com/nuvia/nutrition-advisor/internal/infra/llm/grok"
	"github.com/nuvia/nutrition-advisor/internal/infra/reportstore"
	"github.com/nuvia/nutrition-advisor/internal/infra/reviewrepo"
)

func provideRecommendConfig(cfg *config.Config) recommend.Config {
	return recommend.Config{
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		CandidatePool:   cfg.Recommend.CandidatePool,
		DefaultLocale:   cfg.Recommend.DefaultLocale,
		PersonalizedWhy: cfg.Recommend.PersonalizedWhy,
	}
}

func provideAdminAuthConfig(cfg *config.Config) adminauth.Config {
	operators := make([]adminauth.Operator, 0, len(cfg.Admin.Operators))
	for _, op := range cfg.Admin.Operators {
		operators = append(operators, adminauth.Operator{
			ID:           op.ID,
			Username:     op.Username,
			PasswordHash: op.PasswordHash,
			Role:         op.Role,
		})
	}
	return adminauth.Config{
		Secret:    cfg.Admin.JWTSecret,
		TokenTTL:  cfg.Admin.TokenTTL,
		Operators: operators,
	}
}

func provideChatClient(cfg *config.Config, logger *slog.Logger) recommend.ChatClient {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn("grok api key not set, recommendations degrade to template reasons")
		return nil
	}
	client, err := grok.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, grok.Options{
		Timeout:       cfg.LLM.Timeout,
		MaxRetries:    cfg.LLM.MaxRetries,
		RetryBackoff:  cfg.LLM.RetryBackoff,
		MaxConcurrent: cfg.LLM.MaxConcurrent,
	})
	if err != nil {
		logger.Error("failed to build grok client, recommendations degrade to template reasons", "error", err)
		return nil
	}
	return client
}

func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideConfigRepository(pool *pgxpool.Pool) configcenter.Repository {
	if pool == nil {
		return configrepo.NewMemoryRepository()
	}
	return configrepo.NewPostgresRepository(pool)
}

func provideReviewRepository(pool *pgxpool.Pool) review.Repository {
	if pool == nil {
		return reviewrepo.NewMemoryRepository()
	}
	return reviewrepo.NewPostgresRepository(pool)
}

func provideCommerceRepository(pool *pgxpool.Pool) commercerepo.Repository {
	if pool == nil {
		return commercerepo.NewMemoryRepository()
	}
	return commercerepo.NewPostgresRepository(pool)
}

func provideReportStore(cfg *config.Config, logger *slog.Logger) reportstore.Store {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory report store", "error", err)
			return reportstore.NewMemoryStore(cfg.Valkey.TTL)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory report store", "error", err)
			return reportstore.NewMemoryStore(cfg.Valkey.TTL)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory report store", "error", err)
		} else {
			logger.Info("valkey report store enabled", "addr", cfg.Valkey.Addr)
			return reportstore.NewValkeyStore(client, "report", cfg.Valkey.TTL)
		}
	}
	return reportstore.NewMemoryStore(cfg.Valkey.TTL)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideCommerceResolver(repo commercerepo.Repository) recommend.CommerceResolver {
	return repo
}

func provideReportReader(store reportstore.Store) recommend.ReportStore {
	return store
}
