package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/auth"
	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
	"github.com/yanqian/pollen-calendar/internal/infra/archive"
	"github.com/yanqian/pollen-calendar/internal/infra/config"
	"github.com/yanqian/pollen-calendar/internal/infra/forecaststore"
	"github.com/yanqian/pollen-calendar/internal/infra/llm/chatgpt"
	"github.com/yanqian/pollen-calendar/internal/infra/prediction"
	"github.com/yanqian/pollen-calendar/internal/infra/profilerepo"
	"github.com/yanqian/pollen-calendar/internal/infra/userrepo"
)

const memoryStoreCleanup = 10 * time.Minute

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		Issuer:          cfg.Auth.Issuer,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideCatalog(cfg *config.Config) (*allergy.Catalog, error) {
	specs := make([]allergy.PlantSpec, 0, len(cfg.Forecast.Plants))
	for _, p := range cfg.Forecast.Plants {
		specs = append(specs, allergy.PlantSpec{
			Plant:        forecast.NormalizePlant(p.Name),
			Name:         p.Label,
			Window:       forecast.BloomWindow{Start: p.Start, End: p.End},
			DefaultLevel: p.DefaultLevel,
		})
	}
	catalog, err := allergy.NewCatalog(specs)
	if err != nil {
		return nil, fmt.Errorf("plant catalog: %w", err)
	}
	return catalog, nil
}

func provideAllergyConfig(cfg *config.Config) (allergy.Config, error) {
	loc, err := time.LoadLocation(cfg.Forecast.Timezone)
	if err != nil {
		return allergy.Config{}, fmt.Errorf("forecast timezone: %w", err)
	}
	calibrated := make([]forecast.Plant, 0, len(cfg.Forecast.CalibratedPlants))
	for _, name := range cfg.Forecast.CalibratedPlants {
		calibrated = append(calibrated, forecast.NormalizePlant(name))
	}
	var palette forecast.Palette
	if len(cfg.Forecast.Palette) > 0 {
		palette = forecast.DefaultPalette()
		for bucket, color := range cfg.Forecast.Palette {
			palette[forecast.Bucket(strings.TrimSpace(bucket))] = color
		}
	}
	return allergy.Config{
		Timezone:         loc,
		SeasonYear:       cfg.Forecast.SeasonYear,
		UpcomingLimit:    cfg.Forecast.UpcomingLimit,
		CacheTTL:         cfg.Forecast.CacheTTL,
		FetchConcurrency: cfg.Forecast.FetchConcurrency,
		FetchTimeout:     cfg.Forecast.FetchTimeout,
		CalibratedPlants: calibrated,
		Palette:          palette,
		Advice: allergy.AdviceConfig{
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Prompt:      cfg.LLM.Prompt,
		},
	}, nil
}

func provideShiftClient(cfg *config.Config) allergy.ShiftClient {
	return prediction.NewShiftClient(cfg.Prediction.ShiftURL, cfg.Prediction.WeatherData, cfg.Prediction.Timeout)
}

func provideIntensityClient(cfg *config.Config) allergy.IntensityClient {
	return prediction.NewIntensityClient(cfg.Prediction.IntensityURL, cfg.Prediction.Timezone, cfg.Prediction.Timeout)
}

// provideChatClient returns nil when no API key is configured; advice then stays static.
func provideChatClient(cfg *config.Config, logger *slog.Logger) allergy.ChatClient {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, using static advice")
		return nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	if err != nil {
		logger.Error("failed to create chatgpt client, using static advice", "error", err)
		return nil
	}
	return client
}

// providePostgresPool returns a nil pool when postgres is not configured or unreachable.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	noop := func() {}
	dsn := strings.TrimSpace(cfg.Storage.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, noop
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, noop
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideLevelRepository(pool *pgxpool.Pool) allergy.LevelRepository {
	if pool == nil {
		return profilerepo.NewMemoryRepository()
	}
	return profilerepo.NewPostgresRepository(pool)
}

func provideForecastStore(cfg *config.Config, logger *slog.Logger) allergy.ForecastStore {
	fallback := func() allergy.ForecastStore {
		return forecaststore.NewMemoryStore(cfg.Forecast.CacheTTL, memoryStoreCleanup)
	}
	if !cfg.Storage.Valkey.Enabled {
		return fallback()
	}
	opt, err := buildValkeyOptions(cfg.Storage.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return fallback()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return fallback()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return fallback()
	}
	logger.Info("forecast valkey store enabled", "addr", cfg.Storage.Valkey.Addr)
	return forecaststore.NewValkeyStore(client, cfg.Storage.Valkey.Prefix)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// provideArchive returns nil when archiving is disabled.
func provideArchive(cfg *config.Config, logger *slog.Logger) allergy.Archive {
	a := cfg.Storage.Archive
	if !a.Enabled {
		return nil
	}
	store, err := archive.NewS3Archive(a.Endpoint, a.AccessKey, a.SecretKey, a.Bucket, a.Region, logger)
	if err != nil {
		logger.Error("failed to initialize s3 archive, keeping snapshots in memory", "error", err)
		return archive.NewMemoryArchive()
	}
	logger.Info("forecast archive enabled", "bucket", a.Bucket)
	return store
}

func provideAllergyDependencies(
	shifts allergy.ShiftClient,
	intensity allergy.IntensityClient,
	levels allergy.LevelRepository,
	store allergy.ForecastStore,
	snapshots allergy.Archive,
	chat allergy.ChatClient,
) allergy.Dependencies {
	return allergy.Dependencies{
		Shifts:    shifts,
		Intensity: intensity,
		Levels:    levels,
		Store:     store,
		Archive:   snapshots,
		Chat:      chat,
	}
}
