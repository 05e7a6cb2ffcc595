package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/synapse-srs/synapse-api/internal/config"
	"github.com/synapse-srs/synapse-api/internal/domain/srs"
	"github.com/synapse-srs/synapse-api/internal/generation"
	"github.com/synapse-srs/synapse-api/internal/platform/gemini"
	"github.com/synapse-srs/synapse-api/internal/platform/postgres"
	"github.com/synapse-srs/synapse-api/internal/service"
	"github.com/synapse-srs/synapse-api/internal/service/auth"
	"github.com/synapse-srs/synapse-api/internal/store"
)

// application holds the shared dependencies of the server so they can be
// wired once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	jwtService auth.JWTService

	cardService     service.CardService
	noteService     service.NoteService
	relationService service.RelationService
	reviewService   service.ReviewHistoryService
	userService     service.UserService
}

// newApplication builds stores and services on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{config: cfg, logger: log, db: db}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes))

	revocations, err := app.setupRevocations(ctx)
	if err != nil {
		return nil, err
	}

	generator, err := setupGenerator(ctx, cfg.LLM, log)
	if err != nil {
		return nil, err
	}

	users := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost)
	notes := postgres.NewPostgresNoteStore(db, log)
	cards := postgres.NewPostgresCardStore(db, log)
	reviews := postgres.NewPostgresReviewStore(db, log)
	relations := postgres.NewPostgresRelationStore(db, log)
	tx := store.NewSQLTransactor(db)

	app.cardService, err = service.NewCardService(service.CardServiceDeps{
		Transactor:        tx,
		Cards:             cards,
		Notes:             notes,
		Reviews:           reviews,
		Scheduler:         srs.NewDefaultService(),
		Generator:         generator,
		MaxGeneratedCards: cfg.LLM.MaxCards,
		Logger:            log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.noteService, err = service.NewNoteService(notes, cards, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create note service: %w", err)
	}

	app.relationService, err = service.NewRelationService(tx, relations, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create relation service: %w", err)
	}

	app.reviewService, err = service.NewReviewHistoryService(reviews, cards, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create review history service: %w", err)
	}

	app.userService, err = service.NewUserService(service.UserServiceDeps{
		Users:       users,
		Tokens:      app.jwtService,
		Verifier:    auth.NewBcryptVerifier(cfg.Auth.BCryptCost),
		Revocations: revocations,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	return app, nil
}

// setupRevocations connects to Redis when it is configured. Without Redis,
// logout cannot invalidate refresh tokens before they expire.
func (app *application) setupRevocations(ctx context.Context) (auth.RevocationList, error) {
	if !app.config.Redis.Enabled() {
		app.logger.Info("redis not configured, refresh token revocation disabled")
		return auth.NoopRevocationList{}, nil
	}

	client, err := auth.DialRedis(ctx, app.config.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = client
	app.logger.Info("refresh token revocation backed by redis")
	return auth.NewRedisRevocationList(client), nil
}

// setupGenerator creates the Gemini card generator, or a stub that reports
// generation as unavailable when no API key is configured.
func setupGenerator(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (generation.Generator, error) {
	if !cfg.Enabled() {
		log.Info("gemini API key not set, card generation disabled")
		return generation.Unavailable{}, nil
	}

	generator, err := gemini.NewGeminiGenerator(ctx, log.With(slog.String("component", "llm_generator")), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	log.Info("LLM generator initialized", slog.String("model", cfg.ModelName))
	return generator, nil
}

// cleanup releases connections owned by the application. The database is
// closed by its opener.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}
}
