package container

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"interviewbuddy/adapters/excel"
	"interviewbuddy/adapters/filestore"
	"interviewbuddy/adapters/llm"
	"interviewbuddy/adapters/llm/heuristic"
	"interviewbuddy/adapters/postgres"
	"interviewbuddy/adapters/redisstore"
	"interviewbuddy/app"
	"interviewbuddy/internal/api"
	"interviewbuddy/internal/config"
	"interviewbuddy/internal/errors"
	"interviewbuddy/internal/migration"
	"interviewbuddy/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Log    *zap.Logger

	// Infrastructure
	DB    *sqlx.DB
	Redis *redis.Client
	LLM   ports.LLMClient

	// Repositories (data access layer)
	UserRepo     ports.UserRepository
	ReportRepo   ports.ReportRepository
	SessionStore ports.SessionStore
	Mirror       ports.QuestionMirror

	// Question and answer sources
	Bank      *heuristic.QuestionBank
	Questions ports.QuestionSource
	Evaluator ports.AnswerEvaluator

	// Application services
	Aggregator *app.ReportAggregator
	Interviews *app.InterviewService
	Reports    *app.ReportService
	Stats      *app.StatsService
	Auth       *app.AuthService
}

// New connects every backing service named by cfg and wires the application.
// Partially opened connections are closed when a later step fails.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg, Log: log}
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"database", c.initDatabase},
		{"redis", c.initRedis},
		{"repositories", c.initRepositories},
		{"llm", c.initLLM},
		{"services", c.initServices},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			c.Shutdown(context.Background())
			return nil, errors.Wrapf(err, "failed to initialize %s", step.name)
		}
	}

	log.Info("Container initialized",
		zap.String("report_store", cfg.Interview.ReportStore),
		zap.String("llm_provider", cfg.AI.Provider))
	return c, nil
}

// initDatabase opens postgres when a URL is configured and brings the schema up to date.
func (c *Container) initDatabase(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		return nil
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	c.DB = db

	if err := migration.NewRunner().WithLogger(c.Log).Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	client, err := redisstore.Connect(ctx, c.Config.Redis.URL)
	if err != nil {
		return err
	}
	c.Redis = client
	return nil
}

// initRepositories picks postgres or the data directory for users and reports.
func (c *Container) initRepositories(ctx context.Context) error {
	dataDir := c.Config.Interview.DataDir

	c.SessionStore = redisstore.NewSessionStore(c.Redis, c.Config.Redis.KeyPrefix, c.Config.Interview.SessionMaxAge, c.Log)
	mirror, err := filestore.NewQuestionMirror(filepath.Join(dataDir, "questions"), c.Log)
	if err != nil {
		return err
	}
	c.Mirror = mirror

	if c.Config.Interview.ReportStore == config.ReportStorePostgres {
		c.UserRepo = postgres.NewUserRepository(c.DB)
		c.ReportRepo = postgres.NewReportRepository(c.DB)
		return nil
	}

	reports, err := filestore.NewReportRepository(filepath.Join(dataDir, "reports"))
	if err != nil {
		return err
	}
	users, err := filestore.NewUserRepository(filepath.Join(dataDir, "users"))
	if err != nil {
		return err
	}
	c.ReportRepo = reports
	c.UserRepo = users
	return nil
}

// initLLM builds the configured provider client. Provider none leaves LLM nil
// and every question and evaluation comes from the heuristic tier.
func (c *Container) initLLM(ctx context.Context) error {
	client, err := llm.NewClient(ctx, LLMConfig(c.Config), c.Log)
	if err != nil {
		return errors.ExternalServiceError(c.Config.AI.Provider, err)
	}
	c.LLM = client
	return nil
}

func (c *Container) initServices(ctx context.Context) error {
	bank, err := heuristic.NewQuestionBank(nil)
	if err != nil {
		return err
	}
	c.Bank = bank
	c.Questions = llm.NewQuestionAdapter(c.LLM, bank, c.Log)
	c.Evaluator = llm.NewEvaluatorAdapter(c.LLM, c.Log)

	c.Aggregator = app.NewReportAggregator(c.Evaluator, c.ReportRepo, c.Config.Interview.EvaluationWorkers, c.Log)
	c.Interviews = app.NewInterviewService(c.SessionStore, c.Mirror, c.Questions, c.Aggregator, c.Log)
	c.Reports = app.NewReportService(c.ReportRepo, excel.NewReportExporter(), c.Log)
	c.Stats = app.NewStatsService(c.Reports)
	c.Auth = app.NewAuthService(c.UserRepo, c.Log)
	return nil
}

// Services returns the set the HTTP layer depends on.
func (c *Container) Services() api.Services {
	return api.Services{
		Auth:       c.Auth,
		Interviews: c.Interviews,
		Reports:    c.Reports,
		Stats:      c.Stats,
	}
}

// LLMConfig selects the provider settings for the resolved provider.
func LLMConfig(cfg *config.Config) llm.Config {
	out := llm.Config{
		Provider:    cfg.AI.Provider,
		Temperature: cfg.AI.Temperature,
		MaxTokens:   cfg.AI.MaxTokens,
		Timeout:     cfg.AI.Timeout,
	}
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		out.Model = cfg.AI.GeminiModel
		out.APIKey = cfg.AI.GeminiAPIKey
	case config.ProviderOpenAI:
		out.Model = cfg.AI.OpenAIModel
		out.APIKey = cfg.AI.OpenAIAPIKey
		out.BaseURL = cfg.AI.OpenAIBaseURL
	}
	return out
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	var firstErr error
	if closer, ok := c.LLM.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
