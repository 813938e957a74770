package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "interview-backend/internal/auth"
	"interview-backend/internal/feedback"
	"interview-backend/internal/interviews"
	"interview-backend/internal/llm"
	openai "interview-backend/internal/llm/openai"
	"interview-backend/internal/queue"
	"interview-backend/internal/services/health"
	"interview-backend/internal/shared/clock"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/server"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/storage/db"
	"interview-backend/internal/shared/storage/object"
	localstore "interview-backend/internal/shared/storage/object/local"
	s3store "interview-backend/internal/shared/storage/object/s3"
	"interview-backend/internal/users"
)

const defaultOpenAIModel = "gpt-4o-mini"

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Queue             queue.Client
	LLM               llm.Provider
	Clock             clock.Clock
	InterviewsRepo    interviews.Repo
	FeedbackRepo      feedback.Repo
	UsersRepo         users.Repo
	InterviewsService *interviews.Service
	FeedbackService   *feedback.Service
	UsersService      *users.Service
	InterviewHandler  *interviews.Handler
	FeedbackHandler   *feedback.Handler
	UsersHandler      *users.Handler
	GoogleAuth        *googleauth.GoogleService
	Health            *health.Service
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(context.Background(), cfg, db.DefaultServerOptions())
}

// BuildWith is Build with an explicit context and pool options. Workers use a
// smaller pool than the API.
func BuildWith(ctx context.Context, cfg config.Config, poolOpts db.Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg, poolOpts)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	provider, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    provider,
		Clock:  clock.System{},
		Health: health.NewService(sqlDB),
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           app.Health,
		InterviewHandler: app.InterviewHandler,
		FeedbackHandler:  app.FeedbackHandler,
		UserHandler:      app.UsersHandler,
		GoogleAuth:       app.GoogleAuth,
		RateLimiter:      middleware.NewRateLimiter(app.Clock),
	})

	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config, poolOpts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(poolOpts))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "openai":
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && isDevLike(cfg.Env) {
			log.Printf("bootstrap: OPENAI_API_KEY empty; question generation disabled")
			return llm.PlaceholderClient{}, nil
		}
		prompts, err := llm.DefaultPrompts()
		if err != nil {
			return nil, fmt.Errorf("load prompts: %w", err)
		}
		model := strings.TrimSpace(cfg.LLMModel)
		if model == "" {
			model = defaultOpenAIModel
		}
		client, err := openai.NewClient(cfg.OpenAIAPIKey, model, prompts)
		if err != nil {
			return nil, err
		}
		return llm.WithRetry(client), nil
	case "", "none", "placeholder":
		return llm.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// buildQueue returns an SQS client when a queue URL is configured and an
// in-process queue that calls handle otherwise.
func buildQueue(ctx context.Context, cfg config.Config, handle queue.Handler) (queue.Client, error) {
	if strings.TrimSpace(cfg.FeedbackQueueURL) == "" {
		log.Printf("bootstrap: %s empty; scoring feedback in-process", queue.QueueURLEnv)
		return &queue.InProcess{Handle: handle}, nil
	}
	return queue.NewSQSClient(ctx, cfg.FeedbackQueueURL, cfg.AWSRegion)
}

func buildServices(ctx context.Context, app *App) error {
	if app.DB != nil {
		app.InterviewsRepo = &interviews.PGRepo{DB: app.DB}
		app.FeedbackRepo = &feedback.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.InterviewsRepo = interviews.NewMemoryRepo()
		app.FeedbackRepo = feedback.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	app.FeedbackService = &feedback.Service{
		Repo:       app.FeedbackRepo,
		Interviews: app.InterviewsRepo,
		Store:      app.Store,
		Scorer:     app.LLM,
		Clock:      app.Clock,
	}

	queueClient, err := buildQueue(ctx, app.Config, app.FeedbackService.HandleMessage)
	if err != nil {
		return err
	}
	app.Queue = queueClient

	app.InterviewsService = &interviews.Service{
		Repo:      app.InterviewsRepo,
		Generator: app.LLM,
		Feedback:  feedback.Index{Repo: app.FeedbackRepo},
		Store:     app.Store,
		Queue:     app.Queue,
		Clock:     app.Clock,
		Builder:   interviews.RequestBuilder{Location: app.Config.Location()},
	}
	app.UsersService = users.NewService(app.UsersRepo)

	app.InterviewHandler = interviews.NewHandler(app.InterviewsService)
	app.FeedbackHandler = feedback.NewHandler(app.FeedbackService)
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
