package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/resumatch/internal/ai/llm"
	"github.com/Abraxas-365/resumatch/internal/ai/vision"
	"github.com/Abraxas-365/resumatch/internal/config"
	"github.com/Abraxas-365/resumatch/internal/events"
	"github.com/Abraxas-365/resumatch/internal/migrations"
	"github.com/Abraxas-365/resumatch/internal/pdf"
	"github.com/Abraxas-365/resumatch/matching/analysis"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysisapi"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysisinfra"
	"github.com/Abraxas-365/resumatch/matching/analysis/analysissrv"
	"github.com/Abraxas-365/resumatch/matching/ingestion"
	"github.com/Abraxas-365/resumatch/matching/ingestion/ingestionapi"
	"github.com/Abraxas-365/resumatch/matching/ingestion/ingestionsrv"
	"github.com/Abraxas-365/resumatch/matching/user"
	"github.com/Abraxas-365/resumatch/matching/user/userauth"
	"github.com/Abraxas-365/resumatch/matching/user/userinfra"
	"github.com/Abraxas-365/resumatch/pkg/fsx"
	"github.com/Abraxas-365/resumatch/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/resumatch/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/resumatch/pkg/logx"
	"github.com/Abraxas-365/resumatch/pkg/retryx"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Mongo      *mongo.Client
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	Events     *events.AMQPPublisher

	// Ports
	UserRepo  user.Repository
	Workspace analysis.Workspace
	Model     llm.Provider
	Publisher analysis.Publisher

	// Services
	AuthService      *userauth.AuthService
	AnalysisService  *analysissrv.AnalysisService
	IngestionService *ingestionsrv.IngestionService

	// API Handlers
	AuthHandlers      *userauth.Handlers
	AnalysisHandlers  *analysisapi.Handlers
	IngestionHandlers *ingestionapi.Handlers

	// Middleware
	AuthMiddleware fiber.Handler
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Document store
	switch c.Config.Store.Driver {
	case config.StorePostgres:
		db, err := sqlx.Connect("postgres", c.Config.Store.DatabaseURL)
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		c.DB = db

		if c.Config.Store.AutoMigrate {
			if err := migrations.Up(ctx, db.DB); err != nil {
				logx.Fatalf("Failed to run migrations: %v", err)
			}
		}

	case config.StoreMongo:
		client, err := userinfra.ConnectMongo(ctx, c.Config.Store.MongoURI)
		if err != nil {
			logx.Fatalf("Failed to connect to mongo: %v", err)
		}
		c.Mongo = client

	default:
		logx.Warn("STORE_DRIVER=memory, accounts and analyses are lost on restart")
	}

	// 2. Redis workspace
	if c.Config.Redis.Addr != "" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(ctx).Result(); err != nil {
			logx.Warnf("Failed to connect to Redis: %v", err)
		}
	}

	// 3. Original upload storage
	c.FileSystem = c.newFileSystem(ctx)

	// 4. Event broker
	if c.Config.Events.AMQPURL != "" {
		pub, err := events.Dial(c.Config.Events.AMQPURL, c.Config.Events.Exchange)
		if err != nil {
			logx.Warnf("Failed to connect to AMQP, events disabled: %v", err)
		} else {
			c.Events = pub
		}
	}
}

func (c *Container) newFileSystem(ctx context.Context) fsx.FileSystem {
	st := c.Config.Storage
	if st.AWSBucket != "" {
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(st.AWSRegion)}
		if st.AWSKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(st.AWSKey, st.AWSSecret, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if st.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(st.S3Endpoint)
				o.UsePathStyle = true
			}
		})
		return fsxs3.NewS3FileSystem(client, st.AWSBucket, st.Prefix)
	}

	if st.LocalDir == "" {
		return nil
	}
	local, err := fsxlocal.NewLocalFileSystem(st.LocalDir)
	if err != nil {
		logx.Warnf("Upload storage disabled: %v", err)
		return nil
	}
	return local
}

func (c *Container) initRepositories() {
	switch {
	case c.DB != nil:
		c.UserRepo = userinfra.NewPostgresUserRepository(c.DB)
	case c.Mongo != nil:
		repo := userinfra.NewMongoUserRepository(c.Mongo.Database(c.Config.Store.MongoDatabase))
		if err := repo.EnsureIndexes(context.Background()); err != nil {
			logx.Fatalf("Failed to create mongo indexes: %v", err)
		}
		c.UserRepo = repo
	default:
		c.UserRepo = userinfra.NewMemoryUserRepository()
	}

	if c.Redis != nil {
		c.Workspace = analysisinfra.NewRedisWorkspace(c.Redis, c.Config.Redis.WorkspaceTTL)
	} else {
		c.Workspace = analysisinfra.NewMemoryWorkspace()
	}

	if c.Events != nil {
		c.Publisher = c.Events
	} else {
		c.Publisher = events.Noop{}
	}
}

func (c *Container) initServices() {
	cfg := c.Config

	// --- Model ---
	c.Model = c.newModel()

	// --- Auth ---
	tokens := userauth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	passwords := userauth.NewBcryptPasswordService(cfg.Auth.BcryptCost)
	c.AuthService = userauth.NewAuthService(c.UserRepo, passwords, tokens)

	// --- Analysis ---
	var curator *analysissrv.Curator
	if cfg.Curation.ValidateVideos {
		prober := analysisinfra.NewOEmbedProber(cfg.Curation.OEmbedEndpoint, 10*time.Second)
		curator = analysissrv.NewCurator(c.Model, prober, retryx.Policy{
			MaxRetries: cfg.Curation.MaxRetries,
			Delay:      cfg.Curation.RetryDelay,
		})
	}
	c.AnalysisService = analysissrv.NewAnalysisService(c.UserRepo, c.Workspace, c.Model, c.Publisher, curator)

	// --- Ingestion ---
	var pdfExtractor ingestion.Extractor = pdf.NewNativeExtractor()
	if cfg.Upload.PDFBackend == config.PDFBackendFitz {
		pdfExtractor = pdf.NewFitzExtractor()
	}
	var docxExtractor ingestion.Extractor
	if cfg.Upload.AllowDOCX {
		docxExtractor = pdf.NewDOCXExtractor()
	}
	var transcriber ingestion.PageTranscriber
	if cfg.Upload.OCRFallback {
		if cfg.LLM.OpenAIAPIKey == "" {
			logx.Warn("OCR_FALLBACK needs OPENAI_API_KEY, scanned PDFs will extract as empty text")
		} else {
			transcriber = vision.NewTranscriber(cfg.LLM.OpenAIAPIKey, cfg.LLM.VisionModel)
		}
	}
	policy := ingestion.Policy{MaxBytes: cfg.Upload.MaxBytes, AllowDOCX: cfg.Upload.AllowDOCX}
	c.IngestionService = ingestionsrv.NewIngestionService(policy, pdfExtractor, docxExtractor, c.AnalysisService, c.FileSystem, transcriber)

	// --- Handlers ---
	c.AuthHandlers = userauth.NewHandlers(c.AuthService)
	c.AnalysisHandlers = analysisapi.NewHandlers(c.AnalysisService)
	c.IngestionHandlers = ingestionapi.NewHandlers(c.IngestionService)

	// --- Middleware ---
	c.AuthMiddleware = userauth.Middleware(c.AuthService)
}

func (c *Container) newModel() llm.Provider {
	cfg := c.Config.LLM
	key := c.Config.LLMAPIKey()
	if key == "" {
		logx.Warnf("No API key for LLM_PROVIDER=%s, analysis requests will fail", cfg.Provider)
	}

	var provider llm.Provider
	switch cfg.Provider {
	case config.ProviderGemini:
		p, err := llm.NewGeminiProvider(context.Background(), key, cfg.Model)
		if err != nil {
			logx.Fatalf("Failed to create gemini client: %v", err)
		}
		provider = p
	default:
		provider = llm.NewOpenAIProvider(key, cfg.Model)
	}

	logx.Infof("Using model %s", provider.Name())
	return llm.WithTimeout(provider, cfg.Timeout)
}

// DatabaseConnected reports whether the configured store answers a ping
func (c *Container) DatabaseConnected(ctx context.Context) bool {
	switch {
	case c.DB != nil:
		return c.DB.PingContext(ctx) == nil
	case c.Mongo != nil:
		return c.Mongo.Ping(ctx, nil) == nil
	}
	return true
}

// Close releases every connection the container opened
func (c *Container) Close() {
	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			logx.Warnf("Failed to close AMQP connection: %v", err)
		}
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Mongo != nil {
		_ = c.Mongo.Disconnect(context.Background())
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
