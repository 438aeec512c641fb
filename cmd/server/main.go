package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/ai"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/chatbot"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/claimform"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/config"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/email"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/faq"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/rag"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/repository"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/server"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/internal/storage"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/pkg/database"
	"github.com/Ryy05/Employee-Assistant-Chatbot-Widget/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present; real environment wins over file values
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting HR Policy Assistant",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories and seed data
	employeeRepo := repository.NewEmployeeRepository(db.DB, logger)
	faqRepo := repository.NewFAQRepository(db.DB, logger)
	requestRepo := repository.NewRequestRepository(db.DB, logger)

	ctx := context.Background()
	importer := repository.NewImporter(employeeRepo, faqRepo, logger)
	if err := importer.ImportEmployees(ctx, cfg.Database.EmployeeSeed); err != nil {
		logger.Fatal("Failed to seed employee directory", zap.Error(err))
	}
	if err := importer.ImportFAQ(ctx, cfg.Database.FAQSeed); err != nil {
		logger.Fatal("Failed to seed FAQ corpus", zap.Error(err))
	}

	// LLM and embedding client. A missing API key already failed
	// configuration validation above.
	aiClient, err := ai.NewClient(ai.ClientConfig{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		ChatModel:      cfg.OpenAI.ChatModel,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		Temperature:    cfg.OpenAI.Temperature,
		MaxTokens:      cfg.OpenAI.MaxTokens,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}

	// FAQ matcher
	faqEntries, err := faqRepo.ListAll(ctx)
	if err != nil {
		logger.Fatal("Failed to load FAQ corpus", zap.Error(err))
	}

	warmCtx, cancelWarm := context.WithTimeout(ctx, cfg.OpenAI.Timeout)
	defer cancelWarm()

	matcher := faq.NewMatcher(aiClient, faqEntries, cfg.Chat.FAQThreshold, logger)
	if err := matcher.Warm(warmCtx); err != nil {
		// Matcher degrades to pass-through; retrieval still answers.
		logger.Warn("FAQ matcher warm-up failed, continuing without short-circuit", zap.Error(err))
	}

	// Policy retrieval engine
	loader := rag.NewCorpusLoader(cfg.Retrieval.MaxChunkSize, logger)
	chunks, err := loader.Load(cfg.Retrieval.CorpusDir)
	if err != nil {
		logger.Fatal("Failed to load policy corpus", zap.Error(err))
	}

	index := rag.NewIndex(aiClient, logger)
	if err := index.Build(ctx, chunks); err != nil {
		logger.Fatal("Failed to build retrieval index", zap.Error(err))
	}

	engine := rag.NewEngine(index, aiClient, cfg.Retrieval.TopK, logger)

	// Notification dispatcher
	sender := email.NewSender(email.Config{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		FromAddress: cfg.SMTP.FromAddress,
	}, logger)

	// Expense claim forms and receipt uploads
	formGenerator, err := claimform.NewGenerator(cfg.Storage.OutputDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize claim form generator", zap.Error(err))
	}

	uploads, err := storage.NewLocalFileStorage(cfg.Storage.UploadDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	// Conversation task router
	router := chatbot.NewRouter(
		chatbot.NewStore(),
		employeeRepo,
		sender,
		matcher,
		engine,
		formGenerator,
		requestRepo,
		cfg.SMTP.HREmail,
		cfg.SMTP.FinanceEmail,
		logger,
	)

	// HTTP server
	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engineHTTP := gin.New()
	engineHTTP.Use(gin.Recovery())
	engineHTTP.Use(loggingMiddleware(logger))
	engineHTTP.Use(corsMiddleware())

	handler := server.NewHandler(router, engine, uploads, cfg.Chat.DefaultSession, logger)
	handler.RegisterRoutes(engineHTTP)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engineHTTP,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers for the chat widget frontend
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
