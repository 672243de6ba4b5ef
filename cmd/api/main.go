package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"suraksha-api/internal/api"
	"suraksha-api/internal/api/handlers"
	"suraksha-api/internal/config"
	"suraksha-api/internal/domain/services/ai"
	"suraksha-api/internal/domain/services/alert"
	"suraksha-api/internal/domain/services/auth"
	"suraksha-api/internal/domain/services/detection"
	"suraksha-api/internal/domain/services/ingest"
	"suraksha-api/internal/domain/services/report"
	"suraksha-api/internal/infrastructure/cache"
	"suraksha-api/internal/infrastructure/database"
	"suraksha-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Suraksha API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Incident audit store (if database available)
	var incidents *database.IncidentStore
	if db != nil {
		incidents = database.NewIncidentStore(db.Pool(), log)
		log.Info().Msg("incident store initialized with database")
	} else {
		log.Warn().Msg("running without database - incident audit trail disabled")
	}

	// AI clients
	classifier := ai.NewZeroShotClassifier(ai.ClassifierConfig{
		APIURL:   cfg.Classifier.APIURL,
		APIToken: cfg.Classifier.APIToken,
		Timeout:  cfg.Classifier.Timeout,
	}, log)

	llm := ai.NewLLMClient(ai.LLMConfig{
		APIURL:  cfg.LLM.APIURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, log)

	analyst := ai.NewRiskAnalyst(llm, log)
	safetyChat := ai.NewSafetyChat(llm, log)

	// Fusion engine
	rules := detection.NewRuleMatcher()
	var verdictCache detection.VerdictCache
	if redisCache != nil && cfg.Detection.CacheEnabled {
		verdictCache = redisCache
	}
	engine := detection.NewEngine(rules, classifier, analyst, verdictCache, detection.Config{
		RuleConfidenceFloor: cfg.Detection.RuleConfidenceFloor,
		HighThreshold:       cfg.Detection.HighThreshold,
		MediumThreshold:     cfg.Detection.MediumThreshold,
	}, log)

	// Ingestion clients
	ocrClient := ingest.NewOCRClient(ingest.OCRConfig{
		Endpoint: cfg.OCR.Endpoint,
		Timeout:  cfg.OCR.Timeout,
	}, log)

	transcriber := ingest.NewTranscriber(ingest.SpeechConfig{
		Provider:        cfg.Speech.Provider,
		OpenAIAPIKey:    cfg.Speech.OpenAIAPIKey,
		WhisperEndpoint: cfg.Speech.WhisperEndpoint,
		Timeout:         cfg.Speech.Timeout,
	}, log)

	// Report generator
	var reportRecorder report.IncidentRecorder
	if incidents != nil {
		reportRecorder = incidents
	}
	reportGen := report.NewGenerator(llm, reportRecorder, log)

	// Alert dispatcher
	var smsSender alert.SMSSender
	if cfg.Alert.AccountSID != "" && cfg.Alert.AuthToken != "" {
		smsSender = alert.NewTwilioSender(cfg.Alert.AccountSID, cfg.Alert.AuthToken, cfg.Alert.FromNumber, log)
		log.Info().Msg("Twilio SMS sender initialized")
	} else {
		smsSender = alert.NewNoopSender(log)
		log.Warn().Msg("Twilio credentials missing - alerts will be logged, not sent")
	}
	var alertRecorder alert.DispatchRecorder
	if incidents != nil {
		alertRecorder = incidents
	}
	dispatcher := alert.NewDispatcher(smsSender, alertRecorder, cfg.Alert.CybercellNumber, log)

	// Auth verifier
	var verifier auth.Verifier
	if cfg.Auth.SupabaseURL != "" {
		verifier = auth.NewSupabaseVerifier(cfg.Auth.SupabaseURL, cfg.Auth.SupabaseKey, log)
	} else {
		verifier = auth.NewDemoVerifier(log)
		log.Warn().Msg("Supabase not configured - using demo verifier")
	}

	// Initialize handlers
	deps := handlers.Dependencies{
		Engine:      engine,
		Rules:       rules,
		OCR:         ocrClient,
		Transcriber: transcriber,
		ReportGen:   reportGen,
		Dispatcher:  dispatcher,
		Verifier:    verifier,
		SafetyChat:  safetyChat,
		Cache:       redisCache,
		DB:          db,
		Version:     cfg.App.Version,
		Logger:      log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure connects to Postgres and Redis. Both are optional;
// the API degrades (no audit trail, no caching, no rate limiting) rather
// than refusing to start.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	var db *database.PostgresDB
	if cfg.Database.Enabled {
		var err error
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
			db = nil
		} else {
			log.Info().Str("host", cfg.Database.Host).Msg("connected to PostgreSQL")
		}
	}

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		var err error
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, cfg.Detection.CacheTTL, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		} else {
			log.Info().Str("addr", cfg.Redis.Addr()).Msg("connected to Redis")
		}
	}

	return db, redisCache
}
