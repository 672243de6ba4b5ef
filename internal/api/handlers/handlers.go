package handlers

import (
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

// Handlers holds all API handlers
type Handlers struct {
	Health  *HealthHandler
	Analyze *AnalyzeHandler
	Report  *ReportHandler
	Alert   *AlertHandler
	Chat    *ChatHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Engine      *detection.Engine
	Rules       *detection.RuleMatcher
	OCR         *ingest.OCRClient
	Transcriber *ingest.Transcriber
	ReportGen   *report.Generator
	Dispatcher  *alert.Dispatcher
	Verifier    auth.Verifier
	SafetyChat  *ai.SafetyChat
	Cache       *cache.RedisCache
	DB          *database.PostgresDB
	Version     string
	Logger      *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Cache, deps.DB, deps.Version, deps.Logger),
		Analyze: NewAnalyzeHandler(deps.Engine, deps.Rules, deps.OCR, deps.Transcriber, deps.Logger),
		Report:  NewReportHandler(deps.ReportGen, deps.Logger),
		Alert:   NewAlertHandler(deps.Dispatcher, deps.Verifier, deps.Logger),
		Chat:    NewChatHandler(deps.SafetyChat, deps.Logger),
	}
}
