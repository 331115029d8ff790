package app

import (
	"context"

	"go.uber.org/zap"

	"custodyx/internal/ai"
	"custodyx/internal/store"
	"custodyx/internal/types"
)

// AIClient is the session's view of the AI gateway. It exists so the TUI and
// tests depend on behavior, not on the Gemini client; *ai.Gateway satisfies
// it.
type AIClient interface {
	ChatResponse(ctx context.Context, messages []types.ChatMessage, profile *types.UserProfile) (string, error)
	GenerateReport(ctx context.Context, messages []types.ChatMessage, profile *types.UserProfile) (types.GeneratedReportData, error)
	ThemeAnalysis(ctx context.Context, reports []types.Report, category types.IncidentCategory) ([]types.Theme, error)
	IncidentAnalysis(ctx context.Context, main types.Report, all []types.Report, profile *types.UserProfile) (ai.Analysis, error)
	AssistantReply(ctx context.Context, reports []types.Report, documents []types.StoredDocument, query string, profile *types.UserProfile, analysisContext string) (ai.AssistantReply, error)
	InitialLegalAnalysis(ctx context.Context, main types.Report, all []types.Report, profile *types.UserProfile) (ai.AssistantReply, error)
	AnalyzeDocument(ctx context.Context, doc types.StoredDocument, profile *types.UserProfile) (string, error)
	RedraftDocument(ctx context.Context, doc types.StoredDocument, analysis string, profile *types.UserProfile) (string, error)
	EvidencePackage(ctx context.Context, reports []types.Report, documents []types.StoredDocument, profile *types.UserProfile) (string, error)
}

// Application wires the store, the AI client and the session controller.
// Everything is passed explicitly; there are no package-level singletons.
type Application struct {
	Config  Config
	Log     *zap.Logger
	Store   store.Store
	AI      AIClient
	Session *Session
}

// New builds the application. SQLite is the primary store; when it cannot be
// opened the JSON file store takes over so the app still works. Without an
// API key the offline AI client answers instead of the Gemini gateway.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Application, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = store.DefaultDataRoot()
	}

	var st store.Store
	sqlite, err := store.NewSQLiteStore(dataDir)
	if err != nil {
		log.Error("sqlite unavailable, falling back to file store",
			zap.String("data_dir", dataDir),
			zap.Error(err),
		)
		st = store.NewFileStore(dataDir)
	} else {
		st = sqlite
	}

	var client AIClient
	if cfg.GeminiAPIKey == "" {
		log.Warn("no Gemini API key configured, AI features run offline")
		client = NewOfflineAI()
	} else {
		gateway, err := ai.NewGateway(ctx, cfg.GeminiAPIKey, cfg.Model, log)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		client = gateway
	}

	session := NewSession(st, cfg.SubscriptionTier(), log)
	session.Load(ctx)

	return &Application{
		Config:  cfg,
		Log:     log,
		Store:   st,
		AI:      client,
		Session: session,
	}, nil
}

func (a *Application) Close() error {
	return a.Store.Close()
}
