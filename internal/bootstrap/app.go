package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"docmind/internal/ai"
	"docmind/internal/app"
	"docmind/internal/config"
	"docmind/internal/repository"
	"docmind/internal/vectorstore/chroma"
)

// App wires the services together once at startup; handlers receive
// references explicitly instead of reaching for globals.
type App struct {
	Config      *config.Config
	VectorStore *chroma.Store
	Repo        *repository.DocumentRepository
	Ingest      *app.IngestService
	Query       *app.QueryService

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	store := chroma.New(chroma.Config{
		BaseURL:    cfg.Chroma.BaseURL,
		Collection: cfg.Chroma.Collection,
		Timeout:    time.Duration(cfg.Chroma.TimeoutSeconds) * time.Second,
	})
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("init vector store failed: %w", err)
	}

	prompt, err := app.LoadPromptTemplate(cfg.Query.PromptTemplate)
	if err != nil {
		return nil, err
	}

	gemini := ai.NewGeminiClient(ai.GeminiConfig{
		BaseURL:        cfg.Gemini.BaseURL,
		APIKey:         cfg.Gemini.APIKey,
		Model:          cfg.Gemini.Model,
		EmbeddingModel: cfg.Gemini.EmbeddingModel,
	})

	repo := repository.NewDocumentRepository(cfg.App.DataDir)
	ingest := app.NewIngestService(repo, store, gemini, cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	query := app.NewQueryService(store, gemini, gemini, prompt, cfg.Query.DefaultTopK)

	// Best effort: drop chunks a failed past ingestion left behind.
	if swept, err := ingest.ReconcileOrphans(ctx); err != nil {
		log.Printf("bootstrap: orphan chunk sweep failed: %v", err)
	} else if swept > 0 {
		log.Printf("bootstrap: swept orphan chunks of %d documents", swept)
	}

	return &App{
		Config:      cfg,
		VectorStore: store,
		Repo:        repo,
		Ingest:      ingest,
		Query:       query,
		StartedAt:   time.Now(),
	}, nil
}
