package main

import (
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/todmy/insight-engine/internal/analysis"
	"github.com/todmy/insight-engine/internal/api"
	"github.com/todmy/insight-engine/internal/auth"
	"github.com/todmy/insight-engine/internal/config"
	"github.com/todmy/insight-engine/internal/engine"
	"github.com/todmy/insight-engine/internal/innovation"
	"github.com/todmy/insight-engine/internal/logger"
	"github.com/todmy/insight-engine/internal/research"
	"github.com/todmy/insight-engine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New("insight-engine")

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	authService := auth.NewJWTService(auth.Config{
		SecretKey:     cfg.Auth.JWTSecret,
		TokenDuration: cfg.Auth.TokenTTL,
	}, auth.NewPostgresRepository(db))

	var sources []research.Source
	if cfg.Research.NewsAPIKey != "" {
		sources = append(sources, research.NewNewsAPISource(cfg.Research.NewsAPIKey))
	}
	sources = append(sources, research.NewArxivSource())
	for _, site := range cfg.Research.Sites {
		sources = append(sources, research.NewWebPageSource(site, http.DefaultClient))
	}

	collector := research.NewCollector(sources, research.CollectorConfig{
		PerSourceLimit: cfg.Research.PerSourceLimit,
		SourceTimeout:  cfg.Research.SourceTimeout,
		MaxJitter:      cfg.Research.MaxJitter,
	}, logg)

	analyzer := analysis.NewService(analysis.Config{
		MaxClusters:     cfg.Analysis.MaxClusters,
		TopTermCount:    cfg.Analysis.TopTermCount,
		KeywordsPerItem: cfg.Analysis.KeywordsPerItem,
		Quality: analysis.QualityConfig{
			TargetCorpusSize:   cfg.Analysis.TargetCorpusSize,
			TargetKeywordCount: cfg.Analysis.TargetKeywordCount,
			SizeWeight:         cfg.Analysis.Weights.Size,
			DiversityWeight:    cfg.Analysis.Weights.Diversity,
			ClusterWeight:      cfg.Analysis.Weights.Cluster,
		},
	}, logg)

	orchestrator := engine.NewOrchestrator(collector, analyzer, engine.Config{
		Threshold:        cfg.Engine.RefinementThreshold,
		MaxIterations:    cfg.Engine.MaxRefinementIterations,
		RefinementSuffix: cfg.Engine.RefinementSuffix,
	}, logg)

	var generator *innovation.Generator
	if cfg.Innovation.GeminiAPIKey != "" {
		genCfg := innovation.DefaultConfig()
		genCfg.APIKey = cfg.Innovation.GeminiAPIKey
		if cfg.Innovation.Model != "" {
			genCfg.Model = cfg.Innovation.Model
		}
		if cfg.Innovation.Endpoint != "" {
			genCfg.BaseURL = cfg.Innovation.Endpoint
		}
		generator = innovation.NewGenerator(genCfg)
	} else {
		logg.Warn("GEMINI_API_KEY not set, idea generation disabled")
	}

	server := api.NewServer(api.ServerConfig{
		DB:           db,
		AuthService:  authService,
		Orchestrator: orchestrator,
		Generator:    generator,
		Reports:      storage.NewPostgresReportRepository(db),
		Logger:       logg,
	})

	logg.Info("starting insight-engine server", "port", cfg.Server.Port)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
