package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/partsdesk/internal/catalog"
	"github.com/lehigh-university-libraries/partsdesk/internal/composer"
	"github.com/lehigh-university-libraries/partsdesk/internal/config"
	"github.com/lehigh-university-libraries/partsdesk/internal/metrics"
	"github.com/lehigh-university-libraries/partsdesk/internal/orchestrator"
	"github.com/lehigh-university-libraries/partsdesk/internal/retrieval"
	"github.com/lehigh-university-libraries/partsdesk/internal/semantic"
	"github.com/lehigh-university-libraries/partsdesk/internal/storage"
)

// app is the assembled pipeline shared by serve and chat.
type app struct {
	cfg          *config.AppConfig
	catalog      *catalog.Catalog
	orchestrator *orchestrator.Orchestrator
	index        *semantic.Index
}

func (a *app) Close() {
	if a.index == nil {
		return
	}
	if err := a.index.Close(); err != nil {
		slog.Warn("Unable to close semantic index", "err", err)
	}
}

func loadCatalog(ctx context.Context, cfg *config.AppConfig) (*catalog.Catalog, error) {
	newS3 := func(ctx context.Context, url string) (catalog.Source, error) {
		s3cfg := config.S3Config{Region: "us-east-1", AccessKeyIDEnv: "AWS_ACCESS_KEY_ID", SecretKeyEnv: "AWS_SECRET_ACCESS_KEY"}
		if cfg.Catalog.S3 != nil {
			s3cfg = *cfg.Catalog.S3
		}
		src, err := catalog.NewS3Source(ctx, url, s3cfg)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	cat, err := catalog.Load(ctx, catalog.Sources(ctx, cfg.Catalog.Dir, newS3)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	metrics.RecordCatalog(cat.Counts())
	return cat, nil
}

// buildApp loads the catalog and wires the pipeline. A semantic backend
// that cannot start leaves search keyword-only.
func buildApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, catalog: cat}
	var sem retrieval.Semantic
	index, err := semantic.FromConfig(cfg)
	switch {
	case err != nil:
		slog.Warn("Semantic search disabled", "err", err)
	case index == nil:
		slog.Info("Semantic search disabled by configuration")
	default:
		if _, err := index.Build(ctx, cat.All(), false); err != nil {
			slog.Warn("Semantic search disabled", "backend", index.Name(), "err", err)
			if cerr := index.Close(); cerr != nil {
				slog.Warn("Unable to close semantic index", "err", cerr)
			}
		} else {
			a.index = index
			sem = index
		}
	}

	engine := retrieval.NewEngine(cat, sem)
	comp := composer.FromConfig(cfg.Generator)
	a.orchestrator = orchestrator.New(engine, comp, storage.New())

	slog.Info("Pipeline ready",
		"parts", cat.Len(),
		"semantic", engine.SemanticBackend(),
		"generator", comp.Backend())
	return a, nil
}
