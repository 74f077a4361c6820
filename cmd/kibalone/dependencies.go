package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Nyukimin/kibalone_studio/internal/adapter/config"
	"github.com/Nyukimin/kibalone_studio/internal/adapter/httpapi"
	"github.com/Nyukimin/kibalone_studio/internal/adapter/logging"
	"github.com/Nyukimin/kibalone_studio/internal/application/orchestrator"
	"github.com/Nyukimin/kibalone_studio/internal/domain/plan"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/executor"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/health"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/planner"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/routing"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/tools"
)

// Dependencies はアプリケーション依存関係
type Dependencies struct {
	config  *config.Config
	logger  zerolog.Logger
	service *orchestrator.Service
	handler http.Handler
}

// loadDependencies は設定を読み込んで依存関係を構築
func loadDependencies(flagPath string, logOut io.Writer) (*Dependencies, error) {
	cfg, err := config.LoadConfig(config.ResolvePath(flagPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return buildDependencies(cfg, logOut)
}

// buildDependencies は依存関係を構築
func buildDependencies(cfg *config.Config, logOut io.Writer) (*Dependencies, error) {
	// 1. Logger
	logger, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	// 2. Tool Registry
	registry, err := tools.NewCatalog(tools.ServiceEndpoints{
		Blender: cfg.Services.Blender,
		ThreeJS: cfg.Services.ThreeJS,
		MiDaS:   cfg.Services.MiDaS,
		TripoSR: cfg.Services.TripoSR,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	// 3. Classifier / Planner / Executor
	// 計画の依存解決とstrictモードのスキップ判定は同じ依存表を使う
	rules := plan.DefaultRules()
	classifier := routing.NewPatternClassifier()
	builder := planner.NewBuilder(registry).WithRules(rules)
	exec := executor.NewHTTPExecutor(cfg.Executor.BaseURL, registry, logger).WithRules(rules)

	// 4. Application Service
	service := orchestrator.NewService(classifier, builder, exec, registry, cfg.ExecutionMode(), logger)

	// 5. Service Health Checks
	checker := health.NewChecker(
		health.Check{Name: "blender", Fn: health.ServiceCheck(cfg.Services.Blender, health.DefaultTimeout)},
		health.Check{Name: "threejs", Fn: health.ServiceCheck(cfg.Services.ThreeJS, health.DefaultTimeout)},
		health.Check{Name: "midas", Fn: health.ServiceCheck(cfg.Services.MiDaS, health.DefaultTimeout)},
		health.Check{Name: "triposr", Fn: health.ServiceCheck(cfg.Services.TripoSR, health.DefaultTimeout)},
	)

	// 6. Adapter (HTTP Handler)
	handler := httpapi.NewHandler(service, logger).WithServiceChecks(checker)

	mainLogger := logging.Component(logger, "main")
	mainLogger.Debug().Int("tools", registry.Len()).Msg("dependency injection complete")

	return &Dependencies{
		config:  cfg,
		logger:  mainLogger,
		service: service,
		handler: handler,
	}, nil
}
