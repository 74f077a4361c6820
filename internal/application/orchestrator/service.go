// Package orchestrator はプロンプトの分類・計画・実行を統括するアプリケーションサービス
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Nyukimin/kibalone_studio/internal/domain/execution"
	"github.com/Nyukimin/kibalone_studio/internal/domain/plan"
	"github.com/Nyukimin/kibalone_studio/internal/domain/routing"
	"github.com/Nyukimin/kibalone_studio/internal/domain/task"
	"github.com/Nyukimin/kibalone_studio/internal/domain/tool"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/metrics"
)

// ErrEmptyPrompt は空または空白のみのプロンプト
var ErrEmptyPrompt = errors.New("prompt is empty")

// Classifier はプロンプトのルート判定
type Classifier interface {
	Classify(prompt string) routing.Classification
}

// PlanBuilder はプロンプトから計画を組み立てる
type PlanBuilder interface {
	BuildPlan(prompt string) (plan.Plan, error)
}

// Executor は計画を実行する
type Executor interface {
	Execute(ctx context.Context, p plan.Plan, opts execution.Options) execution.Report
}

// ToolCatalog はツール一覧を提供する
type ToolCatalog interface {
	List() []tool.Definition
}

// Service はオーケストレーションの入口
// 依存は起動時に一度だけ注入され、リクエスト間で共有するのは読み取り専用の状態のみ
type Service struct {
	classifier  Classifier
	builder     PlanBuilder
	executor    Executor
	catalog     ToolCatalog
	defaultMode execution.Mode
	logger      zerolog.Logger
	newJobID    func() task.JobID
}

// NewService は新しいServiceを作成
func NewService(
	classifier Classifier,
	builder PlanBuilder,
	executor Executor,
	catalog ToolCatalog,
	defaultMode execution.Mode,
	logger zerolog.Logger,
) *Service {
	if defaultMode == "" {
		defaultMode = execution.ModeBestEffort
	}
	return &Service{
		classifier:  classifier,
		builder:     builder,
		executor:    executor,
		catalog:     catalog,
		defaultMode: defaultMode,
		logger:      logger.With().Str("component", "orchestrator").Logger(),
		newJobID:    task.NewJobID,
	}
}

// Orchestrate はプロンプトを計画に変換し、指定があれば実行する
func (s *Service) Orchestrate(ctx context.Context, req OrchestrateRequest) (OrchestrateResponse, error) {
	t := task.NewTask(s.newJobID(), req.Prompt, req.Source).WithRoute(routing.RouteOrchestrated)
	if t.IsBlank() {
		return OrchestrateResponse{}, ErrEmptyPrompt
	}
	return s.orchestrate(ctx, t, req.Execute, req.Mode, req.OnLog)
}

// Dispatch はプロンプトを分類し、単純ルートはアクションを返し、それ以外はオーケストレーションに回す
func (s *Service) Dispatch(ctx context.Context, req DispatchRequest) (DispatchResponse, error) {
	t := task.NewTask(s.newJobID(), req.Prompt, req.Source)
	if t.IsBlank() {
		return DispatchResponse{}, ErrEmptyPrompt
	}

	classification := s.classifier.Classify(t.Prompt())
	t = t.WithRoute(classification.Route)
	metrics.DispatchRoutes.WithLabelValues(classification.Route.String()).Inc()

	s.logger.Info().
		Str("job_id", t.JobID().String()).
		Str("source", string(t.Source())).
		Str("route", classification.Route.String()).
		Bool("complex", classification.IsComplex).
		Str("action", string(classification.Action.Name)).
		Msg("prompt classified")

	resp := DispatchResponse{
		JobID:     t.JobID().String(),
		Route:     classification.Route,
		IsComplex: classification.IsComplex,
		Signals:   classification.Signals,
	}

	if !classification.Route.IsOrchestrated() {
		action := classification.Action
		resp.Action = &action
		resp.Success = true
		resp.Message = fmt.Sprintf("Direct action: %s", action.Name)
		return resp, nil
	}

	orchestration, err := s.orchestrate(ctx, t, req.Execute, req.Mode, req.OnLog)
	if err != nil {
		return DispatchResponse{}, err
	}
	resp.Orchestration = &orchestration
	resp.Success = orchestration.Success
	resp.Message = orchestration.Message
	return resp, nil
}

// Tools はツール一覧を返す
func (s *Service) Tools() []tool.Definition {
	return s.catalog.List()
}

func (s *Service) orchestrate(ctx context.Context, t task.Task, execute bool, mode execution.Mode, onLog func(execution.Entry)) (OrchestrateResponse, error) {
	logger := s.logger.With().Str("job_id", t.JobID().String()).Logger()

	p, err := s.builder.BuildPlan(t.Prompt())
	if err != nil {
		logger.Error().Err(err).Msg("plan construction failed")
		return OrchestrateResponse{}, fmt.Errorf("failed to build plan: %w", err)
	}
	metrics.PlanSteps.Observe(float64(p.Len()))

	resp := OrchestrateResponse{
		Success:    true,
		Understood: !p.IsEmpty(),
		JobID:      t.JobID().String(),
		Prompt:     t.Prompt(),
		Plan:       p,
		Message:    fmt.Sprintf("Plan ready: %d steps, estimated %.0fs (%s)", p.Len(), p.EstimatedTotalSeconds, p.Complexity),
	}

	logger.Info().
		Int("steps", p.Len()).
		Float64("estimated_seconds", p.EstimatedTotalSeconds).
		Str("complexity", string(p.Complexity)).
		Bool("execute", execute).
		Msg("plan built")

	if !execute {
		return resp, nil
	}

	if mode == "" {
		mode = s.defaultMode
	}
	report := s.executor.Execute(ctx, p, execution.Options{Mode: mode, OnLog: onLog})
	resp.Execution = &report
	resp.Success = report.Success
	resp.Message = fmt.Sprintf("Executed %d/%d steps in %.2fs", report.Succeeded(), len(report.Results), report.TotalDurationSeconds)

	logger.Info().
		Bool("success", report.Success).
		Int("succeeded", report.Succeeded()).
		Int("steps", len(report.Results)).
		Float64("duration_seconds", report.TotalDurationSeconds).
		Msg("plan executed")

	return resp, nil
}
