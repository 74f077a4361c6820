package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nyukimin/kibalone_studio/internal/domain/execution"
	"github.com/Nyukimin/kibalone_studio/internal/domain/plan"
	"github.com/Nyukimin/kibalone_studio/internal/domain/routing"
	"github.com/Nyukimin/kibalone_studio/internal/domain/task"
	"github.com/Nyukimin/kibalone_studio/internal/domain/tool"
)

// mockClassifier はテスト用のClassifier
type mockClassifier struct {
	classification routing.Classification
	calls          int
}

func (m *mockClassifier) Classify(prompt string) routing.Classification {
	m.calls++
	return m.classification
}

// mockPlanBuilder はテスト用のPlanBuilder
type mockPlanBuilder struct {
	plan    plan.Plan
	err     error
	prompts []string
}

func (m *mockPlanBuilder) BuildPlan(prompt string) (plan.Plan, error) {
	m.prompts = append(m.prompts, prompt)
	return m.plan, m.err
}

// mockExecutor はテスト用のExecutor
type mockExecutor struct {
	report execution.Report
	calls  int
	opts   execution.Options
}

func (m *mockExecutor) Execute(ctx context.Context, p plan.Plan, opts execution.Options) execution.Report {
	m.calls++
	m.opts = opts
	if opts.OnLog != nil {
		opts.OnLog(execution.Entry{Level: execution.LevelInfo, Message: "step"})
	}
	return m.report
}

// mockCatalog はテスト用のToolCatalog
type mockCatalog struct {
	defs []tool.Definition
}

func (m *mockCatalog) List() []tool.Definition {
	return m.defs
}

func samplePlan(t *testing.T) plan.Plan {
	t.Helper()
	step, err := plan.NewStep(plan.KindGeneric, "ProceduralGenerate", map[string]any{"prompt": "cube"}, "generic", 1)
	if err != nil {
		t.Fatalf("NewStep failed: %v", err)
	}
	return plan.NewPlan([]plan.Step{step})
}

// testJobTime はテスト用JobIDの採番時刻
var testJobTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(c Classifier, b PlanBuilder, e Executor, mode execution.Mode) *Service {
	s := NewService(c, b, e, &mockCatalog{}, mode, zerolog.Nop())
	fixed := task.NewJobIDAt(testJobTime)
	s.newJobID = func() task.JobID { return fixed }
	return s
}

func TestService_Orchestrate_PlanOnly(t *testing.T) {
	builder := &mockPlanBuilder{plan: samplePlan(t)}
	executor := &mockExecutor{}
	s := newTestService(&mockClassifier{}, builder, executor, "")

	resp, err := s.Orchestrate(context.Background(), OrchestrateRequest{Prompt: "cube"})
	if err != nil {
		t.Fatalf("Orchestrate failed: %v", err)
	}

	if !resp.Success || !resp.Understood {
		t.Errorf("Expected success and understood, got %+v", resp)
	}

	if resp.Execution != nil {
		t.Error("Plan-only request should not execute")
	}

	if executor.calls != 0 {
		t.Errorf("Executor should not be called, got %d calls", executor.calls)
	}

	if !strings.HasPrefix(resp.JobID, "orch-20260301-120000-") {
		t.Errorf("Expected job id stamped at the test time, got '%s'", resp.JobID)
	}
}

func TestService_Orchestrate_Execute(t *testing.T) {
	report := execution.NewReport([]execution.StepResult{
		{StepIndex: 1, Tool: "ProceduralGenerate", Success: false, Error: "HTTP 503"},
	}, nil, execution.PlanCompleted, execution.ModeStrict)

	executor := &mockExecutor{report: report}
	s := newTestService(&mockClassifier{}, &mockPlanBuilder{plan: samplePlan(t)}, executor, execution.ModeStrict)

	var streamed int
	resp, err := s.Orchestrate(context.Background(), OrchestrateRequest{
		Prompt:  "cube",
		Execute: true,
		OnLog:   func(execution.Entry) { streamed++ },
	})
	if err != nil {
		t.Fatalf("Orchestrate failed: %v", err)
	}

	if resp.Success {
		t.Error("Success should follow the execution report")
	}

	if resp.Execution == nil || len(resp.Execution.Results) != 1 {
		t.Fatalf("Expected execution report with 1 result, got %+v", resp.Execution)
	}

	if executor.opts.Mode != execution.ModeStrict {
		t.Errorf("Expected default mode strict, got '%s'", executor.opts.Mode)
	}

	if streamed != 1 {
		t.Errorf("Expected OnLog to be forwarded, got %d calls", streamed)
	}
}

func TestService_Orchestrate_RequestModeOverridesDefault(t *testing.T) {
	executor := &mockExecutor{}
	s := newTestService(&mockClassifier{}, &mockPlanBuilder{plan: samplePlan(t)}, executor, execution.ModeStrict)

	_, err := s.Orchestrate(context.Background(), OrchestrateRequest{
		Prompt:  "cube",
		Execute: true,
		Mode:    execution.ModeBestEffort,
	})
	if err != nil {
		t.Fatalf("Orchestrate failed: %v", err)
	}

	if executor.opts.Mode != execution.ModeBestEffort {
		t.Errorf("Expected best-effort, got '%s'", executor.opts.Mode)
	}
}

func TestService_Orchestrate_EmptyPrompt(t *testing.T) {
	builder := &mockPlanBuilder{}
	s := newTestService(&mockClassifier{}, builder, &mockExecutor{}, "")

	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, err := s.Orchestrate(context.Background(), OrchestrateRequest{Prompt: prompt})
		if !errors.Is(err, ErrEmptyPrompt) {
			t.Errorf("Expected ErrEmptyPrompt for %q, got %v", prompt, err)
		}
	}

	if len(builder.prompts) != 0 {
		t.Error("Builder should not be called for empty prompts")
	}
}

func TestService_Orchestrate_BuildError(t *testing.T) {
	builder := &mockPlanBuilder{err: tool.ErrToolNotFound}
	s := newTestService(&mockClassifier{}, builder, &mockExecutor{}, "")

	_, err := s.Orchestrate(context.Background(), OrchestrateRequest{Prompt: "cube"})
	if !errors.Is(err, tool.ErrToolNotFound) {
		t.Errorf("Expected wrapped ErrToolNotFound, got %v", err)
	}
}

func TestService_Dispatch_Simple(t *testing.T) {
	classifier := &mockClassifier{classification: routing.Classification{
		Route:  routing.RouteSimple,
		Action: routing.NewAction(routing.ActionRemoveObjects, "", map[string]any{"count": 3}),
	}}
	builder := &mockPlanBuilder{}
	s := newTestService(classifier, builder, &mockExecutor{}, "")

	resp, err := s.Dispatch(context.Background(), DispatchRequest{Prompt: "retire 3 objets"})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if resp.Action == nil || resp.Action.Name != routing.ActionRemoveObjects {
		t.Fatalf("Expected remove_objects action, got %+v", resp.Action)
	}

	if resp.Orchestration != nil {
		t.Error("Simple route should not orchestrate")
	}

	if len(builder.prompts) != 0 {
		t.Error("Builder should not be called for simple route")
	}

	if !resp.Success {
		t.Error("Simple dispatch should succeed")
	}
}

func TestService_Dispatch_Orchestrated(t *testing.T) {
	classifier := &mockClassifier{classification: routing.Classification{
		IsComplex: true,
		Route:     routing.RouteOrchestrated,
		Action:    routing.NewAction(routing.ActionOrchestrate, "", nil),
	}}
	builder := &mockPlanBuilder{plan: samplePlan(t)}
	s := newTestService(classifier, builder, &mockExecutor{}, "")

	resp, err := s.Dispatch(context.Background(), DispatchRequest{Prompt: "crée un personnage"})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if resp.Orchestration == nil {
		t.Fatal("Orchestrated route should include orchestration result")
	}

	if resp.Action != nil {
		t.Error("Orchestrated route should not return a direct action")
	}

	if resp.Orchestration.JobID != resp.JobID {
		t.Errorf("Job ids should match: %s vs %s", resp.Orchestration.JobID, resp.JobID)
	}

	if len(builder.prompts) != 1 || builder.prompts[0] != "crée un personnage" {
		t.Errorf("Builder should receive the prompt once, got %v", builder.prompts)
	}
}

func TestService_Dispatch_EmptyPrompt(t *testing.T) {
	classifier := &mockClassifier{}
	s := newTestService(classifier, &mockPlanBuilder{}, &mockExecutor{}, "")

	_, err := s.Dispatch(context.Background(), DispatchRequest{Prompt: " "})
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Expected ErrEmptyPrompt, got %v", err)
	}

	if classifier.calls != 0 {
		t.Error("Classifier should not be called for empty prompts")
	}
}

func TestService_Tools(t *testing.T) {
	catalog := &mockCatalog{defs: []tool.Definition{{Name: "CameraStop"}}}
	s := NewService(&mockClassifier{}, &mockPlanBuilder{}, &mockExecutor{}, catalog, "", zerolog.Nop())

	tools := s.Tools()
	if len(tools) != 1 || tools[0].Name != "CameraStop" {
		t.Errorf("Expected catalog listing, got %v", tools)
	}
}
