// Package executor は計画のステップを外部HTTPサービスに順番に送信する
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nyukimin/kibalone_studio/internal/domain/execution"
	"github.com/Nyukimin/kibalone_studio/internal/domain/plan"
	"github.com/Nyukimin/kibalone_studio/internal/domain/tool"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/metrics"
)

const (
	// RequestTimeout は1ステップあたりのHTTPタイムアウト
	RequestTimeout = 60 * time.Second
	// StepPause はステップ間の待機時間
	StepPause = 1 * time.Second
	// DefaultBaseURL は相対エンドポイントの解決先
	DefaultBaseURL = "http://localhost:11000"
)

// EndpointResolver はツール名から呼び出し先を解決する
type EndpointResolver interface {
	Endpoint(name string) (string, bool)
}

// HTTPExecutor は計画を逐次実行するExecutor
// 1回の実行の中ではステップを並行させない。異なる計画の同時実行は可能
type HTTPExecutor struct {
	baseURL string
	tools   EndpointResolver
	rules   plan.Rules
	client  *http.Client
	logger  zerolog.Logger

	pause time.Duration
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewHTTPExecutor は新しいHTTPExecutorを作成
func NewHTTPExecutor(baseURL string, tools EndpointResolver, logger zerolog.Logger) *HTTPExecutor {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPExecutor{
		baseURL: strings.TrimRight(baseURL, "/"),
		tools:   tools,
		rules:   plan.DefaultRules(),
		client: &http.Client{
			Timeout: RequestTimeout,
		},
		logger: logger.With().Str("component", "executor").Logger(),
		pause:  StepPause,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// WithRules はstrictモードで参照する依存表を差し替えたコピーを返す
func (e *HTTPExecutor) WithRules(rules plan.Rules) *HTTPExecutor {
	clone := *e
	clone.rules = rules
	return &clone
}

// Execute は計画の全ステップを順番に実行する
// 失敗したステップは記録して次へ進むため、結果は常にステップ数と同じ件数になる
func (e *HTTPExecutor) Execute(ctx context.Context, p plan.Plan, opts execution.Options) execution.Report {
	mode := opts.EffectiveMode()
	log := execution.NewLog(e.now, e.observer(opts.OnLog))
	tracker := execution.NewTracker(p.Len())
	results := make([]execution.StepResult, 0, p.Len())
	failedKinds := make(map[plan.StepKind]bool)

	metrics.ActiveExecutions.Inc()
	defer metrics.ActiveExecutions.Dec()

	e.track(tracker.Start())
	log.Info(fmt.Sprintf("Starting execution: %d steps, estimated %.0fs (%s)", p.Len(), p.EstimatedTotalSeconds, mode))

	for i, step := range p.Steps {
		log.Info(fmt.Sprintf("Step %d/%d", i+1, p.Len()))

		var result execution.StepResult
		if missing, skip := e.failedPrerequisite(mode, step, failedKinds); skip {
			result = e.skip(i, step, missing, tracker, log)
		} else {
			result = e.runStep(ctx, i, step, tracker, log)
		}

		if !result.Success {
			failedKinds[step.Kind] = true
		}
		results = append(results, result)

		if i < p.Len()-1 {
			log.Info(fmt.Sprintf("Pausing %s before next step", e.pause))
			e.sleep(ctx, e.pause)
		}
	}

	e.track(tracker.Complete())
	report := execution.NewReport(results, nil, tracker.Plan(), mode)

	if report.Success {
		log.Success("Execution finished")
	} else {
		log.Warning("Execution finished with failures")
		log.Warning("Failed steps: " + summarizeFailures(report.Failed()))
	}
	log.Info(fmt.Sprintf("Succeeded %d/%d", report.Succeeded(), len(results)))
	log.Info(fmt.Sprintf("Total duration: %.2fs", report.TotalDurationSeconds))

	report.Logs = log.Entries()
	return report
}

// runStep は1ステップを送信して結果を返す
func (e *HTTPExecutor) runStep(ctx context.Context, index int, step plan.Step, tracker *execution.Tracker, log *execution.Log) execution.StepResult {
	e.track(tracker.Transition(index, execution.StepRunning))

	log.Tool("Selected tool: " + step.Tool)
	log.Info("Reason: " + step.Reason)
	log.Info("Params: " + encodeParams(step.Params))

	result := execution.StepResult{
		StepIndex: step.Index,
		Tool:      step.Tool,
	}

	endpoint, ok := e.tools.Endpoint(step.Tool)
	if !ok {
		result.Error = "endpoint not mapped: " + step.Tool
		result.State = execution.StepFailed
		e.track(tracker.Transition(index, execution.StepFailed))
		log.Warning(fmt.Sprintf("Tool %s has no mapped endpoint", step.Tool))
		metrics.StepExecutions.WithLabelValues(step.Tool, metrics.OutcomeUnmapped).Inc()
		return result
	}

	url := e.resolveURL(endpoint)
	log.Info("POST " + url)

	started := e.now()
	payload, err := e.post(ctx, url, step.Params)
	elapsed := e.now().Sub(started).Seconds()
	result.DurationSeconds = elapsed
	metrics.StepDuration.WithLabelValues(step.Tool).Observe(elapsed)

	if err != nil {
		result.Error = err.Error()
		result.State = execution.StepFailed
		e.track(tracker.Transition(index, execution.StepFailed))
		log.Error(fmt.Sprintf("%s failed: %s", step.Tool, result.Error))
		metrics.StepExecutions.WithLabelValues(step.Tool, metrics.OutcomeFailure).Inc()
		return result
	}

	result.Success = true
	result.Payload = payload
	result.State = execution.StepSucceeded
	e.track(tracker.Transition(index, execution.StepSucceeded))
	log.Success(fmt.Sprintf("%s completed in %.2fs", step.Tool, elapsed))
	metrics.StepExecutions.WithLabelValues(step.Tool, metrics.OutcomeSuccess).Inc()
	return result
}

// skip は前提ステップが失敗したステップを送信せずに失敗として記録する
func (e *HTTPExecutor) skip(index int, step plan.Step, missing plan.StepKind, tracker *execution.Tracker, log *execution.Log) execution.StepResult {
	e.track(tracker.Transition(index, execution.StepFailed))
	reason := fmt.Sprintf("skipped: prerequisite %s failed", missing)
	log.Warning(fmt.Sprintf("%s %s", step.Tool, reason))
	metrics.StepExecutions.WithLabelValues(step.Tool, metrics.OutcomeSkipped).Inc()

	return execution.StepResult{
		StepIndex: step.Index,
		Tool:      step.Tool,
		Error:     reason,
		State:     execution.StepFailed,
	}
}

// failedPrerequisite はstrictモードで失敗済みの前提種別を返す
func (e *HTTPExecutor) failedPrerequisite(mode execution.Mode, step plan.Step, failedKinds map[plan.StepKind]bool) (plan.StepKind, bool) {
	if mode != execution.ModeStrict {
		return "", false
	}
	for _, req := range e.rules.Requires(step.Kind) {
		if failedKinds[req] {
			return req, true
		}
	}
	return "", false
}

// post はJSONボディでPOSTし、200のJSONオブジェクトを返す
func (e *HTTPExecutor) post(ctx context.Context, url string, params map[string]any) (map[string]any, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.New("Timeout")
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload, nil
}

// resolveURL は絶対URLをそのまま、相対パスはベースURLに連結して返す
func (e *HTTPExecutor) resolveURL(endpoint string) string {
	if tool.IsAbsoluteEndpoint(endpoint) {
		return endpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return e.baseURL + endpoint
}

// observer はログを呼び出し側とプロセスロガーの両方に流す
func (e *HTTPExecutor) observer(onLog func(execution.Entry)) func(execution.Entry) {
	return func(entry execution.Entry) {
		e.mirror(entry)
		if onLog != nil {
			onLog(entry)
		}
	}
}

// mirror は実行ログをzerologに転記する
func (e *HTTPExecutor) mirror(entry execution.Entry) {
	var ev *zerolog.Event
	switch entry.Level {
	case execution.LevelWarning:
		ev = e.logger.Warn()
	case execution.LevelError:
		ev = e.logger.Error()
	case execution.LevelSuccess:
		ev = e.logger.Info().Bool("success", true)
	default:
		ev = e.logger.Info()
	}
	ev.Str("entry_level", string(entry.Level)).Msg(entry.Message)
}

// track は状態遷移の不整合を記録する（実行は継続する）
func (e *HTTPExecutor) track(err error) {
	if err != nil {
		e.logger.Error().Err(err).Msg("execution state tracking failed")
	}
}

// summarizeFailures は失敗ステップを "番号 ツール (エラー)" の形で並べる
func summarizeFailures(failed []execution.StepResult) string {
	parts := make([]string, len(failed))
	for i, r := range failed {
		parts[i] = fmt.Sprintf("%d %s (%s)", r.StepIndex, r.Tool, r.Error)
	}
	return strings.Join(parts, ", ")
}

func encodeParams(params map[string]any) string {
	b, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%v", params)
	}
	return string(b)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
