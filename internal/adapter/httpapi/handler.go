// Package httpapi はオーケストレーションのHTTP/WebSocket窓口
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Nyukimin/kibalone_studio/internal/application/orchestrator"
	"github.com/Nyukimin/kibalone_studio/internal/domain/execution"
	"github.com/Nyukimin/kibalone_studio/internal/domain/task"
	"github.com/Nyukimin/kibalone_studio/internal/domain/tool"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/health"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/metrics"
)

// maxBodyBytes はリクエストボディの上限
const maxBodyBytes = 1 << 20

// Orchestrator はオーケストレーションサービスのインターフェース
type Orchestrator interface {
	Orchestrate(ctx context.Context, req orchestrator.OrchestrateRequest) (orchestrator.OrchestrateResponse, error)
	Dispatch(ctx context.Context, req orchestrator.DispatchRequest) (orchestrator.DispatchResponse, error)
	Tools() []tool.Definition
}

// ServiceChecker は生成サービスの到達確認インターフェース
type ServiceChecker interface {
	Run(ctx context.Context) health.Report
}

// Handler はHTTPハンドラー
type Handler struct {
	orchestrator Orchestrator
	logger       zerolog.Logger
	metrics      http.Handler
	services     ServiceChecker
}

// NewHandler は新しいHandlerを作成
func NewHandler(orch Orchestrator, logger zerolog.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		logger:       logger.With().Str("component", "httpapi").Logger(),
		metrics:      promhttp.Handler(),
	}
}

// WithServiceChecks は/health/servicesで使う確認を設定
func (h *Handler) WithServiceChecks(checker ServiceChecker) *Handler {
	h.services = checker
	return h
}

// ServeHTTP はHTTPリクエストを処理
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// WebSocketはHijackが必要なため計測用ラッパーを通さない
	if r.URL.Path == "/api/orchestrate/stream" {
		h.handleStream(w, r)
		return
	}

	started := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.route(rec, r)

	endpoint := endpointLabel(r.URL.Path)
	metrics.RequestCount.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
	metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(started).Seconds())
}

// knownPaths はメトリクスのラベルに使うパス（それ以外は"other"に集約）
var knownPaths = map[string]bool{
	"/health":          true,
	"/health/services": true,
	"/metrics":         true,
	"/api/tools":       true,
	"/api/dispatch":    true,
	"/api/orchestrate": true,
	pathCameraControl:  true,
}

func endpointLabel(path string) string {
	if knownPaths[path] {
		return path
	}
	if label, ok := simulatedLabel(path); ok {
		return label
	}
	return "other"
}

// route はパスとメソッドで振り分ける
func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		if !allow(w, r, http.MethodGet) {
			return
		}
		h.handleHealth(w, r)

	case "/health/services":
		if !allow(w, r, http.MethodGet) {
			return
		}
		h.handleServiceHealth(w, r)

	case "/metrics":
		if !allow(w, r, http.MethodGet) {
			return
		}
		h.metrics.ServeHTTP(w, r)

	case "/api/tools":
		if !allow(w, r, http.MethodGet) {
			return
		}
		h.handleTools(w, r)

	case "/api/dispatch":
		if !allow(w, r, http.MethodPost) {
			return
		}
		h.handleDispatch(w, r)

	case "/api/orchestrate":
		if !allow(w, r, http.MethodPost) {
			return
		}
		h.handleOrchestrate(w, r)

	// 実行計画の相対エンドポイントはこのサービス自身が受ける
	case pathCameraControl:
		if !allow(w, r, http.MethodPost) {
			return
		}
		h.handleCameraControl(w, r)

	default:
		action, ok := simulatedAction(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if !allow(w, r, http.MethodPost) {
			return
		}
		h.handleSimulatedTool(w, r, action)
	}
}

// handleHealth はヘルスチェック
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// handleServiceHealth は生成サービスの到達状況を返す（1つでも不達なら503）
func (h *Handler) handleServiceHealth(w http.ResponseWriter, r *http.Request) {
	report := health.Report{OK: true, Services: []health.Status{}}
	if h.services != nil {
		report = h.services.Run(r.Context())
	}

	for _, s := range report.Services {
		up := 0.0
		if s.OK {
			up = 1
		}
		metrics.ServiceUp.WithLabelValues(s.Name).Set(up)
	}

	status := http.StatusOK
	if !report.OK {
		status = http.StatusServiceUnavailable
		h.logger.Warn().Interface("services", report.Services).Msg("generation services unavailable")
	}
	writeJSON(w, status, report)
}

// handleTools はツール一覧を返す
func (h *Handler) handleTools(w http.ResponseWriter, r *http.Request) {
	tools := h.orchestrator.Tools()
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(tools),
		"tools": tools,
	})
}

// handleDispatch は分類付きの要求を処理
func (h *Handler) handleDispatch(w http.ResponseWriter, r *http.Request) {
	body, mode, ok := decodePromptRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.orchestrator.Dispatch(r.Context(), orchestrator.DispatchRequest{
		Prompt:  body.Prompt,
		Execute: body.Execute,
		Mode:    mode,
		Source:  task.SourceHTTP,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleOrchestrate はオーケストレーション要求を処理
// 一部のステップが失敗しても200を返し、結果のsuccessで表す
func (h *Handler) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	body, mode, ok := decodePromptRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.orchestrator.Orchestrate(r.Context(), orchestrator.OrchestrateRequest{
		Prompt:  body.Prompt,
		Execute: body.Execute,
		Mode:    mode,
		Source:  task.SourceHTTP,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, orchestrator.ErrEmptyPrompt) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, err.Error())
}

// PromptRequest はプロンプト要求のボディ
type PromptRequest struct {
	Prompt  string `json:"prompt"`
	Execute bool   `json:"execute"`
	Mode    string `json:"mode,omitempty"`
}

// decodePromptRequest はボディを読み込み、不正なら400を書き込む
func decodePromptRequest(w http.ResponseWriter, r *http.Request) (PromptRequest, execution.Mode, bool) {
	var body PromptRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return PromptRequest{}, "", false
	}

	mode, err := parseRequestMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return PromptRequest{}, "", false
	}

	return body, mode, true
}

// parseRequestMode は未指定をサービス既定のまま残す
func parseRequestMode(s string) (execution.Mode, error) {
	if s == "" {
		return "", nil
	}
	return execution.ParseMode(s)
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusRecorder は書き込まれたステータスコードを記録する
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
