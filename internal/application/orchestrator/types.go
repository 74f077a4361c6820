package orchestrator

import (
	"github.com/Nyukimin/kibalone_studio/internal/domain/execution"
	"github.com/Nyukimin/kibalone_studio/internal/domain/plan"
	"github.com/Nyukimin/kibalone_studio/internal/domain/routing"
	"github.com/Nyukimin/kibalone_studio/internal/domain/task"
)

// OrchestrateRequest はオーケストレーション要求
type OrchestrateRequest struct {
	Prompt  string
	Execute bool
	Mode    execution.Mode // 空なら既定の実行方針
	Source  task.Source
	OnLog   func(execution.Entry)
}

// OrchestrateResponse はオーケストレーション結果
type OrchestrateResponse struct {
	Success    bool              `json:"success"`
	Understood bool              `json:"understood"`
	JobID      string            `json:"job_id"`
	Prompt     string            `json:"prompt"`
	Plan       plan.Plan         `json:"plan"`
	Execution  *execution.Report `json:"execution,omitempty"`
	Message    string            `json:"message"`
}

// DispatchRequest は分類付きの要求
type DispatchRequest struct {
	Prompt  string
	Execute bool
	Mode    execution.Mode
	Source  task.Source
	OnLog   func(execution.Entry)
}

// DispatchResponse は分類結果と、単純アクションまたはオーケストレーション結果
type DispatchResponse struct {
	Success       bool                 `json:"success"`
	JobID         string               `json:"job_id"`
	Route         routing.Route        `json:"route"`
	IsComplex     bool                 `json:"is_complex"`
	Action        *routing.Action      `json:"action,omitempty"`
	Signals       routing.Signals      `json:"signals"`
	Orchestration *OrchestrateResponse `json:"orchestration,omitempty"`
	Message       string               `json:"message"`
}
