// Package plan は実行計画（順序付きステップ列）と依存関係の解決を定義する
package plan

import (
	"errors"
	"fmt"
)

// ErrInvalidStep はステップの構築条件違反
var ErrInvalidStep = errors.New("invalid plan step")

// StepKind はステップの種別（閉じた集合）
type StepKind string

// ステップ種別の定数定義
const (
	KindCharacter    StepKind = "character"
	KindEnvironment  StepKind = "environment"
	KindMovement     StepKind = "movement"
	KindJump         StepKind = "jump"
	KindRigging      StepKind = "rigging"
	KindCameraOrbit  StepKind = "camera_orbit"
	KindCameraPreset StepKind = "camera_preset"
	KindOptimize     StepKind = "optimize"
	KindExport       StepKind = "export"
	KindGeneric      StepKind = "generic"
)

var knownKinds = map[StepKind]bool{
	KindCharacter:    true,
	KindEnvironment:  true,
	KindMovement:     true,
	KindJump:         true,
	KindRigging:      true,
	KindCameraOrbit:  true,
	KindCameraPreset: true,
	KindOptimize:     true,
	KindExport:       true,
	KindGeneric:      true,
}

// IsValid は既知の種別かを判定
func (k StepKind) IsValid() bool {
	return knownKinds[k]
}

// String はStepKindの文字列表現を返す
func (k StepKind) String() string {
	return string(k)
}

// Step は計画の1ステップ
type Step struct {
	Index            int            `json:"step"`
	Kind             StepKind       `json:"kind"`
	Tool             string         `json:"tool"`
	Params           map[string]any `json:"params"`
	Reason           string         `json:"reason"`
	ToolDescription  string         `json:"tool_description,omitempty"`
	EstimatedSeconds float64        `json:"estimated_time"`
}

// NewStep は新しいStepを作成（Indexは計画確定時に採番される）
func NewStep(kind StepKind, tool string, params map[string]any, reason string, estimated float64) (Step, error) {
	if !kind.IsValid() {
		return Step{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, kind)
	}
	if tool == "" {
		return Step{}, fmt.Errorf("%w: empty tool name", ErrInvalidStep)
	}
	if estimated < 0 {
		return Step{}, fmt.Errorf("%w: negative estimate %v", ErrInvalidStep, estimated)
	}
	if params == nil {
		params = map[string]any{}
	}

	return Step{
		Kind:             kind,
		Tool:             tool,
		Params:           params,
		Reason:           reason,
		EstimatedSeconds: estimated,
	}, nil
}

// WithIndex は採番済みのコピーを返す
func (s Step) WithIndex(index int) Step {
	s.Index = index
	return s
}

// WithToolDescription はツール説明付きのコピーを返す
func (s Step) WithToolDescription(description string) Step {
	s.ToolDescription = description
	return s
}
