// Package planner はプロンプトから実行計画を組み立てる
package planner

import (
	"fmt"
	"strings"

	"github.com/Nyukimin/kibalone_studio/internal/domain/plan"
	"github.com/Nyukimin/kibalone_studio/internal/domain/tool"
)

// ToolLookup はツールの存在確認と説明取得
type ToolLookup interface {
	Describe(name string) (string, bool)
}

// Builder はキーワード検出器と依存表による計画ビルダー
// 状態を持たないため並行に呼び出してよい
type Builder struct {
	tools     ToolLookup
	detectors []detector
	rules     plan.Rules
}

// NewBuilder は新しいBuilderを作成
func NewBuilder(tools ToolLookup) *Builder {
	return &Builder{
		tools:     tools,
		detectors: defaultDetectors(),
		rules:     plan.DefaultRules(),
	}
}

// WithRules は依存表を差し替えたコピーを返す
func (b *Builder) WithRules(rules plan.Rules) *Builder {
	clone := *b
	clone.rules = rules
	return &clone
}

// BuildPlan はプロンプトから計画を組み立てる
// エラーは不正な依存表や未登録ツールなどの構成不備のみで、入力によっては失敗しない
func (b *Builder) BuildPlan(prompt string) (plan.Plan, error) {
	lower := strings.ToLower(prompt)

	var steps []plan.Step
	for _, d := range b.detectors {
		if !d.matches(lower) {
			continue
		}
		step, err := d.build(prompt, lower)
		if err != nil {
			return plan.Plan{}, fmt.Errorf("build %s step: %w", d.kind, err)
		}
		steps = append(steps, step)
	}

	if len(steps) == 0 {
		step, err := genericStep(prompt)
		if err != nil {
			return plan.Plan{}, fmt.Errorf("build generic step: %w", err)
		}
		steps = append(steps, step)
	}

	resolved, err := plan.Resolve(steps, b.rules, b.factory(prompt))
	if err != nil {
		return plan.Plan{}, fmt.Errorf("resolve step dependencies: %w", err)
	}

	for i, step := range resolved {
		description, ok := b.tools.Describe(step.Tool)
		if !ok {
			return plan.Plan{}, fmt.Errorf("%w: %s", tool.ErrToolNotFound, step.Tool)
		}
		resolved[i] = step.WithToolDescription(description)
	}

	return plan.NewPlan(resolved), nil
}

// factory は依存解決で不足した前提ステップを生成する
func (b *Builder) factory(prompt string) plan.Factory {
	return func(kind plan.StepKind) (plan.Step, error) {
		if kind == plan.KindRigging {
			return riggingStep(prompt)
		}
		lower := strings.ToLower(prompt)
		for _, d := range b.detectors {
			if d.kind == kind {
				return d.build(prompt, lower)
			}
		}
		return plan.Step{}, fmt.Errorf("no step template for kind %s", kind)
	}
}
