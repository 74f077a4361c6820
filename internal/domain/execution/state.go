package execution

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition は許可されていない状態遷移
var ErrIllegalTransition = errors.New("illegal state transition")

// StepState はステップの実行状態
type StepState string

// ステップ状態の定数定義
const (
	StepPending   StepState = "pending"
	StepRunning   StepState = "running"
	StepSucceeded StepState = "succeeded"
	StepFailed    StepState = "failed"
)

// IsTerminal は終了状態かを判定
func (s StepState) IsTerminal() bool {
	return s == StepSucceeded || s == StepFailed
}

// PlanState は計画全体の実行状態
type PlanState string

// 計画状態の定数定義
const (
	PlanNotStarted PlanState = "not_started"
	PlanRunning    PlanState = "running"
	PlanCompleted  PlanState = "completed"
)

// 許可される遷移
// pending→failed は送信せずに失敗とする場合（前提失敗によるスキップ）
var stepTransitions = map[StepState][]StepState{
	StepPending: {StepRunning, StepFailed},
	StepRunning: {StepSucceeded, StepFailed},
}

// Tracker は計画とステップの状態遷移を検証しながら保持する
type Tracker struct {
	plan  PlanState
	steps []StepState
}

// NewTracker はn個のステップを持つTrackerを作成
func NewTracker(n int) *Tracker {
	steps := make([]StepState, n)
	for i := range steps {
		steps[i] = StepPending
	}
	return &Tracker{plan: PlanNotStarted, steps: steps}
}

// Start は計画を実行中にする
func (t *Tracker) Start() error {
	if t.plan != PlanNotStarted {
		return fmt.Errorf("%w: plan %s -> %s", ErrIllegalTransition, t.plan, PlanRunning)
	}
	t.plan = PlanRunning
	return nil
}

// Complete は計画を完了にする（全ステップが終了状態であること）
func (t *Tracker) Complete() error {
	if t.plan != PlanRunning {
		return fmt.Errorf("%w: plan %s -> %s", ErrIllegalTransition, t.plan, PlanCompleted)
	}
	for i, s := range t.steps {
		if !s.IsTerminal() {
			return fmt.Errorf("%w: step %d still %s", ErrIllegalTransition, i+1, s)
		}
	}
	t.plan = PlanCompleted
	return nil
}

// Transition はステップの状態を遷移させる（indexは0始まり）
func (t *Tracker) Transition(index int, to StepState) error {
	if index < 0 || index >= len(t.steps) {
		return fmt.Errorf("step index out of range: %d", index)
	}
	if t.plan != PlanRunning {
		return fmt.Errorf("%w: step %d changed while plan %s", ErrIllegalTransition, index+1, t.plan)
	}

	from := t.steps[index]
	for _, allowed := range stepTransitions[from] {
		if allowed == to {
			t.steps[index] = to
			return nil
		}
	}
	return fmt.Errorf("%w: step %d %s -> %s", ErrIllegalTransition, index+1, from, to)
}

// Plan は計画の状態を返す
func (t *Tracker) Plan() PlanState {
	return t.plan
}

// Step はステップの状態を返す
func (t *Tracker) Step(index int) StepState {
	if index < 0 || index >= len(t.steps) {
		return ""
	}
	return t.steps[index]
}
