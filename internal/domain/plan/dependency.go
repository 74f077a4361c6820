package plan

import (
	"fmt"
	"sort"
	"strings"
)

// Rules はステップ種別ごとの前提種別（依存表）
type Rules map[StepKind][]StepKind

// DefaultRules は既定の依存表を返す
// 動きのあるステップはリギング済みのモデルを前提とする
func DefaultRules() Rules {
	return Rules{
		KindMovement: {KindRigging},
		KindJump:     {KindRigging},
	}
}

// Requires は種別の前提種別を返す
func (r Rules) Requires(kind StepKind) []StepKind {
	return r[kind]
}

// Validate は依存表に循環がないことを検証
func (r Rules) Validate() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[StepKind]int)

	var visit func(kind StepKind, path []StepKind) error
	visit = func(kind StepKind, path []StepKind) error {
		switch state[kind] {
		case visiting:
			return &CycleError{Path: append(path, kind)}
		case done:
			return nil
		}
		state[kind] = visiting
		for _, req := range r[kind] {
			if err := visit(req, append(path, kind)); err != nil {
				return err
			}
		}
		state[kind] = done
		return nil
	}

	// マップ順に依存しないよう種別名順に走査
	kinds := make([]StepKind, 0, len(r))
	for kind := range r {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		if err := visit(kind, nil); err != nil {
			return err
		}
	}
	return nil
}

// Factory は不足している前提ステップを生成する
type Factory func(kind StepKind) (Step, error)

// Resolve は前提ステップを補い、依存順に並べ替える
// 不足する前提種別は一度だけ生成され、それを必要とする最初のステップの直前に挿入される
// 並べ替えは安定なトポロジカルソートで、依存のないステップは元の順序を保つ
func Resolve(steps []Step, rules Rules, factory Factory) ([]Step, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	completed, err := insertMissing(steps, rules, factory)
	if err != nil {
		return nil, err
	}

	return Order(completed, rules)
}

func insertMissing(steps []Step, rules Rules, factory Factory) ([]Step, error) {
	out := make([]Step, len(steps))
	copy(out, steps)

	present := make(map[StepKind]bool, len(out))
	for _, step := range out {
		present[step.Kind] = true
	}

	// 挿入したステップ自身の前提も処理するため、挿入時は位置を進めない
	for i := 0; i < len(out); {
		inserted := false
		for _, req := range rules.Requires(out[i].Kind) {
			if present[req] {
				continue
			}
			if factory == nil {
				return nil, fmt.Errorf("no factory for required kind %s", req)
			}
			step, err := factory(req)
			if err != nil {
				return nil, fmt.Errorf("synthesize %s step: %w", req, err)
			}
			if step.Kind != req {
				return nil, fmt.Errorf("%w: factory returned %s for %s", ErrInvalidStep, step.Kind, req)
			}
			out = append(out[:i], append([]Step{step}, out[i:]...)...)
			present[req] = true
			inserted = true
			break
		}
		if !inserted {
			i++
		}
	}

	return out, nil
}

// Order は依存表に従ってステップを安定に並べ替える（Kahnのアルゴリズム）
// 同時に実行可能なステップが複数ある場合は現在の位置が早いものを優先する
func Order(steps []Step, rules Rules) ([]Step, error) {
	n := len(steps)
	inDegree := make([]int, n)
	edges := make([][]int, n)

	for i, dependent := range steps {
		for _, req := range rules.Requires(dependent.Kind) {
			for j, prereq := range steps {
				if j != i && prereq.Kind == req {
					edges[j] = append(edges[j], i)
					inDegree[i]++
				}
			}
		}
	}

	ordered := make([]Step, 0, n)
	emitted := make([]bool, n)
	for len(ordered) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !emitted[i] && inDegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, &CycleError{Path: remainingKinds(steps, emitted)}
		}

		emitted[next] = true
		ordered = append(ordered, steps[next])
		for _, dependent := range edges[next] {
			inDegree[dependent]--
		}
	}

	return ordered, nil
}

func remainingKinds(steps []Step, emitted []bool) []StepKind {
	var kinds []StepKind
	for i, step := range steps {
		if !emitted[i] {
			kinds = append(kinds, step.Kind)
		}
	}
	return kinds
}

// CycleError は依存関係の循環
type CycleError struct {
	Path []StepKind
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "circular step dependency detected"
	}
	names := make([]string, len(e.Path))
	for i, kind := range e.Path {
		names[i] = string(kind)
	}
	return fmt.Sprintf("circular step dependency detected: %s", strings.Join(names, " -> "))
}
