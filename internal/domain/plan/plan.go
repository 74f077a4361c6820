package plan

// Complexity は計画の規模区分
type Complexity string

// 規模区分の定数定義
const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ComplexityFor はステップ数から規模区分を返す
func ComplexityFor(steps int) Complexity {
	switch {
	case steps <= 2:
		return ComplexityLow
	case steps <= 5:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

// Plan は順序付きステップ列と見積もり
type Plan struct {
	Steps                 []Step     `json:"steps"`
	EstimatedTotalSeconds float64    `json:"total_estimated_time"`
	Complexity            Complexity `json:"complexity"`
}

// NewPlan は並び順のままステップを1..Nに採番してPlanを作成
func NewPlan(steps []Step) Plan {
	numbered := make([]Step, len(steps))
	var total float64
	for i, step := range steps {
		numbered[i] = step.WithIndex(i + 1)
		total += step.EstimatedSeconds
	}

	return Plan{
		Steps:                 numbered,
		EstimatedTotalSeconds: total,
		Complexity:            ComplexityFor(len(numbered)),
	}
}

// Len はステップ数を返す
func (p Plan) Len() int {
	return len(p.Steps)
}

// IsEmpty はステップがないかを判定
func (p Plan) IsEmpty() bool {
	return len(p.Steps) == 0
}

// Tools はステップ順のツール名を返す
func (p Plan) Tools() []string {
	tools := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		tools[i] = step.Tool
	}
	return tools
}
