package routing

import (
	"strings"

	"github.com/Nyukimin/kibalone_studio/internal/domain/routing"
)

// 単純アクションの既定値
const (
	defaultOrbitDuration = 8
	defaultOrbitHeight   = 5
	defaultOrbitRadius   = 10
	zoomInFactor         = 2.0
	zoomOutFactor        = 0.5
	defaultRemoveCount   = 1

	// "360" はオービットのキーワードであり秒数ではない
	orbitKeywordNumber = 360
)

// simpleRule は単純アクションの判定規則
type simpleRule struct {
	keywords []string
	build    func(lower string, signals routing.Signals) routing.Action
}

// PatternClassifier はキーワード照合によるプロンプト分類器
// 状態を持たないため並行に呼び出してよい
type PatternClassifier struct {
	dictionary *RuleDictionary
	simple     []simpleRule
}

// NewPatternClassifier は新しいPatternClassifierを作成
func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{
		dictionary: NewRuleDictionary(),
		simple: []simpleRule{
			{keywords: []string{"orbite", "360", "tourne autour"}, build: buildOrbit},
			{keywords: []string{"zoom"}, build: buildZoom},
			{keywords: []string{"retire", "supprime", "enlève", "remove"}, build: buildRemove},
			{keywords: []string{"vide", "clear", "reset"}, build: buildClear},
		},
	}
}

// Classify はプロンプトを単純ルートかオーケストレーションに分類する
// 失敗はなく、どの規則にも一致しなければ汎用生成としてオーケストレーションに回す
func (c *PatternClassifier) Classify(prompt string) routing.Classification {
	lower := strings.ToLower(prompt)
	signals := ExtractSignals(lower)

	if _, complex := c.dictionary.Match(lower); complex {
		return routing.Classification{
			IsComplex: true,
			Route:     routing.RouteOrchestrated,
			Action:    routing.NewAction(routing.ActionOrchestrate, "", nil),
			Signals:   signals,
		}
	}

	for _, rule := range c.simple {
		if containsAny(lower, rule.keywords) {
			return routing.Classification{
				IsComplex: false,
				Route:     routing.RouteSimple,
				Action:    rule.build(lower, signals),
				Signals:   signals,
			}
		}
	}

	return routing.Classification{
		IsComplex: false,
		Route:     routing.RouteOrchestrated,
		Action:    routing.NewAction(routing.ActionOrchestrate, "", nil),
		Signals:   signals,
	}
}

func buildOrbit(_ string, signals routing.Signals) routing.Action {
	duration := defaultOrbitDuration
	for _, n := range signals.Numbers {
		if n != orbitKeywordNumber {
			duration = n
			break
		}
	}

	return routing.NewAction(routing.ActionCameraOrbit, "CameraOrbit360", map[string]any{
		"duration": duration,
		"height":   defaultOrbitHeight,
		"radius":   defaultOrbitRadius,
	})
}

func buildZoom(lower string, _ routing.Signals) routing.Action {
	factor := zoomOutFactor
	if strings.Contains(lower, "avant") || containsWord(lower, "in") {
		factor = zoomInFactor
	}

	return routing.NewAction(routing.ActionCameraZoom, "CameraZoom", map[string]any{
		"factor": factor,
	})
}

func buildRemove(_ string, signals routing.Signals) routing.Action {
	count := defaultRemoveCount
	if n, ok := signals.FirstNumber(); ok {
		count = n
	}

	return routing.NewAction(routing.ActionRemoveObjects, "", map[string]any{
		"count": count,
	})
}

func buildClear(_ string, _ routing.Signals) routing.Action {
	return routing.NewAction(routing.ActionClearScene, "", nil)
}

func containsAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
