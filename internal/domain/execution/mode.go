package execution

import (
	"fmt"
	"strings"
)

// Mode は失敗時の実行方針
type Mode string

// 実行方針の定数定義
const (
	// ModeBestEffort は失敗を記録して残りのステップを全て実行する
	ModeBestEffort Mode = "best-effort"
	// ModeStrict は前提ステップが失敗したステップを送信せずに失敗として記録する
	ModeStrict Mode = "strict"
)

// ParseMode は文字列からModeを返す（空文字は既定値）
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeBestEffort:
		return ModeBestEffort, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("unknown execution mode: %q", s)
	}
}

// String はModeの文字列表現を返す
func (m Mode) String() string {
	return string(m)
}

// Options は1回の実行に対する呼び出し側の指定
type Options struct {
	Mode  Mode
	OnLog func(Entry) // 追記ごとに同期的に呼ばれる
}

// EffectiveMode は未指定時に既定値を補ったModeを返す
func (o Options) EffectiveMode() Mode {
	if o.Mode == "" {
		return ModeBestEffort
	}
	return o.Mode
}
