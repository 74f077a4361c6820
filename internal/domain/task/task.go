package task

import (
	"strings"

	"github.com/Nyukimin/kibalone_studio/internal/domain/routing"
)

// Source は要求の受付経路
type Source string

// 受付経路の定数定義
const (
	SourceHTTP      Source = "http"
	SourceWebSocket Source = "websocket"
	SourceCLI       Source = "cli"
)

// Task はユーザーのプロンプト1件を表す値オブジェクト
// リクエスト単位で生成され、永続化されない
type Task struct {
	jobID  JobID
	prompt string
	source Source
	route  routing.Route // 決定されたルート
}

// NewTask は新しいTaskを作成
func NewTask(jobID JobID, prompt string, source Source) Task {
	return Task{
		jobID:  jobID,
		prompt: prompt,
		source: source,
	}
}

// JobID はジョブIDを返す
func (t Task) JobID() JobID {
	return t.jobID
}

// Prompt はプロンプト原文を返す
func (t Task) Prompt() string {
	return t.prompt
}

// Source は受付経路を返す
func (t Task) Source() Source {
	return t.source
}

// Route は決定されたルートを返す
func (t Task) Route() routing.Route {
	return t.route
}

// WithRoute はルートを設定した新しいTaskを返す
func (t Task) WithRoute(route routing.Route) Task {
	t.route = route
	return t
}

// IsBlank はプロンプトが空白のみかを判定
func (t Task) IsBlank() bool {
	return strings.TrimSpace(t.prompt) == ""
}
