// Package execution は計画実行の結果・ログ・状態遷移を定義する
package execution

import "time"

// TimestampLayout はログのタイムスタンプ形式（HH:MM:SS.mmm）
const TimestampLayout = "15:04:05.000"

// Level はログレベル
type Level string

// ログレベルの定数定義
const (
	LevelInfo    Level = "INFO"
	LevelSuccess Level = "SUCCESS"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
	LevelTool    Level = "TOOL"
)

// Entry は実行ログの1行
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
}

// Log はリクエスト単位の追記専用ログ
// 1つの実行の中で逐次的に使われるため同期は持たない
type Log struct {
	entries  []Entry
	now      func() time.Time
	observer func(Entry)
}

// NewLog は新しいLogを作成（observerは追記ごとに同期的に呼ばれる）
func NewLog(now func() time.Time, observer func(Entry)) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{
		entries:  make([]Entry, 0, 16),
		now:      now,
		observer: observer,
	}
}

// Add はエントリを追記
func (l *Log) Add(level Level, message string) Entry {
	entry := Entry{
		Timestamp: l.now().Format(TimestampLayout),
		Level:     level,
		Message:   message,
	}
	l.entries = append(l.entries, entry)
	if l.observer != nil {
		l.observer(entry)
	}
	return entry
}

// Info はINFOエントリを追記
func (l *Log) Info(message string) Entry { return l.Add(LevelInfo, message) }

// Success はSUCCESSエントリを追記
func (l *Log) Success(message string) Entry { return l.Add(LevelSuccess, message) }

// Warning はWARNINGエントリを追記
func (l *Log) Warning(message string) Entry { return l.Add(LevelWarning, message) }

// Error はERRORエントリを追記
func (l *Log) Error(message string) Entry { return l.Add(LevelError, message) }

// Tool はTOOLエントリを追記
func (l *Log) Tool(message string) Entry { return l.Add(LevelTool, message) }

// Entries はエントリのコピーを返す
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len はエントリ数を返す
func (l *Log) Len() int {
	return len(l.entries)
}
