package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// jobIDPrefix はオーケストレーション実行IDの接頭辞
const jobIDPrefix = "orch"

// JobID はオーケストレーション要求1件の識別子を表す値オブジェクト
// Planの比較には含めない（同一プロンプトのPlanは常に同一構造）
type JobID struct {
	value string
}

// NewJobID は現在時刻で新しいJobIDを生成
func NewJobID() JobID {
	return NewJobIDAt(time.Now())
}

// NewJobIDAt は指定時刻で新しいJobIDを生成
func NewJobIDAt(now time.Time) JobID {
	// フォーマット: orch-YYYYMMDD-HHMMSS-{UUID先頭8文字}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return JobID{
		value: fmt.Sprintf("%s-%s-%s", jobIDPrefix, now.Format("20060102-150405"), suffix),
	}
}

// String はJobIDの文字列表現を返す
func (j JobID) String() string {
	return j.value
}
