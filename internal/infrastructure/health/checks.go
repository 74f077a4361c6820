// Package health は外部生成サービスの到達確認
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout は1サービスあたりの確認タイムアウト
const DefaultTimeout = 3 * time.Second

// CheckFunc は依存先を確認し、正常かどうかと詳細を返す
type CheckFunc func(ctx context.Context) (bool, string)

// Check は名前付きのCheckFunc
type Check struct {
	Name string
	Fn   CheckFunc
}

// ServiceCheck は生成サービスの到達確認
// ルートを持たないサービスもあるため5xx以外の応答は到達可能とみなす
func ServiceCheck(baseURL string, timeout time.Duration) CheckFunc {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) (bool, string) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return false, fmt.Sprintf("invalid url: %v", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return false, fmt.Sprintf("unreachable: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return false, fmt.Sprintf("status %d", resp.StatusCode)
		}
		return true, "ok"
	}
}

// Status は1件の確認結果
type Status struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// Report は全サービスの確認結果
type Report struct {
	OK       bool     `json:"ok"`
	Services []Status `json:"services"`
}

// Checker は登録順に確認を実行する
type Checker struct {
	checks []Check
}

// NewChecker は新しいCheckerを作成
func NewChecker(checks ...Check) *Checker {
	return &Checker{checks: checks}
}

// Run は全確認を順に実行
func (c *Checker) Run(ctx context.Context) Report {
	report := Report{OK: true, Services: make([]Status, 0, len(c.checks))}
	for _, check := range c.checks {
		ok, detail := check.Fn(ctx)
		report.Services = append(report.Services, Status{Name: check.Name, OK: ok, Detail: detail})
		if !ok {
			report.OK = false
		}
	}
	return report
}
