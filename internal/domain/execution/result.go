package execution

// StepResult は1ステップの実行結果（生成後は変更しない）
type StepResult struct {
	StepIndex       int            `json:"step"`
	Tool            string         `json:"tool"`
	Success         bool           `json:"success"`
	DurationSeconds float64        `json:"duration"`
	Payload         map[string]any `json:"result,omitempty"`
	Error           string         `json:"error,omitempty"`
	State           StepState      `json:"state"`
}

// Report は計画全体の実行結果
type Report struct {
	Success              bool         `json:"success"`
	Results              []StepResult `json:"results"`
	TotalDurationSeconds float64      `json:"total_duration"`
	Logs                 []Entry      `json:"logs"`
	State                PlanState    `json:"state"`
	Mode                 Mode         `json:"mode"`
}

// NewReport は結果一覧から集計済みのReportを作成
func NewReport(results []StepResult, logs []Entry, state PlanState, mode Mode) Report {
	var total float64
	for _, r := range results {
		total += r.DurationSeconds
	}

	return Report{
		Success:              countSucceeded(results) == len(results),
		Results:              results,
		TotalDurationSeconds: total,
		Logs:                 logs,
		State:                state,
		Mode:                 mode,
	}
}

// Succeeded は成功したステップ数を返す
func (r Report) Succeeded() int {
	return countSucceeded(r.Results)
}

// Failed は失敗したステップを返す
func (r Report) Failed() []StepResult {
	var failed []StepResult
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

func countSucceeded(results []StepResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
