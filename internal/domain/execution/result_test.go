package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReport_Aggregates(t *testing.T) {
	results := []StepResult{
		{StepIndex: 1, Tool: "RealisticGenerate", Success: true, DurationSeconds: 1.5, State: StepSucceeded},
		{StepIndex: 2, Tool: "AdvancedGenerate", Success: false, DurationSeconds: 0.5, Error: "HTTP 500", State: StepFailed},
		{StepIndex: 3, Tool: "OrganicMovement", Success: true, DurationSeconds: 1, State: StepSucceeded},
	}

	report := NewReport(results, nil, PlanCompleted, ModeBestEffort)

	assert.False(t, report.Success)
	assert.Equal(t, 3.0, report.TotalDurationSeconds)
	assert.Equal(t, 2, report.Succeeded())
	assert.Len(t, report.Failed(), 1)
	assert.Equal(t, "HTTP 500", report.Failed()[0].Error)
}

func TestNewReport_AllSucceeded(t *testing.T) {
	results := []StepResult{{StepIndex: 1, Success: true}}

	report := NewReport(results, nil, PlanCompleted, ModeStrict)

	assert.True(t, report.Success)
	assert.Empty(t, report.Failed())
}
