package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStep_Validation(t *testing.T) {
	tests := []struct {
		name      string
		kind      StepKind
		tool      string
		estimated float64
		wantErr   bool
	}{
		{"valid", KindCharacter, "RealisticGenerate", 10, false},
		{"zero estimate", KindGeneric, "ProceduralGenerate", 0, false},
		{"empty tool", KindCharacter, "", 10, true},
		{"negative estimate", KindCharacter, "RealisticGenerate", -1, true},
		{"unknown kind", StepKind("teleport"), "RealisticGenerate", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStep(tt.kind, tt.tool, nil, "reason", tt.estimated)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidStep))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewStep_NilParamsBecomeEmpty(t *testing.T) {
	step, err := NewStep(KindGeneric, "ProceduralGenerate", nil, "", 1)
	require.NoError(t, err)
	assert.NotNil(t, step.Params)
	assert.Empty(t, step.Params)
}

func TestStep_WithCopies(t *testing.T) {
	step, err := NewStep(KindExport, "ExportOBJ", nil, "", 2)
	require.NoError(t, err)

	numbered := step.WithIndex(3).WithToolDescription("obj export")
	assert.Equal(t, 0, step.Index)
	assert.Equal(t, 3, numbered.Index)
	assert.Equal(t, "obj export", numbered.ToolDescription)
}
