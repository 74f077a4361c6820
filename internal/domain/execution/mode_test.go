package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeBestEffort, false},
		{"best-effort", ModeBestEffort, false},
		{" STRICT ", ModeStrict, false},
		{"abort", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestOptions_EffectiveMode(t *testing.T) {
	assert.Equal(t, ModeBestEffort, Options{}.EffectiveMode())
	assert.Equal(t, ModeStrict, Options{Mode: ModeStrict}.EffectiveMode())
}
