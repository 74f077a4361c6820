package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/kibalone_studio/internal/domain/plan"
	"github.com/Nyukimin/kibalone_studio/internal/domain/tool"
	"github.com/Nyukimin/kibalone_studio/internal/infrastructure/tools"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	registry, err := tools.NewCatalog(tools.ServiceEndpoints{
		Blender: "http://localhost:11004",
		ThreeJS: "http://localhost:11005",
		MiDaS:   "http://localhost:11002",
		TripoSR: "http://localhost:11001",
	})
	require.NoError(t, err)
	return NewBuilder(registry)
}

// emptyLookup はどのツールも知らないレジストリ
type emptyLookup struct{}

func (emptyLookup) Describe(string) (string, bool) { return "", false }

func TestBuildPlan_CharacterRunsAndJumps(t *testing.T) {
	b := newTestBuilder(t)

	p, err := b.BuildPlan("crée un personnage qui court et saute")
	require.NoError(t, err)

	assert.Equal(t, []string{"RealisticGenerate", "AdvancedGenerate", "OrganicMovement", "GenerateAnimation"}, p.Tools())
	assert.Equal(t, plan.ComplexityMedium, p.Complexity)
	assert.Equal(t, 21.0, p.EstimatedTotalSeconds)

	assert.Equal(t, "character", p.Steps[0].Params["type"])
	assert.Equal(t, true, p.Steps[1].Params["include_rigging"])
	assert.Equal(t, "run", p.Steps[2].Params["animation_type"])
	assert.Equal(t, 1.5, p.Steps[2].Params["speed"])
	assert.Equal(t, "jump", p.Steps[3].Params["movement"])

	for i, step := range p.Steps {
		assert.Equal(t, i+1, step.Index)
		assert.NotEmpty(t, step.ToolDescription, step.Tool)
	}
}

func TestBuildPlan_GenericFallback(t *testing.T) {
	b := newTestBuilder(t)

	p, err := b.BuildPlan("xyz abc qqq")
	require.NoError(t, err)

	require.Len(t, p.Steps, 1)
	assert.Equal(t, "ProceduralGenerate", p.Steps[0].Tool)
	assert.Equal(t, plan.KindGeneric, p.Steps[0].Kind)
	assert.Equal(t, "xyz abc qqq", p.Steps[0].Params["prompt"])
	assert.Equal(t, plan.ComplexityLow, p.Complexity)
}

func TestBuildPlan_AnimationFirstStillRigged(t *testing.T) {
	b := newTestBuilder(t)

	p, err := b.BuildPlan("un robot qui marche")
	require.NoError(t, err)

	assert.Equal(t, []string{"AdvancedGenerate", "OrganicMovement"}, p.Tools())
	assert.Equal(t, "walk", p.Steps[1].Params["animation_type"])
	assert.Equal(t, 1.0, p.Steps[1].Params["speed"])
}

func TestBuildPlan_CameraAndExport(t *testing.T) {
	tests := []struct {
		name      string
		prompt    string
		wantTools []string
		check     func(t *testing.T, p plan.Plan)
	}{
		{
			name:      "orbit and gltf export",
			prompt:    "terrain de foot, tourne autour puis exporte en glb",
			wantTools: []string{"RealisticGenerate", "CameraOrbit360", "ExportGLTF"},
			check: func(t *testing.T, p plan.Plan) {
				assert.Equal(t, "/tmp/kibalone_export.gltf", p.Steps[2].Params["output_path"])
			},
		},
		{
			name:      "isometric preset",
			prompt:    "personnage héroïque vue isométrique",
			wantTools: []string{"RealisticGenerate", "CameraPreset"},
			check: func(t *testing.T, p plan.Plan) {
				assert.Equal(t, "iso", p.Steps[1].Params["preset"])
			},
		},
		{
			name:      "top preset and obj export",
			prompt:    "une ville vue de haut, sauvegarde",
			wantTools: []string{"RealisticGenerate", "CameraPreset", "ExportOBJ"},
			check: func(t *testing.T, p plan.Plan) {
				assert.Equal(t, "top", p.Steps[1].Params["preset"])
				assert.Equal(t, "/tmp/kibalone_export.obj", p.Steps[2].Params["output_path"])
			},
		},
		{
			name:      "optimize only",
			prompt:    "optimise le modèle",
			wantTools: []string{"OptimizeMesh"},
			check: func(t *testing.T, p plan.Plan) {
				assert.Equal(t, 5000, p.Steps[0].Params["target_polygons"])
			},
		},
	}

	b := newTestBuilder(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := b.BuildPlan(tt.prompt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTools, p.Tools())
			tt.check(t, p)
		})
	}
}

func TestBuildPlan_HighComplexity(t *testing.T) {
	b := newTestBuilder(t)

	p, err := b.BuildPlan("personnage dans une forêt qui court et saute, orbite 360, optimise et export gltf")
	require.NoError(t, err)

	// character, environment, rigging, movement, jump, orbit, optimize, export
	assert.Len(t, p.Steps, 8)
	assert.Equal(t, plan.ComplexityHigh, p.Complexity)
}

func TestBuildPlan_RiggingProperty(t *testing.T) {
	prompts := []string{
		"crée un personnage qui court et saute",
		"un chat qui saute",
		"environnement forêt magique avec animation",
		"walk then jump then export",
		"cube rouge",
	}

	b := newTestBuilder(t)

	for _, prompt := range prompts {
		p, err := b.BuildPlan(prompt)
		require.NoError(t, err, prompt)

		firstAnimated := -1
		riggingCount := 0
		for i, step := range p.Steps {
			if step.Kind == plan.KindRigging {
				riggingCount++
			}
			if firstAnimated < 0 && (step.Kind == plan.KindMovement || step.Kind == plan.KindJump) {
				firstAnimated = i
			}
		}

		if firstAnimated < 0 {
			assert.Zero(t, riggingCount, prompt)
			continue
		}
		assert.Equal(t, 1, riggingCount, prompt)
		assert.Equal(t, plan.KindRigging, p.Steps[firstAnimated-1].Kind, prompt)
	}
}

func TestBuildPlan_Idempotent(t *testing.T) {
	b := newTestBuilder(t)
	prompt := "personnage qui court, vue de face, export"

	first, err := b.BuildPlan(prompt)
	require.NoError(t, err)
	second, err := b.BuildPlan(prompt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildPlan_UnknownTool(t *testing.T) {
	b := NewBuilder(emptyLookup{})

	_, err := b.BuildPlan("cube")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tool.ErrToolNotFound))
}

func TestBuildPlan_CyclicRules(t *testing.T) {
	b := newTestBuilder(t).WithRules(plan.Rules{
		plan.KindMovement: {plan.KindRigging},
		plan.KindRigging:  {plan.KindMovement},
	})

	_, err := b.BuildPlan("un robot qui marche")
	require.Error(t, err)
	var cycle *plan.CycleError
	assert.True(t, errors.As(err, &cycle))
}

func TestBuildPlan_CustomRuleSynthesizesDetectorStep(t *testing.T) {
	b := newTestBuilder(t).WithRules(plan.Rules{
		plan.KindExport: {plan.KindOptimize},
	})

	p, err := b.BuildPlan("export gltf")
	require.NoError(t, err)

	assert.Equal(t, []string{"OptimizeMesh", "ExportGLTF"}, p.Tools())
}
