package planner

import (
	"strings"

	"github.com/Nyukimin/kibalone_studio/internal/domain/plan"
)

// ステップの見積もり秒数
const (
	estimateCharacter    = 10
	estimateEnvironment  = 8
	estimateMovement     = 3
	estimateJump         = 3
	estimateRigging      = 5
	estimateCameraOrbit  = 1
	estimateCameraPreset = 1
	estimateOptimize     = 2
	estimateExport       = 2
	estimateGeneric      = 1
)

// exportPathPrefix はエクスポート先（拡張子は形式で決まる）
const exportPathPrefix = "/tmp/kibalone_export."

// detector はキーワードに一致したときにステップを組み立てる
type detector struct {
	kind     plan.StepKind
	keywords []string
	build    func(prompt, lower string) (plan.Step, error)
}

func (d detector) matches(lower string) bool {
	for _, keyword := range d.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// defaultDetectors は評価順に並んだ検出器（互いに排他ではない）
func defaultDetectors() []detector {
	return []detector{
		{
			kind:     plan.KindCharacter,
			keywords: []string{"personnage", "character", "humain", "héros"},
			build: func(prompt, _ string) (plan.Step, error) {
				return plan.NewStep(plan.KindCharacter, "RealisticGenerate", map[string]any{
					"prompt":  prompt,
					"type":    "character",
					"quality": "high",
				}, "Generate the character with realistic anatomy", estimateCharacter)
			},
		},
		{
			kind:     plan.KindEnvironment,
			keywords: []string{"terrain", "environnement", "scène", "forêt", "ville"},
			build: func(prompt, _ string) (plan.Step, error) {
				return plan.NewStep(plan.KindEnvironment, "RealisticGenerate", map[string]any{
					"prompt":  prompt,
					"type":    "environment",
					"quality": "medium",
				}, "Build the environment", estimateEnvironment)
			},
		},
		{
			kind:     plan.KindMovement,
			keywords: []string{"marche", "walk", "court", "run", "bouge"},
			build: func(_, lower string) (plan.Step, error) {
				animation, speed := "walk", 1.0
				if strings.Contains(lower, "court") || strings.Contains(lower, "run") {
					animation, speed = "run", 1.5
				}
				return plan.NewStep(plan.KindMovement, "OrganicMovement", map[string]any{
					"animation_type": animation,
					"duration":       5,
					"speed":          speed,
				}, "Animate realistic locomotion ("+animation+")", estimateMovement)
			},
		},
		{
			kind:     plan.KindJump,
			keywords: []string{"saut", "saute", "jump"},
			build: func(_, _ string) (plan.Step, error) {
				return plan.NewStep(plan.KindJump, "GenerateAnimation", map[string]any{
					"movement": "jump",
					"duration": 2,
					"height":   2.0,
				}, "Animate the jump", estimateJump)
			},
		},
		{
			kind:     plan.KindCameraOrbit,
			keywords: []string{"orbite", "360", "tourne autour", "film"},
			build: func(_, _ string) (plan.Step, error) {
				return plan.NewStep(plan.KindCameraOrbit, "CameraOrbit360", map[string]any{
					"duration": 8,
					"height":   5,
					"radius":   10,
				}, "Orbit the camera 360 degrees to film the result", estimateCameraOrbit)
			},
		},
		{
			kind:     plan.KindCameraPreset,
			keywords: []string{"vue de face", "vue de haut", "isométrique"},
			build: func(_, lower string) (plan.Step, error) {
				preset := "front"
				switch {
				case strings.Contains(lower, "iso"):
					preset = "iso"
				case strings.Contains(lower, "haut"):
					preset = "top"
				}
				return plan.NewStep(plan.KindCameraPreset, "CameraPreset", map[string]any{
					"preset": preset,
				}, "Position the camera on the "+preset+" view", estimateCameraPreset)
			},
		},
		{
			kind:     plan.KindOptimize,
			keywords: []string{"optimise", "optimize", "allège"},
			build: func(_, _ string) (plan.Step, error) {
				return plan.NewStep(plan.KindOptimize, "OptimizeMesh", map[string]any{
					"target_polygons": 5000,
					"preserve_uvs":    true,
				}, "Reduce the mesh polygon count", estimateOptimize)
			},
		},
		{
			kind:     plan.KindExport,
			keywords: []string{"export", "sauvegarde", "save"},
			build: func(_, lower string) (plan.Step, error) {
				format, tool := "obj", "ExportOBJ"
				if strings.Contains(lower, "gltf") || strings.Contains(lower, "glb") {
					format, tool = "gltf", "ExportGLTF"
				}
				return plan.NewStep(plan.KindExport, tool, map[string]any{
					"output_path": exportPathPrefix + format,
				}, "Export as "+strings.ToUpper(format), estimateExport)
			},
		},
	}
}

// riggingStep はアニメーションの前提となるリギングのステップ
func riggingStep(prompt string) (plan.Step, error) {
	return plan.NewStep(plan.KindRigging, "AdvancedGenerate", map[string]any{
		"method":          "grease-pencil",
		"prompt":          prompt,
		"include_rigging": true,
	}, "Rig the skeleton before animating", estimateRigging)
}

// genericStep はどの検出器にも一致しないときの汎用生成ステップ
func genericStep(prompt string) (plan.Step, error) {
	return plan.NewStep(plan.KindGeneric, "ProceduralGenerate", map[string]any{
		"prompt": prompt,
	}, "Generic creation from the prompt", estimateGeneric)
}
