package tools

import (
	"strings"

	"github.com/Nyukimin/kibalone_studio/internal/domain/tool"
)

// ServiceEndpoints は外部生成サービスのベースURL
type ServiceEndpoints struct {
	Blender string
	ThreeJS string
	MiDaS   string
	TripoSR string
}

// ローカルサービス（オーケストレーター自身）に対する相対パス
const (
	pathCameraControl = "/api/camera-control"
	pathAssetsSearch  = "/api/assets/search"
)

// NewCatalog は48ツールを登録したレジストリを作成
// 相対パスはExecutorのベースURLに、絶対URLはそのまま解決される
func NewCatalog(services ServiceEndpoints) (*tool.Registry, error) {
	blender := serviceURL(services.Blender)
	threejs := serviceURL(services.ThreeJS)
	midas := serviceURL(services.MiDaS)
	triposr := serviceURL(services.TripoSR)

	defs := []tool.Definition{
		// 生成
		{Name: "ProceduralGenerate", Category: tool.CategoryGeneration, Endpoint: threejs("/api/create-object"),
			Description: "Fast code-driven generation of simple 3D shapes (cube, sphere, cylinder) for prototypes."},
		{Name: "AdvancedGenerate", Category: tool.CategoryGeneration, Endpoint: blender("/api/advanced-generate"),
			Description: "Detailed models with anatomy and rigging (grease-pencil or blender-style methods)."},
		{Name: "RealisticGenerate", Category: tool.CategoryGeneration, Endpoint: blender("/api/realistic-generate"),
			Description: "Realistic characters, objects or environments with HD textures."},
		{Name: "TextureGenerate", Category: tool.CategoryGeneration, Endpoint: "/api/generate-texture",
			Description: "PBR texture maps (albedo, normal, roughness, metallic) at 1K, 2K or 4K."},

		// 再構成
		{Name: "MiDaSCreateSession", Category: tool.CategoryReconstruction, Endpoint: midas("/api/create_session"),
			Description: "Opens a multi-view photogrammetry session for scanning a real object."},
		{Name: "MiDaSUploadImage", Category: tool.CategoryReconstruction,
			Description: "Adds a photo to a photogrammetry session (3 minimum, 8 to 20 recommended)."},
		{Name: "MiDaSGenerateMesh", Category: tool.CategoryReconstruction,
			Description: "Builds the final mesh from uploaded views at low, medium or high quality."},
		{Name: "TripoSRImageTo3D", Category: tool.CategoryReconstruction, Endpoint: triposr("/api/generate"),
			Description: "Converts a single image into a complete 3D model."},

		// アニメーション
		{Name: "GenerateAnimation", Category: tool.CategoryAnimation, Endpoint: blender("/api/generate-animation"),
			Description: "Generates animation keyframes for a described movement and duration."},
		{Name: "CameraAnimation", Category: tool.CategoryAnimation, Endpoint: pathCameraControl,
			Description: "Cinematic camera moves: orbit, dolly, pan, shake, follow."},
		{Name: "KeyframesCreate", Category: tool.CategoryAnimation, Endpoint: blender("/api/generate-animation"),
			Description: "Creates explicit keyframes for positions, rotations and scales."},
		{Name: "OrganicMovement", Category: tool.CategoryAnimation, Endpoint: blender("/api/organic-movement"),
			Description: "Motion-capture style locomotion: walk, run, jump, fly, swim, idle."},

		// メッシュ編集
		{Name: "RepairMesh", Category: tool.CategoryMesh, Endpoint: "/api/mesh/repair",
			Description: "Fills holes, fixes flipped faces and merges duplicate vertices."},
		{Name: "OptimizeMesh", Category: tool.CategoryMesh, Endpoint: "/api/mesh/optimize",
			Description: "Reduces polygon count toward a target budget."},
		{Name: "SubdivideMesh", Category: tool.CategoryMesh, Endpoint: "/api/mesh/subdivide",
			Description: "Increases mesh resolution by subdivision."},
		{Name: "TransformMesh", Category: tool.CategoryMesh, Endpoint: threejs("/api/transform-mesh"),
			Description: "Translates, rotates or scales a mesh."},
		{Name: "MergeMeshes", Category: tool.CategoryMesh, Endpoint: "/api/mesh/merge",
			Description: "Merges several meshes into one object."},
		{Name: "BooleanOperation", Category: tool.CategoryMesh, Endpoint: "/api/mesh/boolean",
			Description: "CSG union, subtract or intersect."},

		// 計測・解析
		{Name: "MeasureDistance", Category: tool.CategoryMeasure,
			Description: "Distance in meters between two points or objects."},
		{Name: "MeasureVolume", Category: tool.CategoryMeasure,
			Description: "Volume, surface area and center of mass of a mesh."},
		{Name: "CalculateBounds", Category: tool.CategoryMeasure,
			Description: "Axis-aligned bounding box of an object."},
		{Name: "DetectCollisions", Category: tool.CategoryMeasure,
			Description: "Lists intersecting object pairs in the scene."},
		{Name: "AnalyzeScene", Category: tool.CategoryMeasure,
			Description: "Scene summary: objects, cameras, lights and performance counters."},

		// 3Dプリント
		{Name: "SliceMesh", Category: tool.CategoryPrinting,
			Description: "Slices a mesh into printable layers (G-code)."},
		{Name: "GenerateSupports", Category: tool.CategoryPrinting,
			Description: "Generates print supports above an overhang threshold."},
		{Name: "OrientForPrint", Category: tool.CategoryPrinting,
			Description: "Chooses a print orientation minimizing supports."},
		{Name: "CheckPrintability", Category: tool.CategoryPrinting,
			Description: "Detects thin walls, floating islands and extreme overhangs."},

		// 入出力
		{Name: "ExportGLTF", Category: tool.CategoryImportExport, Endpoint: "/api/export/gltf",
			Description: "Exports GLTF/GLB for the web with animations and textures."},
		{Name: "ExportOBJ", Category: tool.CategoryImportExport, Endpoint: "/api/export/obj",
			Description: "Exports OBJ with MTL materials."},
		{Name: "ExportSTL", Category: tool.CategoryImportExport,
			Description: "Exports STL for slicers."},
		{Name: "ExportFBX", Category: tool.CategoryImportExport,
			Description: "Exports FBX for game engines."},
		{Name: "ImportMesh", Category: tool.CategoryImportExport,
			Description: "Imports OBJ, STL, GLTF/GLB, FBX, PLY or DAE files."},

		// UI
		{Name: "ToggleAxisWidget", Category: tool.CategoryInterface,
			Description: "Shows or hides the XYZ orientation widget."},

		// カメラ
		{Name: "CameraOrbit360", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Full orbit around the scene with duration, height and radius."},
		{Name: "CameraMove", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Moves the camera forward, backward, left, right, up or down."},
		{Name: "CameraRotate", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Rotates the camera around an axis by a number of degrees."},
		{Name: "CameraFlyTo", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Eased flight to a 3D position."},
		{Name: "CameraLookAt", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Points the camera at a target position."},
		{Name: "CameraZoom", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Zooms by a factor (above 1 closer, below 1 farther)."},
		{Name: "CameraPan", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Parallel horizontal or vertical pan."},
		{Name: "CameraShake", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Shake effect with intensity from 0.1 to 1.0."},
		{Name: "CameraPreset", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Preset viewpoints: front, back, left, right, top, bottom, iso."},
		{Name: "CameraStop", Category: tool.CategoryCamera, Endpoint: pathCameraControl,
			Description: "Stops any running camera animation."},

		// アセット検索
		{Name: "Search3DModels", Category: tool.CategoryAssets, Endpoint: pathAssetsSearch,
			Description: "Searches free CC0/CC-BY 3D models."},
		{Name: "SearchTextures", Category: tool.CategoryAssets, Endpoint: pathAssetsSearch,
			Description: "Searches free CC0 PBR textures."},
		{Name: "FetchCompleteAsset", Category: tool.CategoryAssets, Endpoint: "/api/assets/fetch",
			Description: "Finds models and textures for a composite request."},
		{Name: "WebSearch", Category: tool.CategoryAssets,
			Description: "Web search for references and tutorials."},

		// システム
		{Name: "ListCapabilities", Category: tool.CategorySystem,
			Description: "Lists every available capability with its description."},
	}

	return tool.NewRegistry(defs)
}

// serviceURL はベースURLにパスを連結する関数を返す
func serviceURL(base string) func(path string) string {
	base = strings.TrimRight(base, "/")
	return func(path string) string {
		return base + path
	}
}
