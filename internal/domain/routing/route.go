package routing

// Route はディスパッチ先を表す型
type Route string

// ルーティングカテゴリの定数定義
const (
	RouteSimple       Route = "simple"       // 単一の直接コマンド
	RouteOrchestrated Route = "orchestrated" // 複数ステップの計画が必要
)

// String はRouteの文字列表現を返す
func (r Route) String() string {
	return string(r)
}

// IsOrchestrated はオーケストレーションが必要なルートかを判定
func (r Route) IsOrchestrated() bool {
	return r == RouteOrchestrated
}

// ActionName は単純ルートで実行されるアクション名
type ActionName string

// アクションの定数定義
const (
	ActionCameraOrbit   ActionName = "camera_orbit"
	ActionCameraZoom    ActionName = "camera_zoom"
	ActionRemoveObjects ActionName = "remove_objects"
	ActionClearScene    ActionName = "clear_scene"
	ActionOrchestrate   ActionName = "orchestrate"
)

// Action は分類結果として返される直接アクション
type Action struct {
	Name   ActionName     `json:"action"`
	Tool   string         `json:"tool,omitempty"` // 対応するレジストリのツール（存在する場合）
	Params map[string]any `json:"params"`
}

// NewAction は新しいActionを作成
func NewAction(name ActionName, tool string, params map[string]any) Action {
	if params == nil {
		params = map[string]any{}
	}
	return Action{
		Name:   name,
		Tool:   tool,
		Params: params,
	}
}

// Signals はプロンプトから抽出したシグナル
type Signals struct {
	Numbers      []int    `json:"numbers"`       // 出現順の数値
	TextureQuery string   `json:"texture_query"` // テクスチャ種別（既定値 "default"）
	Directions   []string `json:"directions"`    // カメラの移動方向
}

// FirstNumber は最初の数値を返す
func (s Signals) FirstNumber() (int, bool) {
	if len(s.Numbers) == 0 {
		return 0, false
	}
	return s.Numbers[0], true
}

// Classification は分類器の判定結果
type Classification struct {
	IsComplex bool    `json:"is_complex"`
	Route     Route   `json:"route"`
	Action    Action  `json:"action"`
	Signals   Signals `json:"signals"`
}
