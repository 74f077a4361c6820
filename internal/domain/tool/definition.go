// Package tool はツールレジストリ（名前付き機能とその呼び出し先の静的カタログ）を定義する
package tool

import "strings"

// Category はツールの分類
type Category string

// ツール分類の定数定義
const (
	CategoryGeneration     Category = "generation"
	CategoryReconstruction Category = "reconstruction"
	CategoryAnimation      Category = "animation"
	CategoryMesh           Category = "mesh"
	CategoryMeasure        Category = "measure"
	CategoryPrinting       Category = "printing"
	CategoryImportExport   Category = "import_export"
	CategoryInterface      Category = "interface"
	CategoryCamera         Category = "camera"
	CategoryAssets         Category = "assets"
	CategorySystem         Category = "system"
)

// Definition はツール定義（起動時に生成され、以後変更されない）
type Definition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Endpoint    string   `json:"endpoint,omitempty"` // 空文字は呼び出し先なし
}

// HasEndpoint は呼び出し先が設定されているかを判定
func (d Definition) HasEndpoint() bool {
	return d.Endpoint != ""
}

// IsAbsoluteEndpoint はエンドポイント文字列が絶対URLかを判定
func IsAbsoluteEndpoint(endpoint string) bool {
	return strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://")
}
