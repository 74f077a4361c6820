package tool

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTool は同名ツールの二重登録
	ErrDuplicateTool = errors.New("duplicate tool")
	// ErrToolNotFound は未登録ツールの参照
	ErrToolNotFound = errors.New("tool not found")
)

// Registry はツール名をキーとする読み取り専用カタログ
// 構築後は変更されないため、並行読み取りに同期は不要
type Registry struct {
	tools map[string]Definition
	order []string // 登録順
}

// NewRegistry は定義一覧からRegistryを作成
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Definition, len(defs)),
		order: make([]string, 0, len(defs)),
	}

	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("tool definition without name")
		}
		if _, exists := r.tools[def.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
		}
		r.tools[def.Name] = def
		r.order = append(r.order, def.Name)
	}

	return r, nil
}

// Describe はツールの説明を返す
func (r *Registry) Describe(name string) (string, bool) {
	def, ok := r.tools[name]
	if !ok {
		return "", false
	}
	return def.Description, true
}

// Endpoint はツールの呼び出し先を返す（未登録・呼び出し先なしはfalse）
func (r *Registry) Endpoint(name string) (string, bool) {
	def, ok := r.tools[name]
	if !ok || !def.HasEndpoint() {
		return "", false
	}
	return def.Endpoint, true
}

// List は登録順の定義一覧を返す
func (r *Registry) List() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name])
	}
	return defs
}

// Len は登録ツール数を返す
func (r *Registry) Len() int {
	return len(r.order)
}
