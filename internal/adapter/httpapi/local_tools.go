package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// pathCameraControl はカメラ系ツールの呼び出し先（Three.jsビューアが実際の移動を行う）
const pathCameraControl = "/api/camera-control"

// pathGenerateTexture はテクスチャ生成の呼び出し先
const pathGenerateTexture = "/api/generate-texture"

// simulatedPrefixes はバックエンド実装のないツール群の呼び出し先
// 受け取ったパラメータをそのまま返して成功扱いにする
var simulatedPrefixes = []string{"/api/mesh/", "/api/assets/", "/api/export/"}

// simulatedAction はパスがシミュレーション対象ならアクション名を返す
func simulatedAction(path string) (string, bool) {
	if path == pathGenerateTexture {
		return "generate-texture", true
	}
	for _, prefix := range simulatedPrefixes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		action := strings.TrimPrefix(path, prefix)
		if action == "" || strings.Contains(action, "/") {
			return "", false
		}
		return action, true
	}
	return "", false
}

// simulatedLabel はメトリクス用にアクション部分を畳んだパスを返す
func simulatedLabel(path string) (string, bool) {
	if path == pathGenerateTexture {
		return path, true
	}
	if _, ok := simulatedAction(path); !ok {
		return "", false
	}
	for _, prefix := range simulatedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return prefix + "*", true
		}
	}
	return "", false
}

// handleCameraControl はカメラ操作をビューア向けのコマンドに変換して返す
func (h *Handler) handleCameraControl(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeToolParams(w, r)
	if !ok {
		return
	}

	command := cameraCommand(params)
	h.logger.Info().Str("command", command).Msg("camera control")

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"command": command,
		"params":  params,
	})
}

// cameraCommand はパラメータの形からカメラ操作の種類を判定
func cameraCommand(params map[string]any) string {
	switch {
	case params["preset"] != nil:
		return "preset"
	case params["factor"] != nil:
		return "zoom"
	case params["radius"] != nil:
		return "orbit"
	case params["direction"] != nil:
		return "move"
	default:
		return "update"
	}
}

// handleSimulatedTool は未実装ツールの呼び出しを成功として返す
func (h *Handler) handleSimulatedTool(w http.ResponseWriter, r *http.Request, action string) {
	params, ok := decodeToolParams(w, r)
	if !ok {
		return
	}

	h.logger.Info().Str("tool", action).Msg("simulated tool call")

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"tool":    action,
		"message": action + " simulated",
		"params":  params,
	})
}

// decodeToolParams はツール呼び出しのJSONボディを読み込む（空ボディは空のパラメータ）
func decodeToolParams(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	params := map[string]any{}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&params)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, false
	}
	if params == nil {
		params = map[string]any{}
	}
	return params, true
}
