package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Nyukimin/kibalone_studio/internal/application/orchestrator"
	"github.com/Nyukimin/kibalone_studio/internal/domain/execution"
	"github.com/Nyukimin/kibalone_studio/internal/domain/task"
)

// writeWait は1メッセージの書き込み期限
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// StreamMessage はWebSocketで送るメッセージ
type StreamMessage struct {
	Type  string                            `json:"type"` // log / result / error
	Entry *execution.Entry                  `json:"entry,omitempty"`
	Data  *orchestrator.OrchestrateResponse `json:"data,omitempty"`
	Error string                            `json:"error,omitempty"`
}

// handleStream は1件の要求を受け取り、実行ログを逐次送信してから結果を送る
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	var body PromptRequest
	if err := conn.ReadJSON(&body); err != nil {
		h.send(conn, StreamMessage{Type: "error", Error: "invalid JSON"})
		return
	}

	mode, err := parseRequestMode(body.Mode)
	if err != nil {
		h.send(conn, StreamMessage{Type: "error", Error: err.Error()})
		return
	}

	// ログはExecutorから同じゴルーチンで同期的に届くため、書き込みは直列になる
	resp, err := h.orchestrator.Orchestrate(r.Context(), orchestrator.OrchestrateRequest{
		Prompt:  body.Prompt,
		Execute: body.Execute,
		Mode:    mode,
		Source:  task.SourceWebSocket,
		OnLog: func(entry execution.Entry) {
			h.send(conn, StreamMessage{Type: "log", Entry: &entry})
		},
	})
	if err != nil {
		h.send(conn, StreamMessage{Type: "error", Error: err.Error()})
		return
	}

	h.send(conn, StreamMessage{Type: "result", Data: &resp})
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(writeWait),
	)
}

// send はメッセージを書き込む（切断済みなら記録のみ）
func (h *Handler) send(conn *websocket.Conn, msg StreamMessage) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug().Err(err).Str("type", msg.Type).Msg("ws write failed")
	}
}
