package server

import "encoding/json"

// 入站事件名
const (
	EventCreateRoom  = "create-room"
	EventJoinRoom    = "join-room"
	EventStartGame   = "start-game"
	EventRollRequest = "roll-request"
	EventMoveMade    = "move-made"
	EventTurnAdvance = "turn-advance"
	EventClientError = "client-error"
)

// Envelope WebSocket 文本帧的统一结构（双向）
// 示例：{"event":"join-room","data":{"roomId":"ABCDE","name":"alice"}}
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type createRoomMessage struct {
	Name string `json:"name"`
}

type joinRoomMessage struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// 走子内容对服务端不透明，原样转发
type moveMessage struct {
	Move json.RawMessage `json:"move"`
}

type turnAdvanceMessage struct {
	NextIndex *int `json:"nextIndex"`
}

type clientErrorMessage struct {
	Message string          `json:"message"`
	Stack   string          `json:"stack"`
	Context json.RawMessage `json:"context"`
}
