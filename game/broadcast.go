package game

import "encoding/json"

// 出站事件名
const (
	EventRoomCreated  = "room-created"
	EventRoomJoined   = "room-joined"
	EventLobbyUpdate  = "lobby-update"
	EventGameStarted  = "game-started"
	EventTurnAdvanced = "turn-advanced"
	EventRollResult   = "roll-result"
	EventMoveMade     = "move-made"
	EventJoinError    = "join-error"
)

// Broadcaster 传输层的广播分组原语
// 实现必须非阻塞：单个连接投递失败不能影响房间内其他成员
type Broadcaster interface {
	Subscribe(roomID string, h Handle)
	Unsubscribe(roomID string, h Handle)
	Send(h Handle, event string, payload any)
	Broadcast(roomID string, event string, payload any)
}

// RoomRef room-created / room-joined 载荷
type RoomRef struct {
	RoomID string `json:"roomId"`
	HostID Handle `json:"hostId"`
}

// LobbyUpdate 大厅名单变化
type LobbyUpdate struct {
	RoomID  string   `json:"roomId"`
	Players []Player `json:"players"`
	HostID  Handle   `json:"hostId"`
	Started bool     `json:"started"`
}

// GameStarted 开局时的名单与回合位
type GameStarted struct {
	RoomID       string   `json:"roomId"`
	Players      []Player `json:"players"`
	HostID       Handle   `json:"hostId"`
	CurrentIndex int      `json:"currentIndex"`
}

// TurnAdvanced 回合位变化通知
type TurnAdvanced struct {
	CurrentIndex int `json:"currentIndex"`
}

// RollResult 掷贝壳结果
type RollResult struct {
	Roll     int    `json:"roll"`
	PlayerID Handle `json:"playerId"`
}

// MoveMade 原样转发的走子载荷
type MoveMade struct {
	Move     json.RawMessage `json:"move"`
	PlayerID Handle          `json:"playerId"`
}

// JoinError 用户输入错误回报
type JoinError struct {
	Message string `json:"message"`
}
