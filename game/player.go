package game

// Handle 连接句柄：传输层为每条连接分配的不透明标识
type Handle string

// Player 房间内的玩家：句柄 + 显示名称
// JSON 字段与客户端约定一致（id/name）
type Player struct {
	Handle Handle `json:"id"`
	Name   string `json:"name"`
}

// Snapshot 房间状态的只读副本，用于广播与管理接口
type Snapshot struct {
	RoomID       string   `json:"roomId"`
	HostID       Handle   `json:"hostId"`
	Players      []Player `json:"players"`
	Started      bool     `json:"started"`
	CurrentIndex int      `json:"currentIndex"`
}
