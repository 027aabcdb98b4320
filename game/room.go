package game

import "sync"

// MaxPlayers 每个房间的座位上限
const MaxPlayers = 4

// Room 一局游戏会话：名单、房主与回合位
// 所有字段只在持有 mu 时读写；状态变更与其广播在同一临界区内完成
type Room struct {
	ID string

	mu      sync.Mutex
	host    Handle
	players []Player // 插入顺序即座位/回合顺序
	started bool     // 只会 false -> true
	current int
	closed  bool // 已从注册表移除

	out Broadcaster
}

func newRoom(id string, host Player, out Broadcaster) *Room {
	return &Room{
		ID:      id,
		host:    host.Handle,
		players: []Player{host},
		out:     out,
	}
}

// Snapshot 返回当前状态副本
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Room) snapshot() Snapshot {
	return Snapshot{
		RoomID:       r.ID,
		HostID:       r.host,
		Players:      r.roster(),
		Started:      r.started,
		CurrentIndex: r.current,
	}
}

// roster 名单副本，广播载荷不能与内部切片共享底层数组
func (r *Room) roster() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

func (r *Room) seatOf(h Handle) int {
	for i, p := range r.players {
		if p.Handle == h {
			return i
		}
	}
	return -1
}

// addPlayer 按到达顺序入座；已入座则视为重复加入，返回 false
func (r *Room) addPlayer(p Player) (bool, error) {
	if r.closed {
		return false, ErrRoomNotFound
	}
	if r.seatOf(p.Handle) >= 0 {
		return false, nil
	}
	if r.started {
		return false, ErrGameStarted
	}
	if len(r.players) >= MaxPlayers {
		return false, ErrRoomFull
	}
	r.players = append(r.players, p)
	return true, nil
}

// removePlayer 断线恢复：移除座位、迁移房主、回收越界的回合位
// 返回移除前的座位号，未找到时为 -1
func (r *Room) removePlayer(h Handle) int {
	seat := r.seatOf(h)
	if seat < 0 {
		return -1
	}
	r.players = append(r.players[:seat], r.players[seat+1:]...)
	if len(r.players) == 0 {
		return seat
	}
	if r.host == h {
		r.host = r.players[0].Handle
	}
	if r.current >= len(r.players) {
		r.current = 0
	}
	return seat
}

func (r *Room) broadcastLobby() {
	r.out.Broadcast(r.ID, EventLobbyUpdate, LobbyUpdate{
		RoomID:  r.ID,
		Players: r.roster(),
		HostID:  r.host,
		Started: r.started,
	})
}

func (r *Room) broadcastTurn() {
	r.out.Broadcast(r.ID, EventTurnAdvanced, TurnAdvanced{CurrentIndex: r.current})
}
