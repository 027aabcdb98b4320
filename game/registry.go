package game

import (
	"sort"
	"strings"
	"sync"
)

// Registry 管理所有存活房间的生命周期
// 锁顺序固定为 Registry.mu -> Room.mu，Room 的方法从不回调 Registry
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	seats map[Handle]*Room // 反向索引，与各房间名单保持一致

	src Source
	out Broadcaster
}

// NewRegistry 创建空注册表；src 用于生成房间号
func NewRegistry(out Broadcaster, src Source) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		seats: make(map[Handle]*Room),
		src:   src,
		out:   out,
	}
}

// Departure 断线移除的结果
type Departure struct {
	RoomID      string
	Seat        int
	Emptied     bool // 房间因此被销毁
	HostChanged bool
	Host        Handle
}

// Create 以 h 为房主创建房间，房间号在插入前反复抽取直到不冲突
func (g *Registry) Create(h Handle, name string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, seated := g.seats[h]; seated {
		return nil, ErrAlreadySeated
	}
	id := newRoomID(g.src)
	for {
		if _, taken := g.rooms[id]; !taken {
			break
		}
		id = newRoomID(g.src)
	}
	room := newRoom(id, Player{Handle: h, Name: name}, g.out)
	g.rooms[id] = room
	g.seats[h] = room

	room.mu.Lock()
	defer room.mu.Unlock()
	g.out.Subscribe(id, h)
	g.out.Send(h, EventRoomCreated, RoomRef{RoomID: id, HostID: h})
	room.broadcastLobby()
	return room, nil
}

// Join 加入房间；已在该房间内时为空操作（Denied，无错误）
func (g *Registry) Join(id string, h Handle, name string) (*Room, Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Denied, ErrNameRequired
	}
	id = strings.ToUpper(strings.TrimSpace(id))

	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	if !ok {
		return nil, Denied, ErrRoomNotFound
	}
	if cur, seated := g.seats[h]; seated && cur != room {
		return nil, Denied, ErrAlreadySeated
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	added, err := room.addPlayer(Player{Handle: h, Name: name})
	if err != nil {
		return nil, Denied, err
	}
	if !added {
		return room, Denied, nil
	}
	g.seats[h] = room
	g.out.Subscribe(id, h)
	g.out.Send(h, EventRoomJoined, RoomRef{RoomID: id, HostID: room.host})
	room.broadcastLobby()
	return room, Applied, nil
}

// Find 按房间号查找
func (g *Registry) Find(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[id]
	return room, ok
}

// FindBySocket 按连接句柄查找所在房间与座位号
func (g *Registry) FindBySocket(h Handle) (*Room, int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.seats[h]
	if !ok {
		return nil, -1, false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	seat := room.seatOf(h)
	if seat < 0 {
		return nil, -1, false
	}
	return room, seat, true
}

// Leave 断线处理：移出名单；最后一人离开时销毁房间，否则广播名单与回合位
func (g *Registry) Leave(h Handle) (Departure, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.seats[h]
	if !ok {
		return Departure{}, false
	}
	delete(g.seats, h)

	room.mu.Lock()
	defer room.mu.Unlock()
	wasHost := room.host == h
	seat := room.removePlayer(h)
	g.out.Unsubscribe(room.ID, h)

	d := Departure{RoomID: room.ID, Seat: seat}
	if len(room.players) == 0 {
		room.closed = true
		delete(g.rooms, room.ID)
		d.Emptied = true
		return d, true
	}
	d.Host = room.host
	d.HostChanged = wasHost
	room.broadcastLobby()
	room.broadcastTurn()
	return d, true
}

// Remove 强制移除房间及其全部座位
func (g *Registry) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[id]
	if !ok {
		return
	}
	delete(g.rooms, id)

	room.mu.Lock()
	defer room.mu.Unlock()
	for _, p := range room.players {
		delete(g.seats, p.Handle)
		g.out.Unsubscribe(id, p.Handle)
	}
	room.players = nil
	room.closed = true
}

// Stats 存活房间数与在座玩家数
func (g *Registry) Stats() (rooms, players int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms), len(g.seats)
}

// Snapshots 按房间号排序的全部房间快照
func (g *Registry) Snapshots() []Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Snapshot, 0, len(g.rooms))
	for _, room := range g.rooms {
		out = append(out, room.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}
