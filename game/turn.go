package game

import "encoding/json"

// Outcome 状态迁移结果；Denied 对客户端静默，只供调用方与测试判断
type Outcome int

const (
	Denied Outcome = iota
	Applied
)

func (o Outcome) String() string {
	if o == Applied {
		return "applied"
	}
	return "denied"
}

// Roll 一次掷贝壳的结果
type Roll struct {
	Value int
	Down  int
	// Forced 为 true 表示掷前回合位被强制推进到请求者
	Forced bool
	Seat   int
}

// Start 大厅 -> 对局，仅当前房主可触发
func (r *Room) Start(h Handle) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.started || h != r.host {
		return Denied
	}
	r.started = true
	r.current = 0
	r.out.Broadcast(r.ID, EventGameStarted, GameStarted{
		RoomID:       r.ID,
		Players:      r.roster(),
		HostID:       r.host,
		CurrentIndex: r.current,
	})
	return Applied
}

// RequestRoll 对局中掷贝壳；请求者不持有回合时先把回合位推进到请求者并广播
func (r *Room) RequestRoll(h Handle, src Source) (Roll, Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat := r.seatOf(h)
	if r.closed || !r.started || seat < 0 {
		return Roll{}, Denied
	}
	var res Roll
	if seat != r.current {
		r.current = seat
		res.Forced = true
		r.broadcastTurn()
	}
	res.Seat = seat
	res.Value, res.Down = RollShells(src)
	r.out.Broadcast(r.ID, EventRollResult, RollResult{Roll: res.Value, PlayerID: h})
	return res, Applied
}

// SubmitMove 原样转发走子载荷，不推进回合
func (r *Room) SubmitMove(h Handle, move json.RawMessage) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ownsTurn(h) {
		return Denied
	}
	r.out.Broadcast(r.ID, EventMoveMade, MoveMade{Move: move, PlayerID: h})
	return Applied
}

// AdvanceTurn 当前回合持有者把回合交给 next；越界的 next 被拒绝
func (r *Room) AdvanceTurn(h Handle, next int) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ownsTurn(h) || next < 0 || next >= len(r.players) {
		return Denied
	}
	r.current = next
	r.broadcastTurn()
	return Applied
}

func (r *Room) ownsTurn(h Handle) bool {
	if r.closed || !r.started {
		return false
	}
	seat := r.seatOf(h)
	return seat >= 0 && seat == r.current
}
