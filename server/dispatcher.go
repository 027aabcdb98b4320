package server

import (
	"encoding/json"

	"go.uber.org/zap"

	"cowrie/game"
)

// Dispatcher 把入站事件翻译为注册表/回合状态机操作
// 状态变更及其广播在 game 内部的房间锁内完成；这里负责错误回报、计数与日志
type Dispatcher struct {
	rooms   *game.Registry
	out     game.Broadcaster
	dice    game.Source
	metrics *Metrics
	log     *zap.Logger
}

func NewDispatcher(rooms *game.Registry, out game.Broadcaster, dice game.Source, metrics *Metrics, log *zap.Logger) *Dispatcher {
	return &Dispatcher{rooms: rooms, out: out, dice: dice, metrics: metrics, log: log}
}

// Connect 新连接接入
func (d *Dispatcher) Connect(h game.Handle) {
	d.metrics.IncConnections()
	d.log.Info("connect", zap.String("handle", string(h)))
}

// Disconnect 连接断开：离开所在房间，最后一人离开时房间被销毁
func (d *Dispatcher) Disconnect(h game.Handle) {
	d.metrics.DecActive()
	d.log.Info("disconnect", zap.String("handle", string(h)))

	dep, ok := d.rooms.Leave(h)
	if !ok {
		return
	}
	if dep.Emptied {
		d.log.Info("room removed", zap.String("room", dep.RoomID))
		return
	}
	if dep.HostChanged {
		d.log.Info("host migrated",
			zap.String("room", dep.RoomID),
			zap.String("host", string(dep.Host)),
		)
	}
}

// Dispatch 处理一个入站事件；协议违规静默忽略，返回 Denied
func (d *Dispatcher) Dispatch(h game.Handle, env Envelope) game.Outcome {
	switch env.Event {
	case EventCreateRoom:
		var msg createRoomMessage
		if !d.decode(h, env, &msg) {
			return game.Denied
		}
		return d.createRoom(h, msg)
	case EventJoinRoom:
		var msg joinRoomMessage
		if !d.decode(h, env, &msg) {
			return game.Denied
		}
		return d.joinRoom(h, msg)
	case EventStartGame:
		return d.startGame(h)
	case EventRollRequest:
		return d.roll(h)
	case EventMoveMade:
		var msg moveMessage
		if !d.decode(h, env, &msg) {
			return game.Denied
		}
		return d.move(h, msg)
	case EventTurnAdvance:
		var msg turnAdvanceMessage
		if !d.decode(h, env, &msg) || msg.NextIndex == nil {
			return game.Denied
		}
		return d.advance(h, *msg.NextIndex)
	case EventClientError:
		var msg clientErrorMessage
		_ = json.Unmarshal(env.Data, &msg)
		d.clientError(h, msg)
		return game.Applied
	default:
		d.log.Debug("unknown event", zap.String("handle", string(h)), zap.String("event", env.Event))
		return game.Denied
	}
}

func (d *Dispatcher) createRoom(h game.Handle, msg createRoomMessage) game.Outcome {
	room, err := d.rooms.Create(h, msg.Name)
	if err != nil {
		d.reject(h, err)
		return game.Denied
	}
	d.metrics.IncRoomsCreated()
	d.log.Info("room created", zap.String("room", room.ID), zap.String("handle", string(h)))
	return game.Applied
}

func (d *Dispatcher) joinRoom(h game.Handle, msg joinRoomMessage) game.Outcome {
	room, outcome, err := d.rooms.Join(msg.RoomID, h, msg.Name)
	if err != nil {
		d.reject(h, err)
		return game.Denied
	}
	if outcome == game.Applied {
		d.log.Info("joined room", zap.String("room", room.ID), zap.String("handle", string(h)))
	}
	return outcome
}

func (d *Dispatcher) startGame(h game.Handle) game.Outcome {
	room, _, ok := d.rooms.FindBySocket(h)
	if !ok {
		return game.Denied
	}
	outcome := room.Start(h)
	if outcome == game.Applied {
		d.metrics.IncGamesStarted()
		d.log.Info("game started", zap.String("room", room.ID))
	}
	return outcome
}

func (d *Dispatcher) roll(h game.Handle) game.Outcome {
	room, _, ok := d.rooms.FindBySocket(h)
	if !ok {
		return game.Denied
	}
	res, outcome := room.RequestRoll(h, d.dice)
	if outcome == game.Applied {
		d.metrics.IncRolls()
		d.log.Debug("roll",
			zap.String("room", room.ID),
			zap.Int("seat", res.Seat),
			zap.Int("roll", res.Value),
			zap.Bool("forced", res.Forced),
		)
	}
	return outcome
}

func (d *Dispatcher) move(h game.Handle, msg moveMessage) game.Outcome {
	room, _, ok := d.rooms.FindBySocket(h)
	if !ok {
		return game.Denied
	}
	outcome := room.SubmitMove(h, msg.Move)
	if outcome == game.Applied {
		d.metrics.IncMoves()
	}
	return outcome
}

func (d *Dispatcher) advance(h game.Handle, next int) game.Outcome {
	room, _, ok := d.rooms.FindBySocket(h)
	if !ok {
		return game.Denied
	}
	return room.AdvanceTurn(h, next)
}

func (d *Dispatcher) clientError(h game.Handle, msg clientErrorMessage) {
	d.metrics.IncClientErrors()
	message := msg.Message
	if message == "" {
		message = "unknown"
	}
	fields := []zap.Field{zap.String("handle", string(h)), zap.String("message", message)}
	if msg.Stack != "" {
		fields = append(fields, zap.String("stack", msg.Stack))
	}
	if len(msg.Context) > 0 {
		fields = append(fields, zap.ByteString("context", msg.Context))
	}
	d.log.Warn("client error", fields...)
}

// reject 用户输入错误只回报给发起连接
func (d *Dispatcher) reject(h game.Handle, err error) {
	if !game.IsUserInput(err) {
		d.log.Error("unexpected room error", zap.String("handle", string(h)), zap.Error(err))
		return
	}
	d.metrics.IncJoinErrors()
	d.out.Send(h, game.EventJoinError, game.JoinError{Message: err.Error()})
}

func (d *Dispatcher) decode(h game.Handle, env Envelope, v any) bool {
	if len(env.Data) == 0 {
		return true
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		d.log.Debug("malformed payload",
			zap.String("handle", string(h)),
			zap.String("event", env.Event),
			zap.Error(err),
		)
		return false
	}
	return true
}
