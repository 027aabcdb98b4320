package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"cowrie/game"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type fixture struct {
	hub      *Hub
	rooms    *game.Registry
	metrics  *Metrics
	dispatch *Dispatcher
	conns    map[game.Handle]*ClientConn
}

func newFixture(t *testing.T, dice game.Source) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	hub := NewHub(log)
	rooms := game.NewRegistry(hub, game.NewCryptoSource())
	metrics := NewMetrics(rooms)
	return &fixture{
		hub:      hub,
		rooms:    rooms,
		metrics:  metrics,
		dispatch: NewDispatcher(rooms, hub, dice, metrics, log),
		conns:    make(map[game.Handle]*ClientConn),
	}
}

// connect 登记一个不带真实 socket 的连接，只读取其发送队列
func (f *fixture) connect(h game.Handle) *ClientConn {
	c := &ClientConn{send: make(chan []byte, 64)}
	f.hub.Register(h, c)
	f.dispatch.Connect(h)
	f.conns[h] = c
	return c
}

func (f *fixture) disconnect(h game.Handle) {
	f.dispatch.Disconnect(h)
	f.hub.Unregister(h)
}

func (f *fixture) send(t *testing.T, h game.Handle, event string, data any) game.Outcome {
	t.Helper()
	env := Envelope{Event: event}
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		env.Data = b
	}
	return f.dispatch.Dispatch(h, env)
}

// drain 取出连接队列中已有的全部帧
func drain(t *testing.T, c *ClientConn) []frame {
	t.Helper()
	var out []frame
	for {
		select {
		case b, ok := <-c.send:
			if !ok {
				return out
			}
			var f frame
			require.NoError(t, json.Unmarshal(b, &f))
			out = append(out, f)
		default:
			return out
		}
	}
}

func (f *fixture) drainAll(t *testing.T) {
	for _, c := range f.conns {
		drain(t, c)
	}
}

func events(frames []frame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Event
	}
	return out
}

func decodeData[T any](t *testing.T, f frame) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(f.Data, &v))
	return v
}

type fixedSource int

func (s fixedSource) Intn(n int) int { return int(s) % n }
