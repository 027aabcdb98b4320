package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsSource 提供房间与在座玩家的实时数量
type StatsSource interface {
	Stats() (rooms, players int)
}

// Metrics 进程级计数器；核心逻辑只负责"事件发生了"，这里负责累加
type Metrics struct {
	startedAt time.Time
	stats     StatsSource

	connections   int64
	activeSockets int64
	roomsCreated  int64
	gamesStarted  int64
	rolls         int64
	moves         int64
	joinErrors    int64
	clientErrors  int64

	prom *prometheus.Registry
}

// MetricsSnapshot /metrics 的 JSON 输出
type MetricsSnapshot struct {
	StartedAt     int64 `json:"startedAt"`
	Connections   int64 `json:"connections"`
	ActiveSockets int64 `json:"activeSockets"`
	RoomsCreated  int64 `json:"roomsCreated"`
	GamesStarted  int64 `json:"gamesStarted"`
	Rolls         int64 `json:"rolls"`
	Moves         int64 `json:"moves"`
	JoinErrors    int64 `json:"joinErrors"`
	ClientErrors  int64 `json:"clientErrors"`
	RoomsActive   int   `json:"roomsActive"`
	PlayersActive int   `json:"playersActive"`
	UptimeSeconds int64 `json:"uptimeSeconds"`
}

// NewMetrics 创建计数器并注册到独立的 prometheus registry
func NewMetrics(stats StatsSource) *Metrics {
	m := &Metrics{startedAt: time.Now(), stats: stats, prom: prometheus.NewRegistry()}

	counter := func(name, help string, v *int64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "cowrie", Name: name, Help: help,
		}, func() float64 { return float64(atomic.LoadInt64(v)) })
	}
	gauge := func(name, help string, f func() float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "cowrie", Name: name, Help: help,
		}, f)
	}
	m.prom.MustRegister(
		counter("connections_total", "Accepted websocket connections.", &m.connections),
		counter("rooms_created_total", "Rooms created.", &m.roomsCreated),
		counter("games_started_total", "Games moved from lobby to active.", &m.gamesStarted),
		counter("rolls_total", "Shell rolls.", &m.rolls),
		counter("moves_total", "Relayed moves.", &m.moves),
		counter("join_errors_total", "Rejected create/join requests.", &m.joinErrors),
		counter("client_errors_total", "Errors reported by clients.", &m.clientErrors),
		gauge("active_sockets", "Open websocket connections.", func() float64 {
			return float64(atomic.LoadInt64(&m.activeSockets))
		}),
		gauge("rooms_active", "Live rooms.", func() float64 {
			rooms, _ := m.stats.Stats()
			return float64(rooms)
		}),
		gauge("players_active", "Seated players.", func() float64 {
			_, players := m.stats.Stats()
			return float64(players)
		}),
	)
	return m
}

func (m *Metrics) IncConnections() {
	atomic.AddInt64(&m.connections, 1)
	atomic.AddInt64(&m.activeSockets, 1)
}
func (m *Metrics) IncRoomsCreated() { atomic.AddInt64(&m.roomsCreated, 1) }
func (m *Metrics) IncGamesStarted() { atomic.AddInt64(&m.gamesStarted, 1) }
func (m *Metrics) IncRolls()        { atomic.AddInt64(&m.rolls, 1) }
func (m *Metrics) IncMoves()        { atomic.AddInt64(&m.moves, 1) }
func (m *Metrics) IncJoinErrors()   { atomic.AddInt64(&m.joinErrors, 1) }
func (m *Metrics) IncClientErrors() { atomic.AddInt64(&m.clientErrors, 1) }

// DecActive 连接断开，活跃数不低于 0
func (m *Metrics) DecActive() {
	for {
		cur := atomic.LoadInt64(&m.activeSockets)
		if cur <= 0 {
			return
		}
		if atomic.CompareAndSwapInt64(&m.activeSockets, cur, cur-1) {
			return
		}
	}
}

// StartedAt 进程启动时间
func (m *Metrics) StartedAt() time.Time { return m.startedAt }

// Uptime 已运行秒数
func (m *Metrics) Uptime() int64 { return int64(time.Since(m.startedAt) / time.Second) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() MetricsSnapshot {
	rooms, players := m.stats.Stats()
	return MetricsSnapshot{
		StartedAt:     m.startedAt.UnixMilli(),
		Connections:   atomic.LoadInt64(&m.connections),
		ActiveSockets: atomic.LoadInt64(&m.activeSockets),
		RoomsCreated:  atomic.LoadInt64(&m.roomsCreated),
		GamesStarted:  atomic.LoadInt64(&m.gamesStarted),
		Rolls:         atomic.LoadInt64(&m.rolls),
		Moves:         atomic.LoadInt64(&m.moves),
		JoinErrors:    atomic.LoadInt64(&m.joinErrors),
		ClientErrors:  atomic.LoadInt64(&m.clientErrors),
		RoomsActive:   rooms,
		PlayersActive: players,
		UptimeSeconds: m.Uptime(),
	}
}

// PrometheusHandler prometheus 文本格式输出
func (m *Metrics) PrometheusHandler() http.Handler {
	return promhttp.HandlerFor(m.prom, promhttp.HandlerOpts{})
}
