package server

import (
	"encoding/json"
	"net/http"

	"cowrie/game"
)

// NewRouter 组装 HTTP 路由：WS 接入、状态接口、管理接口与静态资源
func NewRouter(staticDir string, ws http.Handler, rooms *game.Registry, metrics *Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.HandleFunc("/health", HandleHealth(metrics))
	mux.HandleFunc("/metrics", HandleMetrics(metrics))
	mux.Handle("/metrics/prometheus", metrics.PrometheusHandler())
	mux.HandleFunc("/admin/rooms", HandleAdminRooms(rooms))
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	return mux
}

// HandleHealth 存活探针
// GET /health  返回启动时间与运行秒数
func HandleHealth(m *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"ok":        true,
			"startedAt": m.StartedAt().UnixMilli(),
			"uptime":    m.Uptime(),
		})
	}
}

// HandleMetrics 输出计数器与实时房间/玩家数
// GET /metrics
func HandleMetrics(m *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, m.Snapshot())
	}
}

// HandleAdminRooms 只读列出所有房间快照
// GET /admin/rooms
// GET /admin/rooms?id=ABCDE  只返回指定房间
func HandleAdminRooms(rooms *game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if id := r.URL.Query().Get("id"); id != "" {
			room, ok := rooms.Find(id)
			if !ok {
				http.Error(w, "room not found", http.StatusNotFound)
				return
			}
			writeJSON(w, room.Snapshot())
			return
		}
		writeJSON(w, rooms.Snapshots())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
