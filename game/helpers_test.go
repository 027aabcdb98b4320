package game

import "sync"

type sent struct {
	To      Handle
	Room    string
	Event   string
	Payload any
}

// recorder 记录所有出站消息的 Broadcaster
type recorder struct {
	mu     sync.Mutex
	log    []sent
	groups map[string]map[Handle]bool
}

func newRecorder() *recorder {
	return &recorder{groups: make(map[string]map[Handle]bool)}
}

func (r *recorder) Subscribe(roomID string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.groups[roomID] == nil {
		r.groups[roomID] = make(map[Handle]bool)
	}
	r.groups[roomID][h] = true
}

func (r *recorder) Unsubscribe(roomID string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups[roomID], h)
	if len(r.groups[roomID]) == 0 {
		delete(r.groups, roomID)
	}
}

func (r *recorder) Send(h Handle, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, sent{To: h, Event: event, Payload: payload})
}

func (r *recorder) Broadcast(roomID string, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, sent{Room: roomID, Event: event, Payload: payload})
}

func (r *recorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.log))
	for i, s := range r.log {
		out[i] = s.Event
	}
	return out
}

func (r *recorder) last(event string) (sent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.log) - 1; i >= 0; i-- {
		if r.log[i].Event == event {
			return r.log[i], true
		}
	}
	return sent{}, false
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = nil
}

func (r *recorder) members(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups[roomID])
}

// seqSource 按给定序列循环输出的确定性随机源
type seqSource struct {
	mu   sync.Mutex
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}
