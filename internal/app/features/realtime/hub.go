// internal/app/features/realtime/hub.go
package realtime

import (
	"encoding/json"
	"sync"
)

// wsPeer serializes frame writes to one websocket connection.
type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

// room fans frames out to every subscribed peer of one project.
type room struct {
	mu          sync.Mutex
	projectID   string
	subscribers map[*wsPeer]struct{}
}

func newRoom(projectID string) *room {
	return &room{
		projectID:   projectID,
		subscribers: make(map[*wsPeer]struct{}),
	}
}

func (r *room) join(peer *wsPeer) {
	r.mu.Lock()
	r.subscribers[peer] = struct{}{}
	r.mu.Unlock()
}

// leave removes the peer and reports whether the room is now empty.
func (r *room) leave(peer *wsPeer) bool {
	r.mu.Lock()
	delete(r.subscribers, peer)
	empty := len(r.subscribers) == 0
	r.mu.Unlock()
	return empty
}

// broadcast delivers the frame to every subscriber except the sender.
// Delivery is best effort: a failed write drops that peer's frame only.
func (r *room) broadcast(frame wsFrame, sender *wsPeer) {
	r.mu.Lock()
	subscribers := make([]*wsPeer, 0, len(r.subscribers))
	for subscriber := range r.subscribers {
		if subscriber != sender {
			subscribers = append(subscribers, subscriber)
		}
	}
	r.mu.Unlock()

	for _, subscriber := range subscribers {
		_ = subscriber.writeFrame(frame)
	}
}

// Hub owns the rooms, keyed by project id hex. Rooms are created on first
// join and dropped once the last subscriber leaves.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*room)}
}

func (h *Hub) room(projectID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[projectID]
	if ok {
		return rm
	}
	rm = newRoom(projectID)
	h.rooms[projectID] = rm
	return rm
}

// lookup returns the room without creating it.
func (h *Hub) lookup(projectID string) (*room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rm, ok := h.rooms[projectID]
	return rm, ok
}

func (h *Hub) drop(projectID string, rm *room) {
	h.mu.Lock()
	if current, ok := h.rooms[projectID]; ok && current == rm {
		delete(h.rooms, projectID)
	}
	h.mu.Unlock()
}

// leaveRoom removes the peer from a room and drops the room if it emptied.
func (h *Hub) leaveRoom(projectID string, peer *wsPeer) {
	rm, ok := h.lookup(projectID)
	if !ok {
		return
	}
	if rm.leave(peer) {
		h.drop(projectID, rm)
	}
}
