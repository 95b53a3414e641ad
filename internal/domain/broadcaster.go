package domain

import (
	"sync"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

// Broadcaster is the per-project subscriber registry. It is created at
// service start and torn down with Close at service stop.
type Broadcaster struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[uint64]chan<- string
	nextID uint64
	closed bool
	log    *logger.ZapLogger
}

var (
	_ ports.Notifier      = (*Broadcaster)(nil)
	_ ports.Subscriptions = (*Broadcaster)(nil)
)

func NewBroadcaster(log *logger.ZapLogger) *Broadcaster {
	return &Broadcaster{
		rooms: make(map[uuid.UUID]map[uint64]chan<- string),
		log:   log,
	}
}

func (b *Broadcaster) Subscribe(projectID uuid.UUID, ch chan<- string) ports.SubscriptionHandle {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	h := ports.SubscriptionHandle{ProjectID: projectID, ID: b.nextID}
	if b.closed {
		return h
	}
	if _, ok := b.rooms[projectID]; !ok {
		b.rooms[projectID] = make(map[uint64]chan<- string)
	}
	b.rooms[projectID][h.ID] = ch
	return h
}

func (b *Broadcaster) Unsubscribe(h ports.SubscriptionHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.rooms[h.ProjectID]
	if !ok {
		return
	}
	delete(subs, h.ID)
	if len(subs) == 0 {
		delete(b.rooms, h.ProjectID)
	}
}

// Broadcast offers the project id to every subscriber without blocking;
// a subscriber whose channel is full misses the signal.
func (b *Broadcaster) Broadcast(projectID uuid.UUID) {
	msg := projectID.String()

	b.mu.RLock()
	defer b.mu.RUnlock()

	dropped := 0
	for _, ch := range b.rooms[projectID] {
		select {
		case ch <- msg:
			broadcastsDelivered.Inc()
		default:
			broadcastsDropped.Inc()
			dropped++
		}
	}
	if dropped > 0 {
		b.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "broadcast dropped for slow subscribers",
			Fields:  map[string]any{"projectID": msg, "dropped": dropped},
		})
	}
}

func (b *Broadcaster) Subscribers(projectID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[projectID])
}

// Close drops every subscription; later broadcasts reach nobody.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.rooms = make(map[uuid.UUID]map[uint64]chan<- string)
}
