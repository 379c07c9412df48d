package live

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/ebhcs/bulletin-board/internal/core/ports"
)

const subscriberBuffer = 1

// Broadcaster fans the latest bulletin snapshot out to every subscriber.
// Each subscriber holds a buffered channel; when a slow consumer has not
// drained the previous snapshot yet, it is dropped and replaced with the
// newer one. Every delivered snapshot is complete, so skipping an
// intermediate state loses nothing.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[int]chan ports.Snapshot
	nextID  int
	current ports.Snapshot
	primed  bool
	log     zerolog.Logger
}

func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		subs: make(map[int]chan ports.Snapshot),
		log:  log,
	}
}

// Publish replaces the current snapshot and redelivers it to all subscribers.
func (b *Broadcaster) Publish(snapshot ports.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = snapshot
	b.primed = true
	for id, ch := range b.subs {
		b.deliver(id, ch, snapshot)
	}
}

// Subscribe registers a consumer. It receives the current snapshot
// immediately if one has been published, then every subsequent one. The
// returned cancel func must be called to release the subscription.
func (b *Broadcaster) Subscribe() (<-chan ports.Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan ports.Snapshot, subscriberBuffer)
	b.subs[id] = ch
	if b.primed {
		ch <- b.current
	}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// deliver pushes latest-wins: a stale undrained snapshot is discarded first.
func (b *Broadcaster) deliver(id int, ch chan ports.Snapshot, snapshot ports.Snapshot) {
	for {
		select {
		case ch <- snapshot:
			return
		default:
		}
		select {
		case <-ch:
			b.log.Debug().Int("subscriber_id", id).Msg("dropped stale snapshot for slow subscriber")
		default:
		}
	}
}
