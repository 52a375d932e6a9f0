package state

import "sync"

const subscriberBuffer = 64

// Change tells observers that the value under Key was replaced and must be reloaded.
type Change struct {
	Key string
	// Remote is set when the write happened in another process.
	Remote bool
}

type subscription struct {
	keys map[string]struct{}
	ch   chan Change
}

func (s *subscription) wants(key string) bool {
	if len(s.keys) == 0 {
		return true
	}
	_, ok := s.keys[key]
	return ok
}

// Broker fans change notifications out to in-process subscribers.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*subscription)}
}

// Subscribe returns a channel receiving changes to keys (all keys when none are given)
// and a function that cancels the subscription and closes the channel.
func (b *Broker) Subscribe(keys ...string) (<-chan Change, func()) {
	sub := &subscription{
		keys: make(map[string]struct{}, len(keys)),
		ch:   make(chan Change, subscriberBuffer),
	}
	for _, k := range keys {
		sub.keys[k] = struct{}{}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
}

// Publish never blocks. A subscriber whose buffer is full misses the change; it already
// has a reload of the same kind pending.
func (b *Broker) Publish(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if !sub.wants(c.Key) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
		}
	}
}
