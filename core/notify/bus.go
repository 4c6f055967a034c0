package notify

import "sync"

// TopicChange is emitted once per debounced change of any type.
const TopicChange = "change"

// TopicFor returns the per-type topic, "change:<type>".
func TopicFor(typ string) string {
	return TopicChange + ":" + typ
}

// Event is delivered to handlers.
type Event struct {
	Topic string
	Type  string
}

// Handler receives events of the topic it subscribed to.
type Handler func(Event)

type subscription struct {
	handler Handler
}

// Bus is a minimal topic publish/subscribe primitive. Safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]*subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]*subscription)}
}

// On subscribes h to topic and returns a function removing the subscription.
func (b *Bus) On(topic string, h Handler) func() {
	sub := &subscription{handler: h}
	b.mu.Lock()
	b.handlers[topic] = append(b.handlers[topic], sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.handlers[topic]
			for i, s := range subs {
				if s == sub {
					b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit calls every handler of e.Topic in subscription order.
// Handlers may subscribe or unsubscribe while being called.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	subs := append([]*subscription(nil), b.handlers[e.Topic]...)
	b.mu.RUnlock()
	for _, s := range subs {
		s.handler(e)
	}
}
