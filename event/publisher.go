package event

import (
	"fmt"
	"sync"

	"github.com/kbukum/transflow/logger"
)

// Publisher fans events out to its listeners. It is safe for concurrent
// Subscribe and Broadcast; listeners run outside the lock.
type Publisher struct {
	mu        sync.RWMutex
	listeners []Listener
	log       *logger.Logger
	logOnce   sync.Once
}

// NewPublisher returns an empty Publisher logging through log. A nil log
// uses the "event" component logger.
func NewPublisher(log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Get("event")
	}
	return &Publisher{log: log}
}

// Subscribe appends listeners. Nil listeners are ignored.
func (p *Publisher) Subscribe(listeners ...Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range listeners {
		if l != nil {
			p.listeners = append(p.listeners, l)
		}
	}
}

// Len returns the number of subscribed listeners.
func (p *Publisher) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}

// Broadcast builds an Event and delivers it to every listener subscribed
// at the time of the call.
func (p *Publisher) Broadcast(step string, kind Kind, args ...any) Event {
	e := New(step, kind, args...)

	p.mu.RLock()
	snapshot := make([]Listener, len(p.listeners))
	copy(snapshot, p.listeners)
	p.mu.RUnlock()

	for _, l := range snapshot {
		p.deliver(l, e)
	}
	return e
}

func (p *Publisher) deliver(l Listener, e Event) {
	defer func() {
		if r := recover(); r != nil {
			p.logger().Error("listener panicked", logger.Fields(
				logger.FieldEvent, e.Name,
				logger.FieldStep, e.Step,
				logger.FieldError, fmt.Sprint(r),
			))
		}
	}()
	l.Notify(e)
}

// logger resolves the component logger once for zero-value Publishers.
func (p *Publisher) logger() *logger.Logger {
	p.logOnce.Do(func() {
		if p.log == nil {
			p.log = logger.Get("event")
		}
	})
	return p.log
}
