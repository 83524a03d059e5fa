package calendar

import (
	"sync"

	"github.com/klokku/studygrid/pkg/grid"
)

// previews holds the placements drags currently show, keyed by event UID.
type previews struct {
	mu     sync.RWMutex
	events map[string]grid.Event
}

func newPreviews() *previews {
	return &previews{events: make(map[string]grid.Event)}
}

func (p *previews) set(event grid.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[event.ID] = event
}

func (p *previews) get(uid string) (grid.Event, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	event, ok := p.events[uid]
	return event, ok
}

func (p *previews) drop(uid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.events, uid)
}
