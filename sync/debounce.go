package sync

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type ProcessEventFunc func(event fsnotify.Event)

// Debounce folds event bursts for the same path into one callback
// fired after a quiet period.
type Debounce struct {
	debounceDuration time.Duration

	evs   map[string]*time.Timer
	evsMu sync.Mutex
}

func NewDebounce(debounceDuration time.Duration) *Debounce {
	return &Debounce{
		debounceDuration: debounceDuration,
		evs:              map[string]*time.Timer{},
	}
}

func (d *Debounce) Add(event fsnotify.Event, eventFunc ProcessEventFunc) {
	d.evsMu.Lock()
	defer d.evsMu.Unlock()

	if timer, ok := d.evs[event.Name]; ok {
		timer.Reset(d.debounceDuration)
		return
	}

	d.evs[event.Name] = time.AfterFunc(d.debounceDuration, func() {
		d.evsMu.Lock()
		delete(d.evs, event.Name)
		d.evsMu.Unlock()

		eventFunc(event)
	})
}
