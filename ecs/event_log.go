package ecs

import (
	"sync"
	"weak"
)

// EventKind identifies what happened to a component.
type EventKind uint8

const (
	EventInserted EventKind = iota + 1
	EventModified
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventInserted:
		return "Inserted"
	case EventModified:
		return "Modified"
	case EventRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// ComponentEvent records a single write to a component storage.
type ComponentEvent struct {
	Kind   EventKind
	Entity EntityId
}

// EventLog is the append-only change log of one component storage.
//
// Every event gets a sequence number. Only the events that some live reader
// has not consumed yet are retained; with no live readers, appends only
// advance the head. Readers are held weakly, so a reader that is no longer
// referenced stops pinning events.
type EventLog struct {
	mu      sync.Mutex
	events  []ComponentEvent
	base    uint64 // sequence number of events[0]
	readers []weak.Pointer[ReaderId]
}

// ReaderId is a consumer's private cursor into an EventLog.
// A cursor only ever moves forward.
type ReaderId struct {
	log  *EventLog
	next uint64
}

// Position returns the sequence number of the next event this reader will observe.
func (r *ReaderId) Position() uint64 {
	r.log.mu.Lock()
	defer r.log.mu.Unlock()
	return r.next
}

func newEventLog() *EventLog {
	return &EventLog{}
}

// Head returns the sequence number the next appended event will get.
func (l *EventLog) Head() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head()
}

func (l *EventLog) head() uint64 {
	return l.base + uint64(len(l.events))
}

// Retained returns how many events are currently held for unfinished readers.
func (l *EventLog) Retained() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Readers returns the number of live readers registered on the log.
func (l *EventLog) Readers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneReaders()
	return len(l.readers)
}

// RegisterReader creates a cursor positioned at the current head.
// The reader observes only events appended after this call.
func (l *EventLog) RegisterReader() *ReaderId {
	l.mu.Lock()
	defer l.mu.Unlock()

	reader := &ReaderId{log: l, next: l.head()}
	l.readers = append(l.readers, weak.Make(reader))
	return reader
}

// Append records an event.
func (l *EventLog) Append(kind EventKind, entity EntityId) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasLiveReaders() {
		l.base = l.head() + 1
		l.events = l.events[:0]
		return
	}
	l.events = append(l.events, ComponentEvent{Kind: kind, Entity: entity})
}

// Read returns every event the reader has not observed yet and advances it
// past them. Appends are serialized with reads, so no event is lost or seen
// twice across calls.
func (l *EventLog) Read(reader *ReaderId) []ComponentEvent {
	if reader == nil || reader.log != l {
		panic("reader was not registered on this event log")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	start := int(reader.next - l.base)
	out := make([]ComponentEvent, len(l.events)-start)
	copy(out, l.events[start:])

	reader.next = l.head()
	l.trim()
	return out
}

// hasLiveReaders reports whether any registered reader is still referenced.
func (l *EventLog) hasLiveReaders() bool {
	l.pruneReaders()
	return len(l.readers) > 0
}

func (l *EventLog) pruneReaders() {
	live := l.readers[:0]
	for _, wp := range l.readers {
		if wp.Value() != nil {
			live = append(live, wp)
		}
	}
	clear(l.readers[len(live):])
	l.readers = live
}

// trim drops the events every live reader has already consumed.
func (l *EventLog) trim() {
	l.pruneReaders()

	oldest := l.head()
	for _, wp := range l.readers {
		if reader := wp.Value(); reader != nil && reader.next < oldest {
			oldest = reader.next
		}
	}

	drop := int(oldest - l.base)
	if drop == 0 {
		return
	}

	remaining := len(l.events) - drop
	if remaining == 0 {
		l.events = l.events[:0]
	} else if drop >= remaining {
		// Reuse the backing array once the consumed prefix dominates it
		copy(l.events, l.events[drop:])
		l.events = l.events[:remaining]
	} else {
		l.events = l.events[drop:]
	}
	l.base = oldest
}
