// Package input turns SDL2 events into the few signals the viewer reacts to:
// quit, drawable-size changes and key presses.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a translated event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventKeyDown
	// EventSurfaceLost means the window backing the GL context was closed
	// or destroyed by the system.
	EventSurfaceLost
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Mod    uint16
	Repeat bool
	Width  int
	Height int
}

// Input collects translated events once per frame.
type Input struct {
	events []Event
	poll   func() sdl.Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		poll:   sdl.PollEvent,
	}
}

// Update drains the SDL queue. It returns true when the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for ev := i.poll(); ev != nil; ev = i.poll() {
		e, ok := Translate(ev)
		if !ok {
			continue
		}
		// Keep only the newest resize of a burst; the binder only wants the
		// latest size anyway.
		if e.Type == EventResize && len(i.events) > 0 && i.events[len(i.events)-1].Type == EventResize {
			i.events[len(i.events)-1] = e
			continue
		}
		i.events = append(i.events, e)
		if e.Type == EventQuit || e.Type == EventSurfaceLost {
			quit = true
		}
	}
	return quit
}

// Translate converts a single SDL event. ok is false for events the viewer
// ignores.
func Translate(ev sdl.Event) (Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventSurfaceLost}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Sym, Mod: e.Keysym.Mod, Repeat: e.Repeat != 0}, true
		}
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether key went down this frame, ignoring auto-repeat.
func (i *Input) IsKeyPressed(key sdl.Keycode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key && !e.Repeat {
			return true
		}
	}
	return false
}
