package frameloop

// Scheduler is the "request next frame" capability. The callback runs once,
// on the next refresh signal.
type Scheduler interface {
	RequestFrame(fn func())
}

// Pump is a Scheduler driven by the host's refresh signal: the host calls
// Fire once per display refresh (after vsync'd buffer swap, or from a UI
// backend's per-frame callback). At most one callback is pending.
type Pump struct {
	pending func()
}

// RequestFrame queues fn for the next Fire, replacing any pending callback.
func (p *Pump) RequestFrame(fn func()) {
	p.pending = fn
}

// Pending reports whether a callback is waiting.
func (p *Pump) Pending() bool {
	return p.pending != nil
}

// Fire runs the pending callback, if any. The callback may request the next
// frame; that request waits for the following Fire.
func (p *Pump) Fire() bool {
	fn := p.pending
	if fn == nil {
		return false
	}
	p.pending = nil
	fn()
	return true
}
