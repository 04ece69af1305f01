package model

// Signal is a change notification. Handlers run synchronously, in the order
// they were connected, every time the signal is emitted.
//
// The zero value is ready to use.
type Signal struct {
	handlers []func()
	locks    int
	pending  bool
}

// Connect registers fn to be called on every emission. There is no way to
// disconnect a handler.
func (s *Signal) Connect(fn func()) {
	if fn == nil {
		return
	}
	s.handlers = append(s.handlers, fn)
}

// Emit calls every connected handler. While the signal is locked, the
// emission is deferred until the outermost Unlock.
func (s *Signal) Emit() {
	if s.locks > 0 {
		s.pending = true
		return
	}
	for _, fn := range s.handlers {
		fn()
	}
}

// Lock suspends emissions. Locks nest; each Lock needs a matching Unlock.
func (s *Signal) Lock() {
	s.locks++
}

// Unlock releases one Lock. Releasing the last one emits once if any
// emission was requested while locked.
func (s *Signal) Unlock() {
	if s.locks == 0 {
		panic("model: unlock of unlocked signal")
	}
	s.locks--
	if s.locks == 0 && s.pending {
		s.pending = false
		s.Emit()
	}
}

// Locked reports whether emissions are currently suspended.
func (s *Signal) Locked() bool {
	return s.locks > 0
}
