//go:build !windows

package hookengine

import (
	"context"
	"log"
)

// Listener is a no-op stand-in on platforms without a low-level
// keyboard hook API. It blocks until ctx is cancelled so callers can
// treat it uniformly with the Windows listener.
type Listener struct {
	engine *Engine
}

// NewListener builds a Listener around an already-constructed Engine.
func NewListener(engine *Engine) *Listener {
	return &Listener{engine: engine}
}

// Run logs that interception is unavailable and waits for cancellation.
func (l *Listener) Run(ctx context.Context) error {
	log.Printf("hookengine: no low-level keyboard hook on this platform; interception disabled")
	<-ctx.Done()
	return nil
}
