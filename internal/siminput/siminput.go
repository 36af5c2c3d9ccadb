// Package siminput implements the input simulator: translating DSL
// send-expression semantics into synthetic key events that the OS
// marks "injected", so the hook engine's filter ignores them. The
// platform boundary (the actual injection call) lives in build-tagged
// sibling files.
package siminput

import (
	"context"
	"time"

	"github.com/kazanefu/phybkc/internal/dsl"
	"github.com/kazanefu/phybkc/internal/trigger"
)

const interKeyPause = 10 * time.Millisecond

// emitter performs the platform-level key/unicode injection.
type emitter interface {
	emitKey(scanCode uint16, down bool) error
	emitUnicode(r rune) error
}

// Simulator implements dsl.InputSimulator.
type Simulator struct {
	emit emitter
}

// New builds a Simulator backed by the real platform injection API.
func New() *Simulator {
	return &Simulator{emit: newPlatformEmitter()}
}

func newWithEmitter(e emitter) *Simulator {
	return &Simulator{emit: e}
}

// SendKeys executes one Send statement's expression list in order:
// Key presses and releases immediately with a short pause
// in between; Hold presses and defers release to the end of the
// statement (or an explicit matching Release); String emits one
// paired Unicode down/up per code point; Combo presses every key in
// order, pauses, then releases in reverse order.
func (s *Simulator) SendKeys(ctx context.Context, exprs []dsl.SendExpression) error {
	var held []uint16
	heldSet := map[uint16]bool{}
	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, expr := range exprs {
		switch expr.Kind {
		case dsl.SendKey:
			if sc, ok := trigger.ResolveTriggerKey(expr.Key); ok {
				note(s.emit.emitKey(sc, true))
				pause(ctx)
				note(s.emit.emitKey(sc, false))
			}
		case dsl.SendHold:
			if sc, ok := trigger.ResolveTriggerKey(expr.Key); ok {
				note(s.emit.emitKey(sc, true))
				if !heldSet[sc] {
					held = append(held, sc)
					heldSet[sc] = true
				}
			}
		case dsl.SendRelease:
			if sc, ok := trigger.ResolveTriggerKey(expr.Key); ok {
				note(s.emit.emitKey(sc, false))
				delete(heldSet, sc)
			}
		case dsl.SendString:
			for _, r := range expr.Text {
				note(s.emit.emitUnicode(r))
			}
		case dsl.SendCombo:
			var pressed []uint16
			for _, k := range expr.Combo {
				if sc, ok := trigger.ResolveTriggerKey(k); ok {
					pressed = append(pressed, sc)
					note(s.emit.emitKey(sc, true))
					pause(ctx)
				}
			}
			pause(ctx)
			for i := len(pressed) - 1; i >= 0; i-- {
				note(s.emit.emitKey(pressed[i], false))
				pause(ctx)
			}
		}
	}

	// Automatic release at the end of the Send statement for every
	// Hold without a matching Release.
	for _, sc := range held {
		if heldSet[sc] {
			note(s.emit.emitKey(sc, false))
		}
	}

	return firstErr
}

// EmitKey emits a single synthetic key event in the given direction,
// used by the hook engine's static remap path
// rather than a Send statement.
func (s *Simulator) EmitKey(ctx context.Context, scanCode uint16, down bool) error {
	return s.emit.emitKey(scanCode, down)
}

func pause(ctx context.Context) {
	t := time.NewTimer(interKeyPause)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
