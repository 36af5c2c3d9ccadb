// Package hookengine implements the OS-agnostic half of the
// interception pipeline: held-set maintenance, trigger
// matching, and static-remap resolution. The platform boundary (hook
// installation, raw event decoding) lives in build-tagged sibling
// files so this file compiles and tests on any host.
package hookengine

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/kazanefu/phybkc/internal/config"
	"github.com/kazanefu/phybkc/internal/dsl"
	"github.com/kazanefu/phybkc/internal/keymap"
	"github.com/kazanefu/phybkc/internal/trigger"
)

// RuntimeProvider is the read side of the reload controller's
// swappable state: the profile, compiled trigger index,
// and executor handle the hook consults on every event.
type RuntimeProvider interface {
	Active() (*config.Profile, *trigger.Index, *dsl.Executor)
}

// KeyEmitter performs the static remap's synthetic key emission
// in the same direction as the original event.
type KeyEmitter interface {
	EmitKey(ctx context.Context, scanCode uint16, down bool) error
}

// Action tells the platform hook callback what to do with the
// original event.
type Action int

const (
	Forward Action = iota
	Suppress
)

// Engine holds the Held set, a daemon-lifetime structure that
// survives reloads, and dispatches against whatever (profile,
// index, executor) triple RuntimeProvider currently reports.
type Engine struct {
	mu   sync.Mutex
	held map[uint16]bool

	runtime RuntimeProvider
	emitter KeyEmitter
}

// New builds an Engine. emitter may be nil if static remapping is not
// needed (e.g. in tests exercising only trigger dispatch).
func New(runtime RuntimeProvider, emitter KeyEmitter) *Engine {
	return &Engine{held: map[uint16]bool{}, runtime: runtime, emitter: emitter}
}

// NormalizeScanCode folds the OS "extended" flag into the canonical
// ScanCode representation.
func NormalizeScanCode(rawScanCode uint16, extended bool) uint16 {
	if extended {
		return rawScanCode | 0xE000
	}
	return rawScanCode
}

// HandleEvent runs one physical keyboard event through the pipeline.
// Callers must have already discarded injected events and computed
// the canonical extended flag before calling in.
func (e *Engine) HandleEvent(ctx context.Context, rawScanCode uint16, extended, down bool) Action {
	code := NormalizeScanCode(rawScanCode, extended)

	e.mu.Lock()
	if down {
		e.held[code] = true
	} else {
		delete(e.held, code)
	}
	heldSnapshot := e.snapshotLocked()
	e.mu.Unlock()

	profile, index, executor := (*config.Profile)(nil), (*trigger.Index)(nil), (*dsl.Executor)(nil)
	if e.runtime != nil {
		profile, index, executor = e.runtime.Active()
	}

	// Trigger matching happens on key-down only; static remap applies to
	// both directions.
	if down && index != nil {
		if entry, ok := index.Match(heldSnapshot, code); ok {
			if executor != nil {
				body := entry.Body
				go executor.ExecuteBlock(context.Background(), dsl.Block{Body: body})
			}
			return Suppress
		}
	}

	if profile != nil {
		if target, ok := staticRemapTarget(profile, code); ok {
			if e.emitter != nil {
				if err := e.emitter.EmitKey(ctx, target, down); err != nil {
					log.Printf("hookengine: remap emit failed: %v", err)
				}
			}
			return Suppress
		}
	}

	return Forward
}

// Evaluate implements dsl.ConditionEvaluator. Only NowInput is
// implemented against the live held set; the other condition variants
// are parsed and preserved in the AST for future work and always
// evaluate false for now.
func (e *Engine) Evaluate(ctx context.Context, cond dsl.Condition) bool {
	if cond.Kind != dsl.CondNowInput {
		return false
	}
	e.mu.Lock()
	snapshot := e.snapshotLocked()
	e.mu.Unlock()
	for _, combo := range cond.Combos {
		if comboFullyHeld(combo, snapshot) {
			return true
		}
	}
	return false
}

func comboFullyHeld(combo dsl.TriggerCombination, held map[uint16]bool) bool {
	if len(combo.Keys) == 0 {
		return false
	}
	for _, tk := range combo.Keys {
		sc, ok := trigger.ResolveTriggerKey(tk)
		if !ok || !held[sc] {
			return false
		}
	}
	return true
}

func (e *Engine) snapshotLocked() map[uint16]bool {
	snap := make(map[uint16]bool, len(e.held))
	for k, v := range e.held {
		snap[k] = v
	}
	return snap
}

// staticRemapTarget resolves the profile's keys map entry for code, if
// any, to a target ScanCode through the key identity table.
func staticRemapTarget(profile *config.Profile, code uint16) (uint16, bool) {
	if profile == nil || profile.Keys == nil {
		return 0, false
	}
	name, ok := profile.Keys[formatScanCodeKey(code)]
	if !ok {
		return 0, false
	}
	return keymap.GetScanCode(name)
}

func formatScanCodeKey(code uint16) string {
	if code > 0xFF {
		return fmt.Sprintf("0x%04X", code)
	}
	return fmt.Sprintf("0x%02X", code)
}
