// Package daemonstate implements the reload controller: the
// swappable (Profile, Trigger index, Executor) triple that the
// hook engine reads on every event, and the load operation that
// rebuilds and atomically replaces it.
package daemonstate

import (
	"fmt"
	"sync"

	"github.com/kazanefu/phybkc/internal/config"
	"github.com/kazanefu/phybkc/internal/dsl"
	"github.com/kazanefu/phybkc/internal/trigger"
)

// RuntimeState owns the active profile, compiled trigger index, and
// executor handle under a read-write discipline: many readers (the
// hook, in-flight executions), one writer (LoadProfile). It implements
// hookengine.RuntimeProvider without importing that package, so
// either side can depend on the other without a cycle.
type RuntimeState struct {
	mu          sync.RWMutex
	profileName string
	profile     *config.Profile
	index       *trigger.Index
	executor    *dsl.Executor
}

// New returns an empty RuntimeState; call LoadProfile before starting
// the hook.
func New() *RuntimeState {
	return &RuntimeState{}
}

// Active returns the current (profile, index, executor) triple. A
// single call sees a consistent snapshot even if LoadProfile runs
// concurrently.
func (s *RuntimeState) Active() (*config.Profile, *trigger.Index, *dsl.Executor) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, s.index, s.executor
}

// ActiveProfileName reports which profile is currently loaded, for the
// tray surface's "reload current profile" command.
func (s *RuntimeState) ActiveProfileName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profileName
}

// LoadProfile resolves profileName through idx, loads its Profile
// document, compiles its scripts into a trigger index and macro table,
// builds a fresh Executor around the given capabilities, then swaps
// all three references under one critical section. On failure
// the previous state is left intact.
func (s *RuntimeState) LoadProfile(idx *config.Index, profileName string, input dsl.InputSimulator, cond dsl.ConditionEvaluator) error {
	path, ok := idx.Profiles[profileName]
	if !ok {
		return fmt.Errorf("daemonstate: profile %q not found in index", profileName)
	}

	profile, err := config.LoadProfileFile(path)
	if err != nil {
		return fmt.Errorf("daemonstate: load profile %q: %w", profileName, err)
	}

	compiled := trigger.Compile(profile.Scripts)
	executor := dsl.NewExecutor(compiled.GlobalSettings, compiled.Macros, input, cond)

	s.mu.Lock()
	s.profile = profile
	s.index = compiled.Index
	s.executor = executor
	s.profileName = profileName
	s.mu.Unlock()
	return nil
}
