// Package trigger implements the trigger compiler: it
// resolves a profile's scripts into a flat trigger→block dispatch table
// and a merged macro table for the executor.
package trigger

import (
	"log"
	"os"

	"github.com/kazanefu/phybkc/internal/dsl"
	"github.com/kazanefu/phybkc/internal/keymap"
)

// Entry pairs a resolved scan-code sequence with the block body it
// dispatches. The trigger index is a flat list of entries, scanned
// linearly on each key-down.
type Entry struct {
	Keys []uint16
	Body []dsl.Statement
}

// Index is the compiled, ready-to-match trigger index for one loaded
// profile. It owns independent clones of block bodies so a reload can
// discard it without cross-referencing the executor's macro table.
type Index struct {
	Entries []Entry
}

// Compiled bundles everything the trigger compiler produces from a
// profile's scripts: the dispatch index, the merged macro table, and
// the accumulated global settings.
type Compiled struct {
	Index          *Index
	Macros         map[string][]dsl.Statement
	GlobalSettings []dsl.GlobalSetting
}

// Compile reads, parses, and accumulates every script path listed for a
// profile, resolving trigger combinations to scan-code sequences
// through the key identity table. Script-read and script-parse failures
// are logged and the offending script is skipped — other scripts keep
// loading. Unresolvable trigger keys drop just their containing
// combination, logged, never the whole load.
func Compile(scriptPaths []string) *Compiled {
	index := &Index{}
	macros := map[string][]dsl.Statement{}
	var globalSettings []dsl.GlobalSetting

	for _, path := range scriptPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("trigger: could not read script %q: %v", path, err)
			continue
		}
		script, err := dsl.Parse(string(data))
		if err != nil {
			log.Printf("trigger: could not parse script %q: %v", path, err)
			continue
		}

		globalSettings = append(globalSettings, script.GlobalSettings...)

		for _, m := range script.Macros {
			macros[m.Name] = m.Body // last-write-wins across scripts
		}

		for _, block := range script.Blocks {
			for _, combo := range block.Triggers {
				keys, ok := resolveCombination(combo)
				if !ok {
					log.Printf("trigger: dropping unresolvable trigger combination in %q", path)
					continue
				}
				index.Entries = append(index.Entries, Entry{Keys: keys, Body: block.Body})
			}
		}
	}

	return &Compiled{Index: index, Macros: macros, GlobalSettings: globalSettings}
}

// resolveCombination resolves every TriggerKey in a combination to a
// ScanCode, in order. It fails (ok=false) as soon as any key in the
// combination cannot be resolved — the whole combination is a soft
// error at that point.
func resolveCombination(combo dsl.TriggerCombination) ([]uint16, bool) {
	keys := make([]uint16, 0, len(combo.Keys))
	for _, tk := range combo.Keys {
		sc, ok := ResolveTriggerKey(tk)
		if !ok {
			return nil, false
		}
		keys = append(keys, sc)
	}
	return keys, true
}

// ResolveTriggerKey resolves a single TriggerKey using the same
// resolution function at both compile time and match time (invariant
// 3, ): no symbolic name may survive past profile load.
func ResolveTriggerKey(tk dsl.TriggerKey) (uint16, bool) {
	switch tk.Kind {
	case dsl.Physical:
		return tk.Code, true
	case dsl.ExtendedPhysical:
		return tk.Code | 0xE000, true
	case dsl.Virtual:
		return keymap.GetScanCode(tk.Name)
	default:
		return 0, false
	}
}

// StatusKeys is the fixed allow-set of scan codes ignored when they
// appear in the held set alongside a matching trigger combination
//: CapsLock, grave/tilde, Muhenkan, Henkan, Hiragana.
var StatusKeys = map[uint16]bool{
	0x3A: true,
	0x29: true,
	0x7B: true,
	0x79: true,
	0x70: true,
}

// Match finds the trigger combination that matches held set h with
// completing key-down event c, matching rules:
//  1. every element of the combination is in h;
//  2. the last element of the combination equals c;
//  3. every key in h not part of the combination is a status key.
//
// Among matching candidates the longest wins; ties go to the first
// match encountered (callers should avoid ambiguous definitions).
func (idx *Index) Match(h map[uint16]bool, c uint16) (Entry, bool) {
	var best Entry
	found := false
	for _, e := range idx.Entries {
		if !matchesCombination(e.Keys, h, c) {
			continue
		}
		if !found || len(e.Keys) > len(best.Keys) {
			best = e
			found = true
		}
	}
	return best, found
}

func matchesCombination(combo []uint16, h map[uint16]bool, c uint16) bool {
	if len(combo) == 0 {
		return false
	}
	if combo[len(combo)-1] != c {
		return false
	}
	inCombo := make(map[uint16]bool, len(combo))
	for _, k := range combo {
		if !h[k] {
			return false
		}
		inCombo[k] = true
	}
	for k := range h {
		if inCombo[k] {
			continue
		}
		if !StatusKeys[k] {
			return false
		}
	}
	return true
}
