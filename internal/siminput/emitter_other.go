//go:build !windows

package siminput

import "log"

type noopEmitter struct{}

func newPlatformEmitter() emitter {
	log.Printf("siminput: synthetic input injection is not supported on this platform")
	return noopEmitter{}
}

func (noopEmitter) emitKey(scanCode uint16, down bool) error { return nil }
func (noopEmitter) emitUnicode(r rune) error                 { return nil }
