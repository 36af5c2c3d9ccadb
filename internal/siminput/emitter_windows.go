//go:build windows

package siminput

import (
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	inputKeyboard     = 1
	keyEventFExtended = 0x0001
	keyEventFKeyUp    = 0x0002
	keyEventFUnicode  = 0x0004
	keyEventFScancode = 0x0008
)

// inputSize and inputUnionOffset mirror the Win32 INPUT struct's
// layout on amd64: a 4-byte type tag, 4 bytes of alignment padding,
// then a union whose KEYBDINPUT member is what we populate.
const (
	inputSize        = 40
	inputUnionOffset = 8
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

type winEmitter struct{}

func newPlatformEmitter() emitter { return winEmitter{} }

// emitKey sends one scan-code-based key event. Codes above 0xFF carry
// the extended-key bit and are masked back to a byte, matching
// the canonical ScanCode's own 0xE000 encoding.
func (winEmitter) emitKey(scanCode uint16, down bool) error {
	actual := scanCode
	flags := uint32(keyEventFScancode)
	if actual > 0xFF {
		flags |= keyEventFExtended
		actual &= 0xFF
	}
	if !down {
		flags |= keyEventFKeyUp
	}
	return sendOne(0, actual, flags)
}

func (winEmitter) emitUnicode(r rune) error {
	for _, u := range utf16.Encode([]rune{r}) {
		if err := sendOne(0, u, keyEventFUnicode); err != nil {
			return err
		}
		if err := sendOne(0, u, keyEventFUnicode|keyEventFKeyUp); err != nil {
			return err
		}
	}
	return nil
}

func sendOne(vk, scan uint16, flags uint32) error {
	var buf [inputSize]byte
	*(*uint32)(unsafe.Pointer(&buf[0])) = inputKeyboard
	ki := (*keyboardInput)(unsafe.Pointer(&buf[inputUnionOffset]))
	ki.wVk = vk
	ki.wScan = scan
	ki.dwFlags = flags

	ret, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&buf[0])), uintptr(inputSize))
	if ret == 0 {
		return err
	}
	return nil
}
