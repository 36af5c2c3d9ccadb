//go:build windows

package hookengine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	llkhfExtended = 0x00000001
	llkhfInjected = 0x00000010
)

// kbdllhookstruct mirrors the Win32 KBDLLHOOKSTRUCT delivered to a
// WH_KEYBOARD_LL hook procedure.
type kbdllhookstruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
)

// Listener installs the low-level keyboard hook on a dedicated,
// message-pumping OS thread (hooks are thread-bound on Windows) and
// feeds every event through an Engine.
type Listener struct {
	engine *Engine

	mu   sync.Mutex
	hook uintptr
}

// NewListener builds a Listener around an already-constructed Engine.
func NewListener(engine *Engine) *Listener {
	return &Listener{engine: engine}
}

// Run installs the hook and pumps this thread's message queue until
// ctx is cancelled or the hook fails to install. It must be called
// from a goroutine dedicated to this purpose; it locks the OS thread
// for its duration.
func (l *Listener) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cb := windows.NewCallback(func(nCode int, wParam, lParam uintptr) uintptr {
		return l.callback(ctx, nCode, wParam, lParam)
	})

	hook, _, err := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), cb, 0, 0)
	if hook == 0 {
		return fmt.Errorf("hookengine: SetWindowsHookExW failed: %w", err)
	}
	l.mu.Lock()
	l.hook = hook
	l.mu.Unlock()
	defer procUnhookWindowsHookEx.Call(hook)

	// GetMessageW blocks, so cancellation is delivered as a WM_QUIT
	// posted to this thread's queue, which makes GetMessageW return 0.
	const wmQuit = 0x0012
	procPostThreadMessageW := user32.NewProc("PostThreadMessageW")
	threadID := windows.GetCurrentThreadId()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
		case <-stop:
		}
	}()

	var msg struct {
		Hwnd    uintptr
		Message uint32
		WParam  uintptr
		LParam  uintptr
		Time    uint32
		Pt      struct{ X, Y int32 }
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(ret) <= 0 {
			return nil
		}
	}
}

// callback is the WH_KEYBOARD_LL hook procedure. nCode < 0 or any
// reason to pass through must reach CallNextHookEx unmodified — this
// is a hard platform requirement, not merely a style preference.
func (l *Listener) callback(ctx context.Context, nCode int, wParam, lParam uintptr) uintptr {
	if nCode >= 0 {
		kbs := (*kbdllhookstruct)(unsafe.Pointer(lParam))
		if kbs.Flags&llkhfInjected == 0 {
			down := wParam == wmKeyDown || wParam == wmSysKeyDown
			up := wParam == wmKeyUp || wParam == wmSysKeyUp
			if down || up {
				extended := kbs.Flags&llkhfExtended != 0
				if l.engine.HandleEvent(ctx, uint16(kbs.ScanCode), extended, down) == Suppress {
					return 1
				}
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}
