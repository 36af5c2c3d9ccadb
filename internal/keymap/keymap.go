// Package keymap provides the static, immutable bidirectional mapping
// between printable key names and scan codes: the key identity
// table shared by the compiler, hook engine, and input simulator.
package keymap

import "strconv"

// nameToCode and codeToName are seeded once at package init and never
// mutated afterward; concurrent reads from the hook thread and executor
// worker threads need no locking.
var nameToCode = map[string]uint16{}
var codeToName = map[uint16]string{}

func add(name string, code uint16) {
	nameToCode[name] = code
	if _, exists := codeToName[code]; !exists {
		codeToName[code] = name
	}
}

func init() {
	// Digits
	add("0", 0x0B)
	add("1", 0x02)
	add("2", 0x03)
	add("3", 0x04)
	add("4", 0x05)
	add("5", 0x06)
	add("6", 0x07)
	add("7", 0x08)
	add("8", 0x09)
	add("9", 0x0A)

	// Letters
	add("A", 0x1E)
	add("B", 0x30)
	add("C", 0x2E)
	add("D", 0x20)
	add("E", 0x12)
	add("F", 0x21)
	add("G", 0x22)
	add("H", 0x23)
	add("I", 0x17)
	add("J", 0x24)
	add("K", 0x25)
	add("L", 0x26)
	add("M", 0x32)
	add("N", 0x31)
	add("O", 0x18)
	add("P", 0x19)
	add("Q", 0x10)
	add("R", 0x13)
	add("S", 0x1F)
	add("T", 0x14)
	add("U", 0x16)
	add("V", 0x2F)
	add("W", 0x11)
	add("X", 0x2D)
	add("Y", 0x15)
	add("Z", 0x2C)

	// Function keys
	add("F1", 0x3B)
	add("F2", 0x3C)
	add("F3", 0x3D)
	add("F4", 0x3E)
	add("F5", 0x3F)
	add("F6", 0x40)
	add("F7", 0x41)
	add("F8", 0x42)
	add("F9", 0x43)
	add("F10", 0x44)
	add("F11", 0x57)
	add("F12", 0x58)

	// Editing / control keys
	add("Escape", 0x01)
	add("Minus", 0x0C)
	add("Equal", 0x0D)
	add("Backspace", 0x0E)
	add("Tab", 0x0F)
	add("Enter", 0x1C)
	add("LeftCtrl", 0x1D)
	add("Ctrl", 0x1D) // default alias: left control
	add("SemiColon", 0x27)
	add("Quote", 0x28)
	add("BackQuote", 0x29)
	add("LeftShift", 0x2A)
	add("Shift", 0x2A) // default alias: left shift
	add("BackSlash", 0x2B)
	add("Comma", 0x33)
	add("Period", 0x34)
	add("Slash", 0x35)
	add("RightShift", 0x36)
	add("LeftAlt", 0x38)
	add("Alt", 0x38) // default alias: left alt
	add("Space", 0x39)
	add("CapsLock", 0x3A)

	// Extended keys (right-hand modifiers, navigation)
	add("RightCtrl", 0xE01D)
	add("RightAlt", 0xE038)
	add("Insert", 0xE052)
	add("Delete", 0xE053)
	add("Home", 0xE047)
	add("End", 0xE04F)
	add("PageUp", 0xE049)
	add("PageDown", 0xE051)
	add("Up", 0xE048)
	add("Down", 0xE050)
	add("Left", 0xE04B)
	add("Right", 0xE04D)

	// Numpad
	add("Num7", 0x47)
	add("Num8", 0x48)
	add("Num9", 0x49)
	add("NumMinus", 0x4A)
	add("Num4", 0x4B)
	add("Num5", 0x4C)
	add("Num6", 0x4D)
	add("NumPlus", 0x4E)
	add("Num1", 0x4F)
	add("Num2", 0x50)
	add("Num3", 0x51)
	add("Num0", 0x52)
	add("NumDot", 0x53)

	// JIS / Japanese-input keys
	add("HanZen", 0x29)
	add("Henkan", 0x79)
	add("Muhenkan", 0x7B)
	add("Hiragana", 0x70)
}

// GetScanCode resolves a KeyName to a ScanCode. Unknown names fall back
// to parsing a "0xNN" hex escape hatch.
func GetScanCode(name string) (uint16, bool) {
	if code, ok := nameToCode[name]; ok {
		return code, true
	}
	return parseHex(name)
}

// GetName resolves a ScanCode to its canonical KeyName, if any alias was
// seeded for it.
func GetName(code uint16) (string, bool) {
	name, ok := codeToName[code]
	return name, ok
}

func parseHex(s string) (uint16, bool) {
	if len(s) < 3 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return 0, false
	}
	v, err := strconv.ParseUint(s[2:], 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}
