package keyboard

// KeyState tells whether a key went down or up.
type KeyState uint8

const (
	KeyUp KeyState = iota
	KeyDown
)

// KeyEvent is one decoded make or break code.
type KeyEvent struct {
	Code  KeyCode
	State KeyState
}

const (
	set1Extended byte = 0xE0
	set1Pause    byte = 0xE1
	set1Release  byte = 0x80
)

// set1Base maps scan code set 1 make codes to keys.
var set1Base = [0x59]KeyCode{
	0x01: KeyEscape,
	0x02: Key1, 0x03: Key2, 0x04: Key3, 0x05: Key4, 0x06: Key5,
	0x07: Key6, 0x08: Key7, 0x09: Key8, 0x0A: Key9, 0x0B: Key0,
	0x0C: KeyMinus, 0x0D: KeyEquals, 0x0E: KeyBackspace, 0x0F: KeyTab,
	0x10: KeyQ, 0x11: KeyW, 0x12: KeyE, 0x13: KeyR, 0x14: KeyT,
	0x15: KeyY, 0x16: KeyU, 0x17: KeyI, 0x18: KeyO, 0x19: KeyP,
	0x1A: KeyBracketLeft, 0x1B: KeyBracketRight, 0x1C: KeyEnter, 0x1D: KeyLeftCtrl,
	0x1E: KeyA, 0x1F: KeyS, 0x20: KeyD, 0x21: KeyF, 0x22: KeyG,
	0x23: KeyH, 0x24: KeyJ, 0x25: KeyK, 0x26: KeyL,
	0x27: KeySemicolon, 0x28: KeyQuote, 0x29: KeyBackTick,
	0x2A: KeyLeftShift, 0x2B: KeyBackslash,
	0x2C: KeyZ, 0x2D: KeyX, 0x2E: KeyC, 0x2F: KeyV, 0x30: KeyB, 0x31: KeyN, 0x32: KeyM,
	0x33: KeyComma, 0x34: KeyFullStop, 0x35: KeySlash, 0x36: KeyRightShift,
	0x37: KeyPadMultiply, 0x38: KeyLeftAlt, 0x39: KeySpace, 0x3A: KeyCapsLock,
	0x3B: KeyF1, 0x3C: KeyF2, 0x3D: KeyF3, 0x3E: KeyF4, 0x3F: KeyF5,
	0x40: KeyF6, 0x41: KeyF7, 0x42: KeyF8, 0x43: KeyF9, 0x44: KeyF10,
	0x45: KeyNumLock, 0x46: KeyScrollLock,
	0x47: KeyPad7, 0x48: KeyPad8, 0x49: KeyPad9, 0x4A: KeyPadMinus,
	0x4B: KeyPad4, 0x4C: KeyPad5, 0x4D: KeyPad6, 0x4E: KeyPadPlus,
	0x4F: KeyPad1, 0x50: KeyPad2, 0x51: KeyPad3, 0x52: KeyPad0, 0x53: KeyPadPeriod,
	0x56: KeyOem102, 0x57: KeyF11, 0x58: KeyF12,
}

// set1Ext maps the byte following an 0xE0 prefix. Codes 0x2A and 0x36 after the
// prefix are the fake shifts sent around PrintScreen and are left unmapped.
var set1Ext = map[byte]KeyCode{
	0x1C: KeyPadEnter, 0x1D: KeyRightCtrl, 0x35: KeyPadSlash, 0x37: KeyPrintScreen,
	0x38: KeyRightAlt, 0x47: KeyHome, 0x48: KeyArrowUp, 0x49: KeyPageUp,
	0x4B: KeyArrowLeft, 0x4D: KeyArrowRight, 0x4F: KeyEnd, 0x50: KeyArrowDown,
	0x51: KeyPageDown, 0x52: KeyInsert, 0x53: KeyDelete,
	0x5B: KeyLeftWin, 0x5C: KeyRightWin, 0x5D: KeyApps,
}

// Set1Decoder turns scan code set 1 bytes into key events.
type Set1Decoder struct {
	extended  bool
	pause     int
	pauseHead byte
}

// Reset drops any partially received sequence.
func (d *Set1Decoder) Reset() { *d = Set1Decoder{} }

// Add feeds one byte. It returns ok == false while a multi-byte sequence is
// incomplete and for codes no key is assigned to.
func (d *Set1Decoder) Add(b byte) (ev KeyEvent, ok bool) {
	if d.pause > 0 {
		// E1 1D 45 is Pause down, E1 9D C5 is Pause up.
		d.pause--
		if d.pause == 1 {
			d.pauseHead = b
			return KeyEvent{}, false
		}
		switch {
		case d.pauseHead == 0x1D && b == 0x45:
			return KeyEvent{Code: KeyPause, State: KeyDown}, true
		case d.pauseHead == 0x9D && b == 0xC5:
			return KeyEvent{Code: KeyPause, State: KeyUp}, true
		}
		return KeyEvent{}, false
	}

	switch b {
	case set1Extended:
		d.extended = true
		return KeyEvent{}, false
	case set1Pause:
		d.extended = false
		d.pause = 2
		return KeyEvent{}, false
	}

	state := KeyDown
	if b&set1Release != 0 {
		state = KeyUp
	}
	code := b &^ set1Release

	var key KeyCode
	if d.extended {
		d.extended = false
		key = set1Ext[code]
	} else if int(code) < len(set1Base) {
		key = set1Base[code]
	}
	if key == KeyUnknown {
		return KeyEvent{}, false
	}
	return KeyEvent{Code: key, State: state}, true
}
