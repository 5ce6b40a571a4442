package keyboard

// KeyCode names a physical key, independent of layout.
type KeyCode uint8

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	KeyMinus
	KeyEquals
	KeyBackspace
	KeyTab
	KeyQ
	KeyW
	KeyE
	KeyR
	KeyT
	KeyY
	KeyU
	KeyI
	KeyO
	KeyP
	KeyBracketLeft
	KeyBracketRight
	KeyEnter
	KeyLeftCtrl
	KeyA
	KeyS
	KeyD
	KeyF
	KeyG
	KeyH
	KeyJ
	KeyK
	KeyL
	KeySemicolon
	KeyQuote
	KeyBackTick
	KeyLeftShift
	KeyBackslash
	KeyZ
	KeyX
	KeyC
	KeyV
	KeyB
	KeyN
	KeyM
	KeyComma
	KeyFullStop
	KeySlash
	KeyRightShift
	KeyPadMultiply
	KeyLeftAlt
	KeySpace
	KeyCapsLock
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyNumLock
	KeyScrollLock
	KeyPad7
	KeyPad8
	KeyPad9
	KeyPadMinus
	KeyPad4
	KeyPad5
	KeyPad6
	KeyPadPlus
	KeyPad1
	KeyPad2
	KeyPad3
	KeyPad0
	KeyPadPeriod
	KeyOem102
	KeyF11
	KeyF12
	KeyPadEnter
	KeyRightCtrl
	KeyPadSlash
	KeyPrintScreen
	KeyRightAlt
	KeyHome
	KeyArrowUp
	KeyPageUp
	KeyArrowLeft
	KeyArrowRight
	KeyEnd
	KeyArrowDown
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyLeftWin
	KeyRightWin
	KeyApps
	KeyPause

	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown: "Unknown", KeyEscape: "Escape",
	Key1: "Key1", Key2: "Key2", Key3: "Key3", Key4: "Key4", Key5: "Key5",
	Key6: "Key6", Key7: "Key7", Key8: "Key8", Key9: "Key9", Key0: "Key0",
	KeyMinus: "Minus", KeyEquals: "Equals", KeyBackspace: "Backspace", KeyTab: "Tab",
	KeyQ: "Q", KeyW: "W", KeyE: "E", KeyR: "R", KeyT: "T",
	KeyY: "Y", KeyU: "U", KeyI: "I", KeyO: "O", KeyP: "P",
	KeyBracketLeft: "BracketSquareLeft", KeyBracketRight: "BracketSquareRight",
	KeyEnter: "Enter", KeyLeftCtrl: "LControl",
	KeyA: "A", KeyS: "S", KeyD: "D", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyJ: "J", KeyK: "K", KeyL: "L",
	KeySemicolon: "SemiColon", KeyQuote: "Quote", KeyBackTick: "BackTick",
	KeyLeftShift: "LShift", KeyBackslash: "BackSlash",
	KeyZ: "Z", KeyX: "X", KeyC: "C", KeyV: "V", KeyB: "B", KeyN: "N", KeyM: "M",
	KeyComma: "Comma", KeyFullStop: "Fullstop", KeySlash: "Slash",
	KeyRightShift: "RShift", KeyPadMultiply: "NumpadStar", KeyLeftAlt: "LAlt",
	KeySpace: "Spacebar", KeyCapsLock: "CapsLock",
	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
	KeyNumLock: "NumpadLock", KeyScrollLock: "ScrollLock",
	KeyPad7: "Numpad7", KeyPad8: "Numpad8", KeyPad9: "Numpad9", KeyPadMinus: "NumpadMinus",
	KeyPad4: "Numpad4", KeyPad5: "Numpad5", KeyPad6: "Numpad6", KeyPadPlus: "NumpadPlus",
	KeyPad1: "Numpad1", KeyPad2: "Numpad2", KeyPad3: "Numpad3", KeyPad0: "Numpad0",
	KeyPadPeriod: "NumpadPeriod", KeyOem102: "Oem102",
	KeyPadEnter: "NumpadEnter", KeyRightCtrl: "RControl", KeyPadSlash: "NumpadSlash",
	KeyPrintScreen: "PrintScreen", KeyRightAlt: "RAltGr",
	KeyHome: "Home", KeyArrowUp: "ArrowUp", KeyPageUp: "PageUp",
	KeyArrowLeft: "ArrowLeft", KeyArrowRight: "ArrowRight", KeyEnd: "End",
	KeyArrowDown: "ArrowDown", KeyPageDown: "PageDown", KeyInsert: "Insert",
	KeyDelete: "Delete", KeyLeftWin: "LWin", KeyRightWin: "RWin", KeyApps: "Apps",
	KeyPause: "PauseBreak",
}

func (k KeyCode) String() string {
	if k < keyCount && keyNames[k] != "" {
		return keyNames[k]
	}
	return "Unknown"
}
