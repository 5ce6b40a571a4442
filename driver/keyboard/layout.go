package keyboard

import (
	"fmt"
	"strings"
)

// Modifiers is the state of the modifier and lock keys.
type Modifiers struct {
	LShift, RShift bool
	LCtrl, RCtrl   bool
	Alt, AltGr     bool
	CapsLock       bool
	NumLock        bool
}

// Shift reports whether either shift key is held.
func (m Modifiers) Shift() bool { return m.LShift || m.RShift }

// Ctrl reports whether either control key is held.
func (m Modifiers) Ctrl() bool { return m.LCtrl || m.RCtrl }

// DecodedKey is the result of a key press: a character, or a key with no
// character in the current layout.
type DecodedKey struct {
	Char   rune
	Key    KeyCode
	IsChar bool
}

// Char returns a DecodedKey holding r.
func Char(r rune) DecodedKey { return DecodedKey{Char: r, IsChar: true} }

// Raw returns a DecodedKey holding k.
func Raw(k KeyCode) DecodedKey { return DecodedKey{Key: k} }

// String renders a character as itself and a raw key by name.
func (k DecodedKey) String() string {
	if k.IsChar {
		return string(k.Char)
	}
	return k.Key.String()
}

// Layout maps keys to characters.
type Layout interface {
	Name() string
	Map(key KeyCode, mods Modifiers) DecodedKey
}

type keyChars struct {
	plain, shifted rune
}

type tableLayout struct {
	name  string
	keys  map[KeyCode]keyChars
	altGr map[KeyCode]rune
}

func (l *tableLayout) Name() string { return l.name }

func (l *tableLayout) Map(key KeyCode, mods Modifiers) DecodedKey {
	if mods.AltGr {
		if r, ok := l.altGr[key]; ok {
			return Char(r)
		}
	}
	if r, ok := mapKeypad(key, mods.NumLock); ok {
		return r
	}
	kc, ok := l.keys[key]
	if !ok {
		return Raw(key)
	}
	shift := mods.Shift()
	if isLetter(key) && mods.CapsLock {
		shift = !shift
	}
	if shift {
		return Char(kc.shifted)
	}
	return Char(kc.plain)
}

func isLetter(key KeyCode) bool {
	switch key {
	case KeyQ, KeyW, KeyE, KeyR, KeyT, KeyY, KeyU, KeyI, KeyO, KeyP,
		KeyA, KeyS, KeyD, KeyF, KeyG, KeyH, KeyJ, KeyK, KeyL,
		KeyZ, KeyX, KeyC, KeyV, KeyB, KeyN, KeyM:
		return true
	}
	return false
}

var keypadDigits = map[KeyCode]struct {
	char rune
	raw  KeyCode
}{
	KeyPad0:      {'0', KeyInsert},
	KeyPad1:      {'1', KeyEnd},
	KeyPad2:      {'2', KeyArrowDown},
	KeyPad3:      {'3', KeyPageDown},
	KeyPad4:      {'4', KeyArrowLeft},
	KeyPad5:      {'5', KeyUnknown},
	KeyPad6:      {'6', KeyArrowRight},
	KeyPad7:      {'7', KeyHome},
	KeyPad8:      {'8', KeyArrowUp},
	KeyPad9:      {'9', KeyPageUp},
	KeyPadPeriod: {'.', KeyDelete},
}

func mapKeypad(key KeyCode, numLock bool) (DecodedKey, bool) {
	switch key {
	case KeyPadSlash:
		return Char('/'), true
	case KeyPadMultiply:
		return Char('*'), true
	case KeyPadMinus:
		return Char('-'), true
	case KeyPadPlus:
		return Char('+'), true
	case KeyPadEnter:
		return Char('\n'), true
	}
	d, ok := keypadDigits[key]
	if !ok {
		return DecodedKey{}, false
	}
	if numLock {
		return Char(d.char), true
	}
	if key == KeyPadPeriod {
		return Char(0x7F), true
	}
	return Raw(d.raw), true
}

var usKeys = map[KeyCode]keyChars{
	KeyBackTick: {'`', '~'}, KeyEscape: {0x1B, 0x1B},
	Key1: {'1', '!'}, Key2: {'2', '@'}, Key3: {'3', '#'}, Key4: {'4', '$'},
	Key5: {'5', '%'}, Key6: {'6', '^'}, Key7: {'7', '&'}, Key8: {'8', '*'},
	Key9: {'9', '('}, Key0: {'0', ')'}, KeyMinus: {'-', '_'}, KeyEquals: {'=', '+'},
	KeyBackspace: {0x08, 0x08}, KeyTab: {'\t', '\t'},
	KeyQ: {'q', 'Q'}, KeyW: {'w', 'W'}, KeyE: {'e', 'E'}, KeyR: {'r', 'R'},
	KeyT: {'t', 'T'}, KeyY: {'y', 'Y'}, KeyU: {'u', 'U'}, KeyI: {'i', 'I'},
	KeyO: {'o', 'O'}, KeyP: {'p', 'P'},
	KeyBracketLeft: {'[', '{'}, KeyBracketRight: {']', '}'}, KeyBackslash: {'\\', '|'},
	KeyA: {'a', 'A'}, KeyS: {'s', 'S'}, KeyD: {'d', 'D'}, KeyF: {'f', 'F'},
	KeyG: {'g', 'G'}, KeyH: {'h', 'H'}, KeyJ: {'j', 'J'}, KeyK: {'k', 'K'},
	KeyL: {'l', 'L'}, KeySemicolon: {';', ':'}, KeyQuote: {'\'', '"'},
	KeyEnter: {'\n', '\n'},
	KeyZ: {'z', 'Z'}, KeyX: {'x', 'X'}, KeyC: {'c', 'C'}, KeyV: {'v', 'V'},
	KeyB: {'b', 'B'}, KeyN: {'n', 'N'}, KeyM: {'m', 'M'},
	KeyComma: {',', '<'}, KeyFullStop: {'.', '>'}, KeySlash: {'/', '?'},
	KeySpace: {' ', ' '}, KeyDelete: {0x7F, 0x7F},
}

func ukKeys() map[KeyCode]keyChars {
	m := make(map[KeyCode]keyChars, len(usKeys)+1)
	for k, v := range usKeys {
		m[k] = v
	}
	m[KeyBackTick] = keyChars{'`', '¬'}
	m[Key2] = keyChars{'2', '"'}
	m[Key3] = keyChars{'3', '£'}
	m[KeyQuote] = keyChars{'\'', '@'}
	m[KeyBackslash] = keyChars{'#', '~'}
	m[KeyOem102] = keyChars{'\\', '|'}
	return m
}

var (
	// US104 is the US 104-key layout.
	US104 Layout = &tableLayout{name: "us104", keys: usKeys}
	// UK105 is the UK 105-key layout.
	UK105 Layout = &tableLayout{
		name:  "uk105",
		keys:  ukKeys(),
		altGr: map[KeyCode]rune{Key4: '€'},
	}
)

// LayoutByName looks up a layout by its Name.
func LayoutByName(name string) (Layout, error) {
	switch strings.ToLower(name) {
	case "", US104.Name():
		return US104, nil
	case UK105.Name():
		return UK105, nil
	}
	return nil, fmt.Errorf("keyboard: unknown layout %q", name)
}
