// Package keyboard decodes PS/2 scan code set 1 and runs the task that turns
// keyboard interrupts into console output.
package keyboard

// Keyboard combines a scan code decoder, modifier tracking and a layout.
type Keyboard struct {
	dec    Set1Decoder
	layout Layout
	mods   Modifiers
}

// New returns a keyboard using layout, with num lock on.
func New(layout Layout) *Keyboard {
	if layout == nil {
		layout = US104
	}
	return &Keyboard{layout: layout, mods: Modifiers{NumLock: true}}
}

// Modifiers returns the current modifier state.
func (k *Keyboard) Modifiers() Modifiers { return k.mods }

// AddByte feeds one scan code byte to the decoder.
func (k *Keyboard) AddByte(b byte) (KeyEvent, bool) {
	return k.dec.Add(b)
}

// ProcessKeyEvent updates modifier state and decodes key presses. Releases and
// modifier keys produce nothing.
func (k *Keyboard) ProcessKeyEvent(ev KeyEvent) (DecodedKey, bool) {
	down := ev.State == KeyDown
	switch ev.Code {
	case KeyLeftShift:
		k.mods.LShift = down
		return DecodedKey{}, false
	case KeyRightShift:
		k.mods.RShift = down
		return DecodedKey{}, false
	case KeyLeftCtrl:
		k.mods.LCtrl = down
		return DecodedKey{}, false
	case KeyRightCtrl:
		k.mods.RCtrl = down
		return DecodedKey{}, false
	case KeyLeftAlt:
		k.mods.Alt = down
		return DecodedKey{}, false
	case KeyRightAlt:
		k.mods.AltGr = down
		return DecodedKey{}, false
	case KeyCapsLock:
		if down {
			k.mods.CapsLock = !k.mods.CapsLock
		}
		return DecodedKey{}, false
	case KeyNumLock:
		if down {
			k.mods.NumLock = !k.mods.NumLock
		}
		return DecodedKey{}, false
	}
	if !down {
		return DecodedKey{}, false
	}
	return k.layout.Map(ev.Code, k.mods), true
}

// Feed decodes one byte all the way to a key press.
func (k *Keyboard) Feed(b byte) (DecodedKey, bool) {
	ev, ok := k.AddByte(b)
	if !ok {
		return DecodedKey{}, false
	}
	return k.ProcessKeyEvent(ev)
}
