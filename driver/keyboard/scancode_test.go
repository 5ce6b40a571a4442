package keyboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func feedAll(d *Set1Decoder, bs ...byte) []KeyEvent {
	var out []KeyEvent
	for _, b := range bs {
		if ev, ok := d.Add(b); ok {
			out = append(out, ev)
		}
	}
	return out
}

func TestSet1MakeAndBreak(t *testing.T) {
	var d Set1Decoder
	got := feedAll(&d, 0x1E, 0x9E)
	require.Equal(t, []KeyEvent{
		{Code: KeyA, State: KeyDown},
		{Code: KeyA, State: KeyUp},
	}, got)
}

func TestSet1Extended(t *testing.T) {
	var d Set1Decoder
	got := feedAll(&d, 0xE0, 0x48, 0xE0, 0xC8, 0x48)
	require.Equal(t, []KeyEvent{
		{Code: KeyArrowUp, State: KeyDown},
		{Code: KeyArrowUp, State: KeyUp},
		{Code: KeyPad8, State: KeyDown},
	}, got)
}

func TestSet1PrintScreenFakeShiftIgnored(t *testing.T) {
	var d Set1Decoder
	got := feedAll(&d, 0xE0, 0x2A, 0xE0, 0x37)
	require.Equal(t, []KeyEvent{{Code: KeyPrintScreen, State: KeyDown}}, got)
}

func TestSet1Pause(t *testing.T) {
	var d Set1Decoder
	got := feedAll(&d, 0xE1, 0x1D, 0x45, 0xE1, 0x9D, 0xC5, 0x1E)
	require.Equal(t, []KeyEvent{
		{Code: KeyPause, State: KeyDown},
		{Code: KeyPause, State: KeyUp},
		{Code: KeyA, State: KeyDown},
	}, got)
}

func TestSet1UnknownCodes(t *testing.T) {
	var d Set1Decoder
	require.Empty(t, feedAll(&d, 0x00, 0x54, 0x7F, 0xE0, 0x01))

	d.extended = true
	d.Reset()
	require.Equal(t, []KeyEvent{{Code: KeyEscape, State: KeyDown}}, feedAll(&d, 0x01))
}

func TestKeyCodeString(t *testing.T) {
	require.Equal(t, "ArrowUp", KeyArrowUp.String())
	require.Equal(t, "F12", KeyF12.String())
	require.Equal(t, "Unknown", KeyCode(250).String())
}
