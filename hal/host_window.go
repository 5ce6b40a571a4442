//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"image"
	"os"

	"ember/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const windowTPS = 60

// RunWindow starts a desktop window that shows the framebuffer and turns key
// presses into scan codes on the keyboard line. Each frame raises the timer line
// once. It blocks until the window closes or the system fails.
func RunWindow(ctx context.Context, boot BootFunc) error {
	h := NewHost(os.Stdout)
	sys, err := boot(h)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sys.Run(ctx) }()

	g := &hostGame{h: h, done: done}
	ebiten.SetWindowTitle("ember (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*2, h.fb.height*2)
	ebiten.SetTPS(windowTPS)
	err = ebiten.RunGame(g)

	cancel()
	h.cpu.Stop()
	if g.runErr != nil {
		return g.runErr
	}
	if runErr := <-done; runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return err
}

type hostGame struct {
	h       *Host
	done    chan error
	runErr  error
	keys    []ebiten.Key
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.runErr = err
		if err == nil {
			return ebiten.Termination
		}
		return err
	default:
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if codes, ok := set1Make(k); ok {
			g.h.ps2.Send(codes...)
		}
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		if codes, ok := set1Break(k); ok {
			g.h.ps2.Send(codes...)
		}
	}

	g.h.cpu.Raise(IRQTimer)
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}

// set1Keys maps window keys to scan code set 1 make codes. Codes above 0xFF carry
// the 0xE0 prefix.
var set1Keys = map[ebiten.Key]uint16{
	ebiten.KeyEscape: 0x01,
	ebiten.KeyDigit1: 0x02, ebiten.KeyDigit2: 0x03, ebiten.KeyDigit3: 0x04,
	ebiten.KeyDigit4: 0x05, ebiten.KeyDigit5: 0x06, ebiten.KeyDigit6: 0x07,
	ebiten.KeyDigit7: 0x08, ebiten.KeyDigit8: 0x09, ebiten.KeyDigit9: 0x0A,
	ebiten.KeyDigit0: 0x0B, ebiten.KeyMinus: 0x0C, ebiten.KeyEqual: 0x0D,
	ebiten.KeyBackspace: 0x0E, ebiten.KeyTab: 0x0F,
	ebiten.KeyQ: 0x10, ebiten.KeyW: 0x11, ebiten.KeyE: 0x12, ebiten.KeyR: 0x13,
	ebiten.KeyT: 0x14, ebiten.KeyY: 0x15, ebiten.KeyU: 0x16, ebiten.KeyI: 0x17,
	ebiten.KeyO: 0x18, ebiten.KeyP: 0x19,
	ebiten.KeyBracketLeft: 0x1A, ebiten.KeyBracketRight: 0x1B,
	ebiten.KeyEnter: 0x1C, ebiten.KeyControlLeft: 0x1D,
	ebiten.KeyA: 0x1E, ebiten.KeyS: 0x1F, ebiten.KeyD: 0x20, ebiten.KeyF: 0x21,
	ebiten.KeyG: 0x22, ebiten.KeyH: 0x23, ebiten.KeyJ: 0x24, ebiten.KeyK: 0x25,
	ebiten.KeyL: 0x26, ebiten.KeySemicolon: 0x27, ebiten.KeyQuote: 0x28,
	ebiten.KeyBackquote: 0x29, ebiten.KeyShiftLeft: 0x2A, ebiten.KeyBackslash: 0x2B,
	ebiten.KeyZ: 0x2C, ebiten.KeyX: 0x2D, ebiten.KeyC: 0x2E, ebiten.KeyV: 0x2F,
	ebiten.KeyB: 0x30, ebiten.KeyN: 0x31, ebiten.KeyM: 0x32,
	ebiten.KeyComma: 0x33, ebiten.KeyPeriod: 0x34, ebiten.KeySlash: 0x35,
	ebiten.KeyShiftRight: 0x36, ebiten.KeyNumpadMultiply: 0x37,
	ebiten.KeyAltLeft: 0x38, ebiten.KeySpace: 0x39, ebiten.KeyCapsLock: 0x3A,
	ebiten.KeyF1: 0x3B, ebiten.KeyF2: 0x3C, ebiten.KeyF3: 0x3D, ebiten.KeyF4: 0x3E,
	ebiten.KeyF5: 0x3F, ebiten.KeyF6: 0x40, ebiten.KeyF7: 0x41, ebiten.KeyF8: 0x42,
	ebiten.KeyF9: 0x43, ebiten.KeyF10: 0x44,
	ebiten.KeyNumLock: 0x45, ebiten.KeyScrollLock: 0x46,
	ebiten.KeyNumpad7: 0x47, ebiten.KeyNumpad8: 0x48, ebiten.KeyNumpad9: 0x49,
	ebiten.KeyNumpadSubtract: 0x4A,
	ebiten.KeyNumpad4: 0x4B, ebiten.KeyNumpad5: 0x4C, ebiten.KeyNumpad6: 0x4D,
	ebiten.KeyNumpadAdd: 0x4E,
	ebiten.KeyNumpad1: 0x4F, ebiten.KeyNumpad2: 0x50, ebiten.KeyNumpad3: 0x51,
	ebiten.KeyNumpad0: 0x52, ebiten.KeyNumpadDecimal: 0x53,
	ebiten.KeyIntlBackslash: 0x56, ebiten.KeyF11: 0x57, ebiten.KeyF12: 0x58,

	ebiten.KeyNumpadEnter: 0xE01C, ebiten.KeyControlRight: 0xE01D,
	ebiten.KeyNumpadDivide: 0xE035, ebiten.KeyAltRight: 0xE038,
	ebiten.KeyHome: 0xE047, ebiten.KeyArrowUp: 0xE048, ebiten.KeyPageUp: 0xE049,
	ebiten.KeyArrowLeft: 0xE04B, ebiten.KeyArrowRight: 0xE04D,
	ebiten.KeyEnd: 0xE04F, ebiten.KeyArrowDown: 0xE050, ebiten.KeyPageDown: 0xE051,
	ebiten.KeyInsert: 0xE052, ebiten.KeyDelete: 0xE053,
	ebiten.KeyMetaLeft: 0xE05B, ebiten.KeyMetaRight: 0xE05C,
}

func set1Make(k ebiten.Key) ([]uint8, bool) {
	code, ok := set1Keys[k]
	if !ok {
		return nil, false
	}
	if code > 0xFF {
		return []uint8{uint8(code >> 8), uint8(code)}, true
	}
	return []uint8{uint8(code)}, true
}

func set1Break(k ebiten.Key) ([]uint8, bool) {
	codes, ok := set1Make(k)
	if ok {
		codes[len(codes)-1] |= set1Release
	}
	return codes, ok
}
