package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"ember/hal"
	"ember/kernel"

	"github.com/rs/zerolog"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	panicFontHeight = 10
	panicFontOffset = 7
)

func installPanicHandler(h hal.HAL, log zerolog.Logger) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		log.Error().
			Uint64("task", uint64(info.TaskID)).
			Interface("panic", info.Value).
			Msg("kernel panic")
		if l := h.Logger(); l != nil && len(info.Stack) > 0 {
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line != "" {
					l.WriteLineString(line)
				}
			}
		}

		if disp := h.Display(); disp != nil {
			if fb := disp.Framebuffer(); fb != nil {
				drawPanicScreen(fb, info)
			}
		}
		haltAfterPanic()
	})
}

func drawPanicScreen(fb hal.Framebuffer, info kernel.PanicInfo) {
	if fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return
	}
	fb.ClearRGB(0xAA, 0, 0)

	font := &proggy.TinySZ8pt7b
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}

	lines := []string{
		"KERNEL PANIC",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				lines = append(lines, line)
			}
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	d := panicDisplay{fb: fb}
	fg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	maxH := int16(fb.Height())
	for _, line := range lines {
		for len(line) > 0 {
			if y+panicFontHeight > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, font, fontWidth, 0, y, chunk, fg)
			y += panicFontHeight
			line = strings.TrimLeft(rest, " \t")
		}
	}
	_ = fb.Present()
}

func drawTextLine(d panicDisplay, font tinyfont.Fonter, fontWidth, x0, y0 int16, s string, fg color.RGBA) {
	x := x0
	for _, r := range s {
		tinyfont.DrawChar(d, font, x, y0+panicFontOffset, r, fg)
		x += fontWidth
	}
}

// panicDisplay draws straight into the framebuffer. It shares nothing with the
// console, whose lock may be held by the task that panicked.
type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d panicDisplay) Display() error { return nil }

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
