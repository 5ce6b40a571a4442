// Package console is the kernel's character output: text drawn on the
// framebuffer, mirrored line by line to the platform logger.
package console

import (
	"image/color"
	"sync"
	"unicode/utf8"

	"ember/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	fontHeight = 10
	fontOffset = 6
	tabWidth   = 8
)

var (
	colorFG = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	colorBG = color.RGBA{A: 0xFF}
)

// Console is an io.Writer. It must not be written from interrupt context.
type Console struct {
	mu   sync.Mutex
	log  hal.Logger
	scr  *screen
	line []byte
}

// New returns a console drawing on disp (which may be nil or have no framebuffer)
// and mirroring to log (which may be nil).
func New(disp hal.Display, log hal.Logger) *Console {
	c := &Console{log: log}
	if disp != nil {
		if fb := disp.Framebuffer(); fb != nil && fb.Format() == hal.PixelFormatRGB565 && fb.Buffer() != nil {
			c.scr = newScreen(fb)
		}
	}
	return c
}

// Write implements io.Writer.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scr != nil {
		for i := 0; i < len(p); {
			r, n := utf8.DecodeRune(p[i:])
			c.scr.put(r)
			i += n
		}
		_ = c.scr.d.Display()
	}
	for _, b := range p {
		switch b {
		case '\n':
			c.flushLocked()
		case '\b':
			if n := len(c.line); n > 0 {
				c.line = c.line[:n-1]
			}
		case '\r':
		default:
			c.line = append(c.line, b)
		}
	}
	return len(p), nil
}

// Flush sends a partial line to the logger.
func (c *Console) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.line) > 0 {
		c.flushLocked()
	}
}

// Clear blanks the screen and homes the cursor.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scr != nil {
		c.scr.clear()
	}
}

func (c *Console) flushLocked() {
	if c.log != nil {
		c.log.WriteLineBytes(c.line)
	}
	c.line = c.line[:0]
}

// screen is a fixed grid of character cells with a cursor.
type screen struct {
	d    *fbDisplay
	font tinyfont.Fonter

	cw, ch     int16
	cols, rows int16
	col, row   int16
}

func newScreen(fb hal.Framebuffer) *screen {
	s := &screen{
		d:    &fbDisplay{fb: fb},
		font: &proggy.TinySZ8pt7b,
		ch:   fontHeight,
	}
	_, w := tinyfont.LineWidth(s.font, "0")
	s.cw = int16(w)
	if s.cw <= 0 {
		s.cw = 6
	}
	width, height := s.d.Size()
	s.cols, s.rows = width/s.cw, height/s.ch
	s.clear()
	return s
}

func (s *screen) clear() {
	s.d.fb.ClearRGB(colorBG.R, colorBG.G, colorBG.B)
	_ = s.d.fb.Present()
	s.col, s.row = 0, 0
}

func (s *screen) put(r rune) {
	if s.cols <= 0 || s.rows <= 0 {
		return
	}
	switch r {
	case '\n':
		s.newline()
	case '\r':
		s.col = 0
	case '\b':
		if s.col > 0 {
			s.col--
			s.clearCell()
		}
	case '\t':
		s.col = (s.col/tabWidth + 1) * tabWidth
		if s.col >= s.cols {
			s.newline()
		}
	default:
		if r < 0x20 || r == 0x7F {
			return
		}
		if s.col >= s.cols {
			s.newline()
		}
		s.clearCell()
		tinyfont.DrawChar(s.d, s.font, s.col*s.cw, s.row*s.ch+fontOffset, r, colorFG)
		s.col++
	}
}

func (s *screen) newline() {
	s.col = 0
	if s.row+1 < s.rows {
		s.row++
		return
	}
	_ = s.d.ScrollUp(s.ch, colorBG)
}

func (s *screen) clearCell() {
	_ = s.d.FillRectangle(s.col*s.cw, s.row*s.ch, s.cw, s.ch, colorBG)
}
