package console

import (
	"image/color"

	"ember/hal"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*fbDisplay)(nil)

// fbDisplay exposes an RGB565 framebuffer as a drivers.Displayer.
type fbDisplay struct {
	fb hal.Framebuffer
}

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= d.fb.Width() || int(y) >= d.fb.Height() {
		return
	}
	d.put(int(y)*d.fb.StrideBytes()+int(x)*2, hal.RGB565(c.R, c.G, c.B))
}

func (d *fbDisplay) Display() error {
	return d.fb.Present()
}

// ScrollUp moves the framebuffer content up by lines rows and clears the bottom.
func (d *fbDisplay) ScrollUp(lines int16, bg color.RGBA) error {
	h := d.fb.Height()
	n := int(lines)
	if n <= 0 {
		return nil
	}
	if n >= h {
		return d.FillRectangle(0, 0, int16(d.fb.Width()), int16(h), bg)
	}
	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	end := h * stride
	if end > len(buf) {
		end = len(buf)
	}
	if n*stride < end {
		copy(buf, buf[n*stride:end])
	}
	return d.FillRectangle(0, int16(h-n), int16(d.fb.Width()), int16(n), bg)
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	w, h := d.fb.Width(), d.fb.Height()
	x0, y0 := clamp(int(x), 0, w), clamp(int(y), 0, h)
	x1, y1 := clamp(int(x)+int(width), 0, w), clamp(int(y)+int(height), 0, h)

	pixel := hal.RGB565(c.R, c.G, c.B)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d.put(py*stride+px*2, pixel)
		}
	}
	return nil
}

func (d *fbDisplay) put(off int, pixel uint16) {
	buf := d.fb.Buffer()
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
