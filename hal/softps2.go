package hal

import "sync"

// Interrupt lines, numbered as on the legacy PC.
const (
	IRQTimer    IRQ = 0
	IRQKeyboard IRQ = 1
)

// SoftPS2 stands in for a PS/2 keyboard controller: every scan code byte sent to it
// is latched into the output buffer and raises the keyboard line.
type SoftPS2 struct {
	cpu *SoftCPU
	irq IRQ

	mu  sync.Mutex
	buf []uint8
}

// NewSoftPS2 returns a controller that raises irq on cpu.
func NewSoftPS2(cpu *SoftCPU, irq IRQ) *SoftPS2 {
	return &SoftPS2{cpu: cpu, irq: irq}
}

// Read8 implements Port8. Reading an empty controller returns 0. The line is raised
// again while bytes remain, so bytes sent while the line was pending are not lost.
func (p *SoftPS2) Read8() uint8 {
	p.mu.Lock()
	if len(p.buf) == 0 {
		p.mu.Unlock()
		return 0
	}
	b := p.buf[0]
	p.buf = p.buf[1:]
	more := len(p.buf) > 0
	p.mu.Unlock()

	if more && p.cpu != nil {
		p.cpu.Raise(p.irq)
	}
	return b
}

// Buffered returns the number of bytes not yet read.
func (p *SoftPS2) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}

// Send latches scan code bytes, raising one interrupt per byte.
func (p *SoftPS2) Send(codes ...uint8) {
	for _, c := range codes {
		p.mu.Lock()
		p.buf = append(p.buf, c)
		p.mu.Unlock()
		if p.cpu != nil {
			p.cpu.Raise(p.irq)
		}
	}
}

// TypeRune sends the scan code set 1 make and break codes for r as typed on a US
// keyboard. Runes with no key are ignored; it reports whether r was sent.
func (p *SoftPS2) TypeRune(r rune) bool {
	codes, ok := scancodesForRune(r)
	if ok {
		p.Send(codes...)
	}
	return ok
}

const (
	set1LeftShift uint8 = 0x2A
	set1Release   uint8 = 0x80
)

var set1Plain = map[rune]uint8{
	'1': 0x02, '2': 0x03, '3': 0x04, '4': 0x05, '5': 0x06,
	'6': 0x07, '7': 0x08, '8': 0x09, '9': 0x0A, '0': 0x0B,
	'-': 0x0C, '=': 0x0D, '\b': 0x0E, '\t': 0x0F,
	'q': 0x10, 'w': 0x11, 'e': 0x12, 'r': 0x13, 't': 0x14,
	'y': 0x15, 'u': 0x16, 'i': 0x17, 'o': 0x18, 'p': 0x19,
	'[': 0x1A, ']': 0x1B, '\n': 0x1C,
	'a': 0x1E, 's': 0x1F, 'd': 0x20, 'f': 0x21, 'g': 0x22,
	'h': 0x23, 'j': 0x24, 'k': 0x25, 'l': 0x26, ';': 0x27,
	'\'': 0x28, '`': 0x29, '\\': 0x2B,
	'z': 0x2C, 'x': 0x2D, 'c': 0x2E, 'v': 0x2F, 'b': 0x30,
	'n': 0x31, 'm': 0x32, ',': 0x33, '.': 0x34, '/': 0x35,
	' ': 0x39,
}

var set1Shifted = map[rune]rune{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
	'_': '-', '+': '=', '{': '[', '}': ']', ':': ';',
	'"': '\'', '~': '`', '|': '\\', '<': ',', '>': '.', '?': '/',
}

func scancodesForRune(r rune) ([]uint8, bool) {
	if r == '\r' {
		r = '\n'
	}
	if code, ok := set1Plain[r]; ok {
		return []uint8{code, code | set1Release}, true
	}
	base, ok := set1Shifted[r]
	if !ok && r >= 'A' && r <= 'Z' {
		base, ok = r-'A'+'a', true
	}
	if !ok {
		return nil, false
	}
	code := set1Plain[base]
	return []uint8{set1LeftShift, code, code | set1Release, set1LeftShift | set1Release}, true
}
