// Package console implements a text console on top of the linear
// framebuffer handed over by the boot stage. Text is rendered with a bitmap
// font into a character grid derived from the framebuffer geometry; when the
// cursor runs off the last row the contents scroll up by one text row.
package console

import (
	"encoding/binary"
	"io"
	"reflect"
	"unsafe"

	"github.com/shadowm-mounarch/shadowos/device/video/console/font"
	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
	"github.com/shadowm-mounarch/shadowos/kernel/sync"
)

// Dimension defines the types of dimensions that can be queried off a
// console device.
type Dimension uint8

const (
	// Characters describes the console character grid size given the
	// currently active font.
	Characters Dimension = iota

	// Pixels describes the framebuffer size in pixels.
	Pixels
)

// RGB describes a color as 8-bit red, green and blue channel values.
type RGB struct {
	R, G, B uint8
}

// Default text colors: light gray on black.
var (
	defaultFg = RGB{R: 0xcc, G: 0xcc, B: 0xcc}
	defaultBg = RGB{R: 0x00, G: 0x00, B: 0x00}
)

var (
	errNoFont = &kernel.Error{Module: "console", Message: "no font selected"}
)

// FbConsole implements a scrolling text console over a 32bpp linear
// framebuffer.
type FbConsole struct {
	fbVirtAddr uintptr
	fb         []uint8

	// Framebuffer geometry.
	width, height uint32
	pitch         uint32
	bytesPerPixel uint32

	// Channel bit positions inside a packed pixel value.
	redShift, greenShift, blueShift uint8

	// Character grid state. curX may rest at cols after a glyph is
	// rendered in the last column; the wrap to the next row happens on
	// the next write.
	font       *font.Font
	cols, rows uint32
	curX, curY uint32

	fg, bg RGB
}

var (
	// mutex guards the active console state. Normal-context writers must
	// hold it with interrupts masked as the panic path may write to the
	// console from interrupt context. The acquire/release pair is
	// swappable so tests can run without masking host interrupts.
	mutex          sync.IRQSpinlock
	acquireMutexFn = acquireConsMutex
	releaseMutexFn = releaseConsMutex
)

func acquireConsMutex() { mutex.AcquireIRQ() }
func releaseConsMutex() { mutex.ReleaseIRQ() }

// NewFbConsole creates a console over a framebuffer with the supplied
// geometry. The framebuffer memory itself is attached by DriverInit (or
// directly by tests).
func NewFbConsole(width, height uint32, bpp uint8, pitch uint32, redShift, greenShift, blueShift uint8, fbVirtAddr uintptr) *FbConsole {
	return &FbConsole{
		fbVirtAddr:    fbVirtAddr,
		width:         width,
		height:        height,
		pitch:         pitch,
		bytesPerPixel: uint32(bpp) >> 3,
		redShift:      redShift,
		greenShift:    greenShift,
		blueShift:     blueShift,
		fg:            defaultFg,
		bg:            defaultBg,
	}
}

// SetFont selects the bitmap font used by the console, derives the character
// grid from the framebuffer and font geometry and clears the screen.
func (cons *FbConsole) SetFont(f *font.Font) {
	if f == nil {
		return
	}

	acquireMutexFn()
	defer releaseMutexFn()

	cons.font = f
	cons.cols = cons.width / f.GlyphWidth
	cons.rows = cons.height / f.GlyphHeight
	cons.clear()
}

// Dimensions returns the console width and height in the specified dimension.
func (cons *FbConsole) Dimensions(dim Dimension) (uint32, uint32) {
	switch dim {
	case Characters:
		return cons.cols, cons.rows
	default:
		return cons.width, cons.height
	}
}

// DefaultColors returns the default foreground and background colors used by
// this console.
func (cons *FbConsole) DefaultColors() (fg, bg RGB) {
	return defaultFg, defaultBg
}

// CursorPosition returns the current cursor column and row.
func (cons *FbConsole) CursorPosition() (uint32, uint32) {
	return cons.curX, cons.curY
}

// Write implements io.Writer.
func (cons *FbConsole) Write(data []byte) (int, error) {
	for count, b := range data {
		if err := cons.WriteByte(b); err != nil {
			return count, err
		}
	}

	return len(data), nil
}

// WriteByte implements io.ByteWriter. A newline moves the cursor to the
// start of the next row, scrolling when the cursor is already on the last
// row. Every other byte renders the glyph at the byte's 7-bit index and
// advances the cursor; bytes without a real glyph still consume a cell.
func (cons *FbConsole) WriteByte(b byte) error {
	if cons.font == nil {
		return errNoFont
	}

	acquireMutexFn()
	defer releaseMutexFn()

	switch b {
	case '\n':
		cons.newLine()
	default:
		if cons.curX >= cons.cols {
			cons.newLine()
		}
		cons.renderGlyph(b, cons.curX, cons.curY)
		cons.curX++
	}

	return nil
}

// Backspace moves the cursor one cell back and blanks that cell. At the
// start of a row it moves to the last column of the previous row; at (0,0)
// it is a no-op.
func (cons *FbConsole) Backspace() {
	if cons.font == nil {
		return
	}

	acquireMutexFn()
	defer releaseMutexFn()

	switch {
	case cons.curX > 0:
		cons.curX--
	case cons.curY > 0:
		cons.curY--
		cons.curX = cons.cols - 1
	default:
		return
	}

	cons.renderGlyph(' ', cons.curX, cons.curY)
}

// Clear fills the framebuffer with the background color and homes the
// cursor.
func (cons *FbConsole) Clear() {
	acquireMutexFn()
	defer releaseMutexFn()

	cons.clear()
}

func (cons *FbConsole) clear() {
	bgPixel := cons.packPixel(cons.bg)
	for y := uint32(0); y < cons.height; y++ {
		for x := uint32(0); x < cons.width; x++ {
			cons.putPixel(x, y, bgPixel)
		}
	}

	cons.curX, cons.curY = 0, 0
}

// newLine resets the cursor column and advances the row, scrolling the
// console contents when the cursor is already on the last row.
func (cons *FbConsole) newLine() {
	cons.curX = 0
	if cons.curY+1 < cons.rows {
		cons.curY++
		return
	}

	cons.scrollUp()
}

// scrollUp copies every text row except the first one text row up and blanks
// the vacated last row. The copy direction is front-to-back which is safe
// for the overlapping ranges involved as the destination precedes the source
// in memory.
func (cons *FbConsole) scrollUp() {
	rowBytes := cons.font.GlyphHeight * cons.pitch
	visibleBytes := cons.rows * rowBytes

	if uint32(len(cons.fb)) < visibleBytes {
		return
	}

	copy(cons.fb[:visibleBytes-rowBytes], cons.fb[rowBytes:visibleBytes])

	bgPixel := cons.packPixel(cons.bg)
	lastRowY := (cons.rows - 1) * cons.font.GlyphHeight
	for y := lastRowY; y < cons.rows*cons.font.GlyphHeight; y++ {
		for x := uint32(0); x < cons.width; x++ {
			cons.putPixel(x, y, bgPixel)
		}
	}
}

// renderGlyph draws the glyph for ch at the given character cell. Each glyph
// row byte is scanned MSB-first with set bits drawn in the foreground color
// and clear bits in the background color, so the whole cell is repainted on
// every write.
func (cons *FbConsole) renderGlyph(ch byte, col, row uint32) {
	var (
		glyphOffset = uint32(ch&0x7f) * cons.font.BytesPerRow * cons.font.GlyphHeight
		pX          = col * cons.font.GlyphWidth
		pY          = row * cons.font.GlyphHeight
		fgPixel     = cons.packPixel(cons.fg)
		bgPixel     = cons.packPixel(cons.bg)
	)

	for y := uint32(0); y < cons.font.GlyphHeight; y, glyphOffset = y+1, glyphOffset+cons.font.BytesPerRow {
		rowData := cons.font.Data[glyphOffset]
		for x, mask := uint32(0), uint8(1<<7); x < cons.font.GlyphWidth; x, mask = x+1, mask>>1 {
			if rowData&mask != 0 {
				cons.putPixel(pX+x, pY+y, fgPixel)
			} else {
				cons.putPixel(pX+x, pY+y, bgPixel)
			}
		}
	}
}

// packPixel packs an RGB color into a pixel value by shifting each channel
// into the position reported by the boot stage.
func (cons *FbConsole) packPixel(c RGB) uint32 {
	return uint32(c.R)<<cons.redShift |
		uint32(c.G)<<cons.greenShift |
		uint32(c.B)<<cons.blueShift
}

// unpackPixel recovers the RGB channel values from a packed pixel.
func (cons *FbConsole) unpackPixel(pixel uint32) RGB {
	return RGB{
		R: uint8(pixel >> cons.redShift),
		G: uint8(pixel >> cons.greenShift),
		B: uint8(pixel >> cons.blueShift),
	}
}

// putPixel stores a packed pixel value at the given coordinates. Writes
// outside the framebuffer bounds are silently skipped.
func (cons *FbConsole) putPixel(x, y uint32, pixel uint32) {
	if x >= cons.width || y >= cons.height {
		return
	}

	offset := y*cons.pitch + x*cons.bytesPerPixel
	if uint32(len(cons.fb)) < offset+4 {
		return
	}

	binary.LittleEndian.PutUint32(cons.fb[offset:], pixel)
}

// DriverName returns the name of this driver.
func (cons *FbConsole) DriverName() string {
	return "fb_console"
}

// DriverVersion returns the version of this driver.
func (cons *FbConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver by overlaying a byte slice on the
// framebuffer memory mapped by the boot stage.
func (cons *FbConsole) DriverInit(w io.Writer) *kernel.Error {
	fbSize := int(cons.height * cons.pitch)

	cons.fb = *(*[]uint8)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  fbSize,
		Cap:  fbSize,
		Data: cons.fbVirtAddr,
	}))

	kfmt.Fprintf(w, "%dx%d@%d pitch %d at 0x%x\n",
		cons.width, cons.height, cons.bytesPerPixel*8, cons.pitch, uint64(cons.fbVirtAddr))

	return nil
}
