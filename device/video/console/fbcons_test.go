package console

import (
	"bytes"
	"testing"

	"github.com/shadowm-mounarch/shadowos/device/video/console/font"
	"github.com/shadowm-mounarch/shadowos/kernel/hal/bootinfo"
)

// testFont is a tiny 8x2 font whose first glyph row byte equals the glyph
// index. This makes rendered cells cheap to verify: the first pixel row of a
// cell encodes the written character.
func testFont() *font.Font {
	f := &font.Font{
		Name:        "test8x2",
		GlyphWidth:  8,
		GlyphHeight: 2,
		BytesPerRow: 1,
		Data:        make([]byte, 128*2),
	}

	for i := 0; i < 128; i++ {
		f.Data[i*2] = byte(i)
		f.Data[i*2+1] = 0x00
	}

	return f
}

// newTestConsole returns a 4x4 character console over an in-memory 32bpp
// framebuffer with the 0xRRGGBB channel layout.
func newTestConsole(t *testing.T) *FbConsole {
	t.Helper()

	origAcquire, origRelease := acquireMutexFn, releaseMutexFn
	acquireMutexFn = func() {}
	releaseMutexFn = func() {}
	t.Cleanup(func() {
		acquireMutexFn, releaseMutexFn = origAcquire, origRelease
	})

	cons := NewFbConsole(32, 8, 32, 32*4, 16, 8, 0, 0)
	cons.fb = make([]uint8, 8*32*4)
	cons.SetFont(testFont())

	return cons
}

// cellFirstRowBits reconstructs the glyph byte rendered into the first pixel
// row of the given character cell by checking which pixels hold the
// foreground color.
func cellFirstRowBits(cons *FbConsole, col, row uint32) byte {
	var (
		bits    byte
		fgPixel = cons.packPixel(cons.fg)
		pY      = row * cons.font.GlyphHeight
	)

	for x := uint32(0); x < cons.font.GlyphWidth; x++ {
		offset := pY*cons.pitch + (col*cons.font.GlyphWidth+x)*cons.bytesPerPixel
		pixel := uint32(cons.fb[offset]) | uint32(cons.fb[offset+1])<<8 |
			uint32(cons.fb[offset+2])<<16 | uint32(cons.fb[offset+3])<<24
		if pixel == fgPixel {
			bits |= 1 << (7 - x)
		}
	}

	return bits
}

func TestWriteAdvancesCursor(t *testing.T) {
	cons := newTestConsole(t)

	cons.Write([]byte("ab"))

	if x, y := cons.CursorPosition(); x != 2 || y != 0 {
		t.Errorf("expected cursor at (2, 0); got (%d, %d)", x, y)
	}

	if got := cellFirstRowBits(cons, 0, 0); got != 'a' {
		t.Errorf("expected cell (0,0) to render glyph 0x%x; got 0x%x", 'a', got)
	}
	if got := cellFirstRowBits(cons, 1, 0); got != 'b' {
		t.Errorf("expected cell (1,0) to render glyph 0x%x; got 0x%x", 'b', got)
	}
}

func TestWrapHappensOnNextWrite(t *testing.T) {
	cons := newTestConsole(t)

	// Exactly fill the first row; the cursor rests past the last column
	// and must not wrap until the next write.
	cons.Write([]byte("abcd"))

	if x, y := cons.CursorPosition(); x != cons.cols || y != 0 {
		t.Fatalf("expected cursor to rest at (%d, 0); got (%d, %d)", cons.cols, x, y)
	}

	cons.WriteByte('e')

	if x, y := cons.CursorPosition(); x != 1 || y != 1 {
		t.Errorf("expected cursor at (1, 1) after wrapping write; got (%d, %d)", x, y)
	}
	if got := cellFirstRowBits(cons, 0, 1); got != 'e' {
		t.Errorf("expected cell (0,1) to render glyph 0x%x; got 0x%x", 'e', got)
	}
}

func TestNewlineAndScroll(t *testing.T) {
	cons := newTestConsole(t)

	cons.WriteByte('a')
	cons.WriteByte('\n')

	if x, y := cons.CursorPosition(); x != 0 || y != 1 {
		t.Fatalf("expected cursor at (0, 1) after newline; got (%d, %d)", x, y)
	}

	// Write one line per row plus one more; the first line scrolls out of
	// view and the last text row ends up blank.
	cons.Clear()
	for _, line := range []string{"1", "2", "3", "4", "5"} {
		cons.Write([]byte(line))
		cons.WriteByte('\n')
	}

	if x, y := cons.CursorPosition(); x != 0 || y != cons.rows-1 {
		t.Errorf("expected cursor pinned to the last row; got (%d, %d)", x, y)
	}

	// Rows now show lines 2..5; line 1 is gone.
	for row, exp := range []byte{'3', '4', '5', 0} {
		if got := cellFirstRowBits(cons, 0, uint32(row)); got != exp {
			t.Errorf("expected row %d to show glyph 0x%x; got 0x%x", row, exp, got)
		}
	}
}

func TestBackspace(t *testing.T) {
	cons := newTestConsole(t)

	cons.Write([]byte("ab"))
	cons.Backspace()

	if x, y := cons.CursorPosition(); x != 1 || y != 0 {
		t.Errorf("expected cursor at (1, 0) after backspace; got (%d, %d)", x, y)
	}
	if got := cellFirstRowBits(cons, 1, 0); got != ' ' {
		t.Errorf("expected backspaced cell to render a blank; got glyph 0x%x", got)
	}

	// Backspacing at the start of a row moves to the last column of the
	// previous row.
	cons.Clear()
	cons.Write([]byte("abcd"))
	cons.WriteByte('e')
	cons.Backspace()
	cons.Backspace()

	if x, y := cons.CursorPosition(); x != cons.cols-1 || y != 0 {
		t.Errorf("expected cursor at (%d, 0); got (%d, %d)", cons.cols-1, x, y)
	}
	if got := cellFirstRowBits(cons, cons.cols-1, 0); got != ' ' {
		t.Errorf("expected cell (%d,0) to be blanked; got glyph 0x%x", cons.cols-1, got)
	}
}

func TestBackspaceAtOriginIsNoop(t *testing.T) {
	cons := newTestConsole(t)

	snapshot := make([]uint8, len(cons.fb))
	copy(snapshot, cons.fb)

	cons.Backspace()

	if x, y := cons.CursorPosition(); x != 0 || y != 0 {
		t.Errorf("expected cursor to stay at (0, 0); got (%d, %d)", x, y)
	}
	if !bytes.Equal(snapshot, cons.fb) {
		t.Error("expected framebuffer contents to be unchanged")
	}
}

func TestClear(t *testing.T) {
	cons := newTestConsole(t)

	cons.Write([]byte("abc\ndef"))
	cons.Clear()

	if x, y := cons.CursorPosition(); x != 0 || y != 0 {
		t.Errorf("expected cursor homed to (0, 0); got (%d, %d)", x, y)
	}

	bgPixel := cons.packPixel(cons.bg)
	for y := uint32(0); y < cons.height; y++ {
		for x := uint32(0); x < cons.width; x++ {
			offset := y*cons.pitch + x*cons.bytesPerPixel
			pixel := uint32(cons.fb[offset]) | uint32(cons.fb[offset+1])<<8 |
				uint32(cons.fb[offset+2])<<16 | uint32(cons.fb[offset+3])<<24
			if pixel != bgPixel {
				t.Fatalf("expected pixel (%d, %d) to hold the background color; got 0x%x", x, y, pixel)
			}
		}
	}
}

func TestPixelPackingRoundTrip(t *testing.T) {
	specs := []struct {
		redShift, greenShift, blueShift uint8
	}{
		{16, 8, 0},
		{0, 8, 16},
		{24, 16, 8},
	}

	colors := []RGB{
		{R: 0x00, G: 0x00, B: 0x00},
		{R: 0xff, G: 0xff, B: 0xff},
		{R: 0xcc, G: 0xcc, B: 0xcc},
		{R: 0x12, G: 0x34, B: 0x56},
	}

	for specIndex, spec := range specs {
		cons := NewFbConsole(8, 8, 32, 32, spec.redShift, spec.greenShift, spec.blueShift, 0)

		for _, c := range colors {
			if got := cons.unpackPixel(cons.packPixel(c)); got != c {
				t.Errorf("[spec %d] expected color %v to survive a pack/unpack round-trip; got %v", specIndex, c, got)
			}
		}
	}
}

func TestPutPixelBoundsCheck(t *testing.T) {
	cons := newTestConsole(t)

	snapshot := make([]uint8, len(cons.fb))
	copy(snapshot, cons.fb)

	cons.putPixel(cons.width, 0, 0xffffffff)
	cons.putPixel(0, cons.height, 0xffffffff)
	cons.putPixel(1<<31, 1<<31, 0xffffffff)

	if !bytes.Equal(snapshot, cons.fb) {
		t.Error("expected out-of-bounds pixel writes to be skipped")
	}
}

func TestProbeForFbConsole(t *testing.T) {
	defer func() {
		getFramebufferInfoFn = bootinfo.GetFramebufferInfo
	}()

	specs := []struct {
		descr  string
		fbInfo *bootinfo.FramebufferInfo
		expNil bool
	}{
		{"headless boot", nil, true},
		{"unsupported depth", &bootinfo.FramebufferInfo{Width: 640, Height: 480, Pitch: 640, Bpp: 8}, true},
		{"32bpp framebuffer", &bootinfo.FramebufferInfo{Width: 1024, Height: 768, Pitch: 4096, Bpp: 32, RedPosition: 16, GreenPosition: 8}, false},
	}

	for specIndex, spec := range specs {
		getFramebufferInfoFn = func() *bootinfo.FramebufferInfo { return spec.fbInfo }

		drv := probeForFbConsole()
		if gotNil := drv == nil; gotNil != spec.expNil {
			t.Errorf("[spec %d] %s: expected probe nil=%t; got nil=%t", specIndex, spec.descr, spec.expNil, gotNil)
		}
	}
}
