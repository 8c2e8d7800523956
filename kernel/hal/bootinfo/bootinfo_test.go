package bootinfo

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unsafe"
)

func TestGetFramebufferInfo(t *testing.T) {
	blob := newBootInfoBlob()
	blob.addTag(tagFramebufferInfo, fbTagPayload(0xffff800000a00000, 1024, 768, 4096, 32))
	SetInfoPtr(blob.infoPtr())

	fbInfo := GetFramebufferInfo()
	if fbInfo == nil {
		t.Fatal("expected GetFramebufferInfo to return non-nil info")
	}

	if exp, got := uint64(0xffff800000a00000), fbInfo.VirtAddr; got != exp {
		t.Errorf("expected framebuffer virtual address 0x%x; got 0x%x", exp, got)
	}

	if fbInfo.Width != 1024 || fbInfo.Height != 768 || fbInfo.Pitch != 4096 || fbInfo.Bpp != 32 {
		t.Errorf("expected geometry (1024, 768, 4096, 32); got (%d, %d, %d, %d)",
			fbInfo.Width, fbInfo.Height, fbInfo.Pitch, fbInfo.Bpp)
	}

	if fbInfo.RedPosition != 16 || fbInfo.GreenPosition != 8 || fbInfo.BluePosition != 0 {
		t.Errorf("expected channel positions (16, 8, 0); got (%d, %d, %d)",
			fbInfo.RedPosition, fbInfo.GreenPosition, fbInfo.BluePosition)
	}
}

func TestGetFramebufferInfoMissingTag(t *testing.T) {
	blob := newBootInfoBlob()
	SetInfoPtr(blob.infoPtr())

	if fbInfo := GetFramebufferInfo(); fbInfo != nil {
		t.Fatalf("expected GetFramebufferInfo to return nil for a headless boot; got %v", fbInfo)
	}
}

func TestGetCmdLine(t *testing.T) {
	specs := []struct {
		cmdLine string
		expKV   map[string]string
	}{
		{
			"consoleFont=8x16 debug",
			map[string]string{"consoleFont": "8x16", "debug": ""},
		},
		{
			"  consoleFont=8x16  ",
			map[string]string{"consoleFont": "8x16"},
		},
		{
			"",
			map[string]string{},
		},
	}

nextSpec:
	for specIndex, spec := range specs {
		blob := newBootInfoBlob()
		blob.addTag(tagCmdLine, append([]byte(spec.cmdLine), 0))
		SetInfoPtr(blob.infoPtr())

		got := GetCmdLine()
		if exp := len(spec.expKV); len(got) != exp {
			t.Errorf("[spec %d] expected cmdline map to contain %d entries; got %d", specIndex, exp, len(got))
			continue nextSpec
		}

		for k, v := range spec.expKV {
			gotV, exists := got[k]
			if !exists {
				t.Errorf("[spec %d] expected cmdline map to contain key %q", specIndex, k)
				continue nextSpec
			}

			if gotV != v {
				t.Errorf("[spec %d] expected cmdline[%q] = %q; got %q", specIndex, k, v, gotV)
			}
		}
	}
}

var pinnedBlobs [][]uint64

// bootInfoBlob assembles a boot info block in a uint64-backed buffer so that
// the blob start is 8-byte aligned the same way the real handoff block is.
type bootInfoBlob struct {
	buf bytes.Buffer
}

func newBootInfoBlob() *bootInfoBlob {
	blob := &bootInfoBlob{}

	// info header: totalSize (patched by infoPtr) + reserved dword.
	binary.Write(&blob.buf, binary.LittleEndian, uint32(0))
	binary.Write(&blob.buf, binary.LittleEndian, uint32(0))
	return blob
}

func (blob *bootInfoBlob) addTag(tagType tagType, payload []byte) {
	binary.Write(&blob.buf, binary.LittleEndian, uint32(tagType))
	binary.Write(&blob.buf, binary.LittleEndian, uint32(8+len(payload)))
	blob.buf.Write(payload)

	for blob.buf.Len()%8 != 0 {
		blob.buf.WriteByte(0)
	}
}

func (blob *bootInfoBlob) infoPtr() uintptr {
	binary.Write(&blob.buf, binary.LittleEndian, uint32(tagSectionEnd))
	binary.Write(&blob.buf, binary.LittleEndian, uint32(8))

	raw := blob.buf.Bytes()
	binary.LittleEndian.PutUint32(raw[0:4], uint32(len(raw)))

	// Copy into a uint64 slice to guarantee 8-byte alignment. The slice is
	// pinned in a package-level variable so the GC does not reclaim it
	// while the package under test holds a raw pointer into it.
	aligned := make([]uint64, (len(raw)+7)/8)
	copy((*(*[1 << 20]byte)(unsafe.Pointer(&aligned[0])))[:len(raw)], raw)
	pinnedBlobs = append(pinnedBlobs, aligned)

	return uintptr(unsafe.Pointer(&aligned[0]))
}

func fbTagPayload(virtAddr uint64, width, height, pitch uint32, bpp uint8) []byte {
	var buf bytes.Buffer

	binary.Write(&buf, binary.LittleEndian, virtAddr)
	binary.Write(&buf, binary.LittleEndian, pitch)
	binary.Write(&buf, binary.LittleEndian, width)
	binary.Write(&buf, binary.LittleEndian, height)
	buf.WriteByte(bpp)

	// Channel position/mask-size pairs: 8-bit channels packed as 0xRRGGBB.
	buf.Write([]byte{16, 8, 8, 8, 0, 8})
	return buf.Bytes()
}
