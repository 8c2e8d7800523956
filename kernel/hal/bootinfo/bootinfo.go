// Package bootinfo provides access to the information block that the boot
// stage hands over to the kernel. The block consists of a short header
// followed by a series of 8-byte aligned tags and is parsed in place; no
// memory is copied out of it.
package bootinfo

import "unsafe"

type tagType uint32

const (
	tagSectionEnd tagType = iota
	tagCmdLine
	tagLoaderName
	tagFramebufferInfo
)

// info describes the boot info section header.
type info struct {
	// Total size of the boot info section.
	totalSize uint32

	// Always set to zero; reserved for future use.
	reserved uint32
}

// tagHeader describes the header that precedes each tag.
type tagHeader struct {
	// The type of the tag.
	tagType tagType

	// The size of the tag including the header but *not* including any
	// padding. Each tag starts at a 8-byte aligned address.
	size uint32
}

// FramebufferInfo describes the linear framebuffer set up by the boot stage.
type FramebufferInfo struct {
	// The framebuffer virtual address. The boot stage maps the
	// framebuffer before handing over control so the kernel can write to
	// it directly.
	VirtAddr uint64

	// Row pitch in bytes.
	Pitch uint32

	// Width and height in pixels.
	Width, Height uint32

	// Bits per pixel.
	Bpp uint8

	// The position (shift amount) and width in bits of each color
	// component inside a packed pixel value.
	RedPosition   uint8
	RedMaskSize   uint8
	GreenPosition uint8
	GreenMaskSize uint8
	BluePosition  uint8
	BlueMaskSize  uint8
}

var (
	infoData uintptr

	cmdLineKV map[string]string
)

// SetInfoPtr updates the internal boot info pointer to the given value. This
// function must be invoked before invoking any other function exported by
// this package.
func SetInfoPtr(ptr uintptr) {
	infoData = ptr
	cmdLineKV = nil
}

// GetFramebufferInfo returns information about the framebuffer initialized by
// the boot stage. It returns nil if the boot stage did not hand over a
// framebuffer; the kernel must then run headless with all output routed to
// the serial port.
func GetFramebufferInfo() *FramebufferInfo {
	var info *FramebufferInfo

	curPtr, size := findTagByType(tagFramebufferInfo)
	if size != 0 {
		info = (*FramebufferInfo)(unsafe.Pointer(curPtr))
	}

	return info
}

// GetCmdLine parses the kernel command line into a key/value map. Arguments
// are space-separated "key" or "key=value" tokens. The parsed map is memoized
// until the next call to SetInfoPtr.
func GetCmdLine() map[string]string {
	if cmdLineKV != nil {
		return cmdLineKV
	}

	cmdLineKV = make(map[string]string)

	curPtr, size := findTagByType(tagCmdLine)
	if size == 0 {
		return cmdLineKV
	}

	// The tag payload is a NULL-terminated string; size includes the
	// terminator.
	var tokenStart, eqOffset = -1, -1
	for i := uint32(0); i < size; i++ {
		ch := *(*byte)(unsafe.Pointer(curPtr + uintptr(i)))

		switch {
		case ch == '=' && tokenStart != -1 && eqOffset == -1:
			eqOffset = int(i)
		case ch == ' ' || ch == 0:
			if tokenStart != -1 {
				storeCmdLineToken(curPtr, tokenStart, eqOffset, int(i))
				tokenStart, eqOffset = -1, -1
			}

			if ch == 0 {
				return cmdLineKV
			}
		case tokenStart == -1:
			tokenStart = int(i)
		}
	}

	return cmdLineKV
}

// storeCmdLineToken records the [start, end) command line token, splitting it
// at eqOffset into a key/value pair when an '=' was seen.
func storeCmdLineToken(base uintptr, start, eqOffset, end int) {
	if eqOffset == -1 {
		cmdLineKV[cmdLineString(base, start, end)] = ""
		return
	}

	cmdLineKV[cmdLineString(base, start, eqOffset)] = cmdLineString(base, eqOffset+1, end)
}

// cmdLineString copies the [start, end) byte range of the command line tag
// into a string.
func cmdLineString(base uintptr, start, end int) string {
	buf := make([]byte, end-start)
	for i := range buf {
		buf[i] = *(*byte)(unsafe.Pointer(base + uintptr(start+i)))
	}

	return string(buf)
}

// findTagByType scans the boot info data looking for the start of the
// specified tag. It returns a pointer to the tag contents start offset and
// the content length excluding the tag header.
//
// If the tag is not present in the boot info, findTagByType returns (0,0).
func findTagByType(tagType tagType) (uintptr, uint32) {
	if infoData == 0 {
		return 0, 0
	}

	var ptrTagHeader *tagHeader

	curPtr := infoData + unsafe.Sizeof(info{})
	for ptrTagHeader = (*tagHeader)(unsafe.Pointer(curPtr)); ptrTagHeader.tagType != tagSectionEnd; ptrTagHeader = (*tagHeader)(unsafe.Pointer(curPtr)) {
		if ptrTagHeader.tagType == tagType {
			return curPtr + 8, ptrTagHeader.size - 8
		}

		// Tags are aligned at 8-byte aligned addresses.
		curPtr += uintptr(int32(ptrTagHeader.size+7) & ^7)
	}

	return 0, 0
}
