// Package gdt sets up the 64-bit descriptor tables: a flat kernel code and
// data segment pair plus a TSS whose interrupt stack table provides the
// dedicated stack used when handling double faults.
package gdt

import (
	"encoding/binary"
	"unsafe"

	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
)

// Selectors for the segments defined in the GDT. The TSS descriptor spans
// two table slots.
const (
	SelectorKernelCode uint16 = 0x08
	SelectorKernelData uint16 = 0x10
	SelectorTSS        uint16 = 0x18
)

// DoubleFaultISTIndex is the TSS interrupt stack table slot that provides a
// known-good stack to the double fault handler. IST slots are 1-based;
// setting a gate's IST index to 0 keeps the interrupted context's stack.
const DoubleFaultISTIndex = 1

// doubleFaultStackSize is the size of the statically allocated stack that
// backs the double fault IST slot.
const doubleFaultStackSize = 8192

// Flag bits in the high dword of a segment descriptor.
const (
	descAccessed    = 1 << 8
	descWritable    = 1 << 9
	descExecute     = 1 << 11
	descCodeData    = 1 << 12
	descPresent     = 1 << 15
	descLong        = 1 << 21
	descDB          = 1 << 22
	descGranularity = 1 << 23

	// Type field value for an available 64-bit TSS (system descriptor so
	// descCodeData stays clear).
	descTypeTSSAvailable = 0x9 << 8
)

var (
	loadGDTFn          = cpu.LoadGDT
	loadTaskRegisterFn = cpu.LoadTaskRegister
	reloadSegmentsFn   = cpu.ReloadSegments

	errAlreadyInitialized = &kernel.Error{Module: "gdt", Message: "descriptor tables are already initialized"}

	// The GDT layout is: null, kernel code, kernel data, TSS (2 slots).
	gdt [5]segmentDescriptor

	// gdtDescriptor is the 10-byte pseudo-descriptor (16-bit limit plus
	// 64-bit base) loaded into the GDTR.
	gdtDescriptor [10]byte

	tss taskState

	doubleFaultStack [doubleFaultStackSize]byte

	initialized bool
)

// segmentDescriptor describes a single 8-byte GDT slot.
type segmentDescriptor uint64

// packSegmentDescriptor assembles a descriptor out of a 32-bit base, a 20-bit
// limit, the flag bits for the high dword and a privilege level.
func packSegmentDescriptor(base, limit uint32, flags uint32, dpl uint8) segmentDescriptor {
	lo := uint64(base&0xffff)<<16 | uint64(limit&0xffff)
	hi := uint64(base&0xff000000) |
		uint64(base>>16&0xff) |
		uint64(limit&0xf0000) |
		uint64(flags) |
		uint64(dpl&0x3)<<13

	return segmentDescriptor(hi<<32 | lo)
}

// packTSSDescriptor assembles the two GDT slots describing a 64-bit TSS. The
// first slot follows the segment descriptor layout with a system type; the
// second slot carries bits 32-63 of the base address.
func packTSSDescriptor(base uint64, limit uint32) (lo, hi segmentDescriptor) {
	base32 := uint32(base)
	lo = segmentDescriptor(
		(uint64(base32&0xff000000)|
			uint64(base32>>16&0xff)|
			uint64(limit&0xf0000)|
			descTypeTSSAvailable|
			descPresent)<<32 |
			uint64(base32&0xffff)<<16 |
			uint64(limit&0xffff),
	)
	hi = segmentDescriptor(base >> 32)
	return lo, hi
}

func (d segmentDescriptor) base() uint32 {
	return uint32(d>>16&0xffff) | uint32(d>>32&0xff)<<16 | uint32(d>>32)&0xff000000
}

func (d segmentDescriptor) limit() uint32 {
	return uint32(d&0xffff) | uint32(d>>32)&0xf0000
}

// flags returns the high dword flag bits with the base, limit and DPL fields
// masked out.
func (d segmentDescriptor) flags() uint32 {
	return uint32(d>>32) & 0xf09f00
}

func (d segmentDescriptor) dpl() uint8 {
	return uint8(d >> 45 & 0x3)
}

// taskState is the 104-byte 64-bit task state segment. The 64-bit stack
// pointers straddle pairs of dwords.
type taskState [26]uint32

// setIST points the 1-based IST slot at the supplied stack top.
func (t *taskState) setIST(index int, addr uint64) {
	t[7+index*2] = uint32(addr)
	t[8+index*2] = uint32(addr >> 32)
}

// setRSP points the stack for the given privilege level at the supplied
// stack top.
func (t *taskState) setRSP(level int, addr uint64) {
	t[1+level*2] = uint32(addr)
	t[2+level*2] = uint32(addr >> 32)
}

// setIOBitmapOffset records the offset from the TSS base to the I/O
// permission bitmap. Pointing it past the segment limit disables the bitmap.
func (t *taskState) setIOBitmapOffset(offset uint16) {
	t[25] = uint32(offset) << 16
}

// Init builds the descriptor tables, loads the GDTR, reloads the segment
// registers and loads the task register. It must be called exactly once,
// before the interrupt dispatch table is installed; a second call returns an
// error and leaves the loaded tables untouched.
func Init() *kernel.Error {
	if initialized {
		return errAlreadyInitialized
	}
	initialized = true

	gdt[SelectorKernelCode>>3] = packSegmentDescriptor(0, 0xfffff,
		descAccessed|descWritable|descExecute|descCodeData|descPresent|descLong|descGranularity, 0)
	gdt[SelectorKernelData>>3] = packSegmentDescriptor(0, 0xfffff,
		descAccessed|descWritable|descCodeData|descPresent|descDB|descGranularity, 0)

	// The double fault stack grows down from its top; keep the top 16-byte
	// aligned as the interrupt entry path expects.
	stackTop := (uint64(uintptr(unsafe.Pointer(&doubleFaultStack[0]))) + doubleFaultStackSize) &^ 0xf
	tss.setIST(DoubleFaultISTIndex, stackTop)
	tss.setIOBitmapOffset(uint16(unsafe.Sizeof(tss)))

	tssBase := uint64(uintptr(unsafe.Pointer(&tss)))
	gdt[SelectorTSS>>3], gdt[SelectorTSS>>3+1] = packTSSDescriptor(tssBase, uint32(unsafe.Sizeof(tss))-1)

	binary.LittleEndian.PutUint16(gdtDescriptor[0:2], uint16(len(gdt)*8-1))
	binary.LittleEndian.PutUint64(gdtDescriptor[2:10], uint64(uintptr(unsafe.Pointer(&gdt[0]))))

	loadGDTFn(uintptr(unsafe.Pointer(&gdtDescriptor[0])))
	reloadSegmentsFn(SelectorKernelCode, SelectorKernelData)
	loadTaskRegisterFn(SelectorTSS)

	return nil
}
