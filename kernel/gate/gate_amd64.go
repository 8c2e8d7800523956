package gate

import (
	"encoding/binary"
	"io"
	"unsafe"

	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
	"github.com/shadowm-mounarch/shadowos/kernel/gdt"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
)

// Registers contains a snapshot of all register values when an exception,
// interrupt or syscall occurs. The field order mirrors the stack layout
// built by the interrupt entry code.
type Registers struct {
	RAX uint64
	RBX uint64
	RCX uint64
	RDX uint64
	RSI uint64
	RDI uint64
	RBP uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64
	R12 uint64
	R13 uint64
	R14 uint64
	R15 uint64

	// Vector identifies the gate that fired.
	Vector uint64

	// Code contains the error code for exceptions that push one; it is 0
	// for all other vectors.
	Code uint64

	// The return frame used by IRETQ
	RIP    uint64
	CS     uint64
	RFlags uint64
	RSP    uint64
	SS     uint64
}

// DumpTo outputs the register contents to w.
func (r *Registers) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "RAX = %16x RBX = %16x\n", r.RAX, r.RBX)
	kfmt.Fprintf(w, "RCX = %16x RDX = %16x\n", r.RCX, r.RDX)
	kfmt.Fprintf(w, "RSI = %16x RDI = %16x\n", r.RSI, r.RDI)
	kfmt.Fprintf(w, "RBP = %16x\n", r.RBP)
	kfmt.Fprintf(w, "R8  = %16x R9  = %16x\n", r.R8, r.R9)
	kfmt.Fprintf(w, "R10 = %16x R11 = %16x\n", r.R10, r.R11)
	kfmt.Fprintf(w, "R12 = %16x R13 = %16x\n", r.R12, r.R13)
	kfmt.Fprintf(w, "R14 = %16x R15 = %16x\n", r.R14, r.R15)
	kfmt.Fprintf(w, "\n")
	kfmt.Fprintf(w, "RIP = %16x CS  = %16x\n", r.RIP, r.CS)
	kfmt.Fprintf(w, "RSP = %16x SS  = %16x\n", r.RSP, r.SS)
	kfmt.Fprintf(w, "RFL = %16x\n", r.RFlags)
}

// InterruptNumber describes an x86 interrupt/exception/trap slot.
type InterruptNumber uint8

const (
	// DivideByZero occurs when dividing any number by 0 using the DIV or
	// IDIV instruction.
	DivideByZero = InterruptNumber(0)

	// NMI (non-maskable-interrupt) is a hardware interrupt that indicates
	// issues with RAM or unrecoverable hardware problems. It may also be
	// raised by the CPU when a watchdog timer is enabled.
	NMI = InterruptNumber(2)

	// Breakpoint occurs when the CPU executes an INT3 instruction. It is
	// the only exception the kernel treats as recoverable.
	Breakpoint = InterruptNumber(3)

	// Overflow occurs when an overflow occurs (e.g result of division
	// cannot fit into the registers used).
	Overflow = InterruptNumber(4)

	// BoundRangeExceeded occurs when the BOUND instruction is invoked with
	// an index out of range.
	BoundRangeExceeded = InterruptNumber(5)

	// InvalidOpcode occurs when the CPU attempts to execute an invalid or
	// undefined instruction opcode.
	InvalidOpcode = InterruptNumber(6)

	// DeviceNotAvailable occurs when the CPU attempts to execute an
	// FPU/MMX/SSE instruction while no FPU is available or while
	// FPU/MMX/SSE support has been disabled by manipulating the CR0
	// register.
	DeviceNotAvailable = InterruptNumber(7)

	// DoubleFault occurs when an unhandled exception occurs or when an
	// exception occurs within a running exception handler.
	DoubleFault = InterruptNumber(8)

	// InvalidTSS occurs when the TSS points to an invalid task segment
	// selector.
	InvalidTSS = InterruptNumber(10)

	// SegmentNotPresent occurs when the CPU attempts to invoke a present
	// gate with an invalid stack segment selector.
	SegmentNotPresent = InterruptNumber(11)

	// StackSegmentFault occurs when attempting to push/pop from a
	// non-canonical stack address or when the stack base/limit (set in
	// GDT) checks fail.
	StackSegmentFault = InterruptNumber(12)

	// GPFException occurs when a general protection fault occurs.
	GPFException = InterruptNumber(13)

	// PageFaultException occurs when a page directory table (PDT) or one
	// of its entries is not present or when a privilege and/or RW
	// protection check fails.
	PageFaultException = InterruptNumber(14)

	// FloatingPointException occurs while invoking an FP instruction while:
	//  - CR0.NE = 1 OR
	//  - an unmasked FP exception is pending
	FloatingPointException = InterruptNumber(16)

	// AlignmentCheck occurs when alignment checks are enabled and an
	// unaligmed memory access is performed.
	AlignmentCheck = InterruptNumber(17)

	// MachineCheck occurs when the CPU detects internal errors such as
	// memory-, bus- or cache-related errors.
	MachineCheck = InterruptNumber(18)

	// SIMDFloatingPointException occurs when an unmasked SSE exception
	// occurs while CR4.OSXMMEXCPT is set to 1. If the OSXMMEXCPT bit is
	// not set, SIMD FP exceptions cause InvalidOpcode exceptions instead.
	SIMDFloatingPointException = InterruptNumber(19)
)

// numVectors is the number of slots in the interrupt descriptor table.
const numVectors = 256

// Gate type and flag bits in the second dword of an IDT descriptor.
const (
	gateTypeInterrupt = 14 << 8
	gateTypeTrap      = 15 << 8
	gatePresent       = 1 << 15
)

// Outcome is the tagged result an interrupt handler reports back to the
// dispatcher. The zero value resumes the interrupted context.
type Outcome struct {
	fatal  bool
	reason *kernel.Error
}

// Recovered signals that the interrupted context may resume.
func Recovered() Outcome {
	return Outcome{}
}

// Fatal signals that the interrupted context must not resume; the dispatcher
// reports reason together with the saved context and halts the CPU.
func Fatal(reason *kernel.Error) Outcome {
	return Outcome{fatal: true, reason: reason}
}

// HandlerFn processes a single interrupt and reports whether the interrupted
// context may resume.
type HandlerFn func(*Registers) Outcome

var (
	loadIDTFn           = cpu.LoadIDT
	disableInterruptsFn = cpu.DisableInterrupts
	readCR2Fn           = cpu.ReadCR2
	kernelPanicFn       = kfmt.Panic

	errAlreadyInitialized  = &kernel.Error{Module: "gate", Message: "interrupt dispatch table is already initialized"}
	errUnexpectedInterrupt = &kernel.Error{Module: "gate", Message: "unexpected interrupt"}
	errDivideByZero        = &kernel.Error{Module: "gate", Message: "divide error"}
	errDoubleFault         = &kernel.Error{Module: "gate", Message: "double fault"}
	errGPF                 = &kernel.Error{Module: "gate", Message: "general protection fault"}
	errPageFault           = &kernel.Error{Module: "gate", Message: "page fault"}

	idt [numVectors]idtGate

	// idtDescriptor is the 10-byte pseudo-descriptor (16-bit limit plus
	// 64-bit base) loaded into the IDTR.
	idtDescriptor [10]byte

	handlers [numVectors]HandlerFn

	initialized bool
)

// idtGate describes a single 16-byte IDT descriptor.
type idtGate struct {
	bits [4]uint32
}

// setInterrupt points the gate at an interrupt service entry running on the
// supplied code selector. Interrupt gates clear IF on entry so handlers
// always run with interrupts masked. An ist value of 1-7 selects a TSS
// interrupt stack; 0 keeps the interrupted context's stack.
func (g *idtGate) setInterrupt(selector uint16, entry uint64, dpl uint8, ist uint8) {
	g.bits[0] = uint32(selector)<<16 | uint32(entry)&0xffff
	g.bits[1] = uint32(entry)&0xffff0000 | gatePresent | gateTypeInterrupt | uint32(dpl&0x3)<<13 | uint32(ist&0x7)
	g.bits[2] = uint32(entry >> 32)
	g.bits[3] = 0
}

func (g *idtGate) entry() uint64 {
	return uint64(g.bits[0]&0xffff) | uint64(g.bits[1]&0xffff0000) | uint64(g.bits[2])<<32
}

func (g *idtGate) selector() uint16 {
	return uint16(g.bits[0] >> 16)
}

func (g *idtGate) ist() uint8 {
	return uint8(g.bits[1] & 0x7)
}

func (g *idtGate) present() bool {
	return g.bits[1]&gatePresent != 0
}

// funcPC returns the entry address of fn.
func funcPC(fn func()) uint64 {
	return uint64(**(**uintptr)(unsafe.Pointer(&fn)))
}

// Init packs an interrupt gate for every vector and loads the IDT. Vectors
// without a registered handler stay routed to the fatal path until a handler
// is registered for them; handlers may be registered both before and after
// Init. A second call returns an error and leaves the loaded table
// untouched.
func Init() *kernel.Error {
	if initialized {
		return errAlreadyInitialized
	}
	initialized = true

	for i := 0; i < numVectors; i++ {
		if handlers[i] != nil {
			// Registered before Init; the gate already carries the
			// handler's IST selection.
			continue
		}
		idt[i].setInterrupt(gdt.SelectorKernelCode, funcPC(vectorEntries[i]), 0, 0)
	}

	binary.LittleEndian.PutUint16(idtDescriptor[0:2], uint16(numVectors*16-1))
	binary.LittleEndian.PutUint64(idtDescriptor[2:10], uint64(uintptr(unsafe.Pointer(&idt[0]))))

	loadIDTFn(uintptr(unsafe.Pointer(&idtDescriptor[0])))

	return nil
}

// HandleInterrupt ensures that the provided handler will be invoked when a
// particular interrupt number occurs. The value of the istIndex argument
// selects the TSS interrupt stack for the gate (if 0 then the interrupted
// context's stack is kept).
func HandleInterrupt(intNumber InterruptNumber, istIndex uint8, handler HandlerFn) {
	handlers[intNumber] = handler
	idt[intNumber].setInterrupt(gdt.SelectorKernelCode, funcPC(vectorEntries[intNumber]), 0, istIndex)
}

// InstallExceptionHandlers registers the kernel policy for the CPU
// exceptions: divide error, general protection faults and page faults dump
// state and halt, breakpoints log and resume, and double faults run on their
// dedicated stack and always halt.
func InstallExceptionHandlers() {
	HandleInterrupt(DivideByZero, 0, divideErrorHandler)
	HandleInterrupt(Breakpoint, 0, breakpointHandler)
	HandleInterrupt(DoubleFault, gdt.DoubleFaultISTIndex, doubleFaultHandler)
	HandleInterrupt(GPFException, 0, gpfHandler)
	HandleInterrupt(PageFaultException, 0, pageFaultHandler)
}

func divideErrorHandler(_ *Registers) Outcome {
	return Fatal(errDivideByZero)
}

func breakpointHandler(regs *Registers) Outcome {
	kfmt.Printf("[gate] breakpoint at 0x%x\n", regs.RIP)
	return Recovered()
}

func doubleFaultHandler(_ *Registers) Outcome {
	return Fatal(errDoubleFault)
}

func gpfHandler(_ *Registers) Outcome {
	return Fatal(errGPF)
}

func pageFaultHandler(_ *Registers) Outcome {
	kfmt.Printf("[gate] page fault accessing 0x%x\n", readCR2Fn())
	return Fatal(errPageFault)
}

// dispatchInterrupt is invoked by the interrupt gate entry code to route an
// incoming interrupt to its registered handler. Unpopulated vectors and
// handlers reporting a fatal outcome never resume the interrupted context.
func dispatchInterrupt(regs *Registers) {
	handler := handlers[regs.Vector&0xff]
	if handler == nil {
		fatalInterrupt(regs, errUnexpectedInterrupt)
		return
	}

	if outcome := handler(regs); outcome.fatal {
		fatalInterrupt(regs, outcome.reason)
	}
}

// fatalInterrupt reports the faulting vector and the saved context to the
// active output sink and halts the CPU. It never returns.
func fatalInterrupt(regs *Registers, reason *kernel.Error) {
	disableInterruptsFn()

	if reason == nil {
		reason = errUnexpectedInterrupt
	}

	kfmt.Printf("\n[gate] vector=%d code=0x%x\n", regs.Vector, regs.Code)
	regs.DumpTo(kfmt.GetOutputSink())
	kernelPanicFn(reason)
}
