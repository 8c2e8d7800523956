package kfmt

import (
	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
)

var (
	// cpuHaltFn is mocked by tests and is automatically inlined by the compiler.
	cpuHaltFn = cpu.Halt

	// disableInterruptsFn is mocked by tests.
	disableInterruptsFn = cpu.DisableInterrupts

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic masks interrupts, outputs the supplied error (if not nil) to the
// active output sink and halts the CPU. Interrupts are masked before
// reporting so that a fault inside an interrupt handler cannot re-enter the
// panic path while it is printing. Calls to Panic never return. Panic also
// works as a redirection target for calls to panic() (resolved via
// runtime.gopanic)
//
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	disableInterruptsFn()

	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	Printf("\n-----------------------------------\n")
	if err != nil {
		Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printf("*** kernel panic: system halted ***")
	Printf("\n-----------------------------------\n")

	cpuHaltFn()
}

// panicString serves as a redirect target for runtime.throw
//
//go:redirect-from runtime.throw
func panicString(msg string) {
	Panic(msg)
}
