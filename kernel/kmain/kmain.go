package kmain

import (
	"github.com/shadowm-mounarch/shadowos/device/input/keyboard"
	"github.com/shadowm-mounarch/shadowos/device/intc/pic8259"
	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
	"github.com/shadowm-mounarch/shadowos/kernel/gate"
	"github.com/shadowm-mounarch/shadowos/kernel/gdt"
	"github.com/shadowm-mounarch/shadowos/kernel/hal"
	"github.com/shadowm-mounarch/shadowos/kernel/hal/bootinfo"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
	"github.com/shadowm-mounarch/shadowos/shell"
)

var errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. This function is invoked by the rt0 assembly code
// after setting up a minimal g0 struct that allows running Go code on the
// stack allocated by the assembly code.
//
// The rt0 code passes the address of the boot info payload provided by the
// bootloader.
//
// Kmain brings up the privilege and interrupt environment before any device
// probing happens: descriptor tables first, then the dispatch table, then
// the hardware drivers (the interrupt controller driver leaves every IRQ
// line masked). Only the timer and keyboard lines are unmasked before
// interrupt delivery is switched on.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the
// CPU.
//
//go:noinline
func Kmain(bootInfoPtr uintptr) {
	bootinfo.SetInfoPtr(bootInfoPtr)

	var err *kernel.Error
	if err = gdt.Init(); err != nil {
		kfmt.Panic(err)
	} else if err = gate.Init(); err != nil {
		kfmt.Panic(err)
	}
	gate.InstallExceptionHandlers()

	hal.DetectHardware()

	gate.HandleInterrupt(gate.InterruptNumber(pic8259.MasterVectorOffset+pic8259.TimerIRQ), 0, timerISR)
	gate.HandleInterrupt(gate.InterruptNumber(pic8259.MasterVectorOffset+pic8259.KeyboardIRQ), 0, keyboardISR)

	pic8259.SetIRQMask(pic8259.TimerIRQ, false)
	pic8259.SetIRQMask(pic8259.KeyboardIRQ, false)

	cpu.EnableInterrupts()

	kfmt.Printf("\nshadowos ready; type \"help\" for a command list\n\n")
	shell.Run()

	// Use kfmt.Panic instead of panic to prevent the compiler from
	// treating kfmt.Panic as dead-code and eliminating it.
	kfmt.Panic(errKmainReturned)
}

// timerISR acknowledges timer ticks. The tick itself is not consumed by
// anything yet; its job is to wake the shell loop out of hlt so it can poll
// the keyboard buffer.
func timerISR(regs *gate.Registers) gate.Outcome {
	pic8259.EOI(uint8(regs.Vector))
	return gate.Recovered()
}

// keyboardISR drains the keyboard controller and buffers the decoded
// characters for the shell.
func keyboardISR(regs *gate.Registers) gate.Outcome {
	keyboard.ServiceInterrupt()
	pic8259.EOI(uint8(regs.Vector))
	return gate.Recovered()
}
