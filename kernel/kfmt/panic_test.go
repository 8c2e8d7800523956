package kfmt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
)

func TestPanic(t *testing.T) {
	defer func() {
		cpuHaltFn = cpu.Halt
		disableInterruptsFn = cpu.DisableInterrupts
		SetOutputSink(nil)
	}()

	var (
		buf                bytes.Buffer
		cpuHaltCalled      bool
		interruptsDisabled bool
	)

	cpuHaltFn = func() {
		cpuHaltCalled = true
	}
	disableInterruptsFn = func() {
		if buf.Len() != 0 {
			t.Error("expected interrupts to be masked before any panic output is written")
		}
		interruptsDisabled = true
	}

	reset := func() {
		// Draining any output buffered by earlier tests keeps the
		// assertions below exact.
		SetOutputSink(&buf)
		buf.Reset()
		cpuHaltCalled = false
		interruptsDisabled = false
	}

	t.Run("with *kernel.Error", func(t *testing.T) {
		reset()
		err := &kernel.Error{Module: "test", Message: "panic test"}

		Panic(err)

		exp := "\n-----------------------------------\n[test] unrecoverable error: panic test\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !interruptsDisabled {
			t.Fatal("expected cpu.DisableInterrupts() to be called by Panic")
		}

		if !cpuHaltCalled {
			t.Fatal("expected cpu.Halt() to be called by Panic")
		}
	})

	t.Run("with error", func(t *testing.T) {
		reset()
		err := errors.New("go error")

		Panic(err)

		exp := "\n-----------------------------------\n[rt] unrecoverable error: go error\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !cpuHaltCalled {
			t.Fatal("expected cpu.Halt() to be called by Panic")
		}
	})

	t.Run("with string", func(t *testing.T) {
		reset()

		Panic("string error")

		exp := "\n-----------------------------------\n[rt] unrecoverable error: string error\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !cpuHaltCalled {
			t.Fatal("expected cpu.Halt() to be called by Panic")
		}
	})

	t.Run("without error", func(t *testing.T) {
		reset()

		Panic(nil)

		exp := "\n-----------------------------------\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !cpuHaltCalled {
			t.Fatal("expected cpu.Halt() to be called by Panic")
		}
	})
}
