package sync

import "github.com/shadowm-mounarch/shadowos/kernel/cpu"

var (
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts
	interruptsEnabledFn = cpu.InterruptsEnabled
)

// IRQSpinlock couples a Spinlock with interrupt masking. Code running outside
// interrupt context that shares state with an interrupt handler must hold the
// lock with interrupts masked; otherwise the handler can fire while the lock
// is held and spin forever on a lock its own interrupted context owns.
type IRQSpinlock struct {
	lock       Spinlock
	wasEnabled bool
}

// AcquireIRQ masks interrupts, records whether they were previously enabled
// and acquires the lock.
func (l *IRQSpinlock) AcquireIRQ() {
	enabled := interruptsEnabledFn()
	disableInterruptsFn()
	l.lock.Acquire()
	l.wasEnabled = enabled
}

// ReleaseIRQ releases the lock and restores the interrupt state captured by
// the matching AcquireIRQ call.
func (l *IRQSpinlock) ReleaseIRQ() {
	enabled := l.wasEnabled
	l.lock.Release()
	if enabled {
		enableInterruptsFn()
	}
}

// WithoutInterrupts invokes fn with interrupts masked and restores the
// previous interrupt state before returning. Interrupt handlers may call it
// too; for them the mask is already in effect and nothing is restored.
func WithoutInterrupts(fn func()) {
	enabled := interruptsEnabledFn()
	disableInterruptsFn()
	fn()
	if enabled {
		enableInterruptsFn()
	}
}
