// Package keyboard drives a PS/2 keyboard in scancode set 1. The interrupt
// service routine decodes incoming scancodes into ASCII and stores them in a
// fixed-capacity ring buffer that normal-context code drains via Pop.
package keyboard

import (
	"io"

	"github.com/shadowm-mounarch/shadowos/device"
	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
	"github.com/shadowm-mounarch/shadowos/kernel/sync"
)

const (
	dataPort   = 0x60
	statusPort = 0x64

	// Status register bit indicating that the controller output buffer
	// holds a byte.
	statusOutputFull = 1 << 0

	// Scancodes for the left and right shift keys. These only toggle the
	// shift state and never emit a character.
	scancodeLeftShift  = 0x2a
	scancodeRightShift = 0x36

	// The high bit of a scancode marks a key release.
	releaseBit = 0x80

	// bufferSize is the fixed ring buffer capacity. Characters arriving
	// while the buffer is full are dropped; the oldest data is retained.
	bufferSize = 256
)

// scancodeToASCII maps scancode set 1 position codes to ASCII with the shift
// key up. Zero entries have no mapping and emit nothing.
var scancodeToASCII = [128]byte{
	0, 27, '1', '2', '3', '4', '5', '6',
	'7', '8', '9', '0', '-', '=', 8, '\t',
	'q', 'w', 'e', 'r', 't', 'y', 'u', 'i',
	'o', 'p', '[', ']', '\n', 0, 'a', 's',
	'd', 'f', 'g', 'h', 'j', 'k', 'l', ';',
	'\'', '`', 0, '\\', 'z', 'x', 'c', 'v',
	'b', 'n', 'm', ',', '.', '/', 0, '*',
	0, ' ',
}

// scancodeToASCIIShifted maps scancode set 1 position codes to ASCII with the
// shift key held.
var scancodeToASCIIShifted = [128]byte{
	0, 27, '!', '@', '#', '$', '%', '^',
	'&', '*', '(', ')', '_', '+', 8, '\t',
	'Q', 'W', 'E', 'R', 'T', 'Y', 'U', 'I',
	'O', 'P', '{', '}', '\n', 0, 'A', 'S',
	'D', 'F', 'G', 'H', 'J', 'K', 'L', ':',
	'"', '~', 0, '|', 'Z', 'X', 'C', 'V',
	'B', 'N', 'M', '<', '>', '?', 0, '*',
	0, ' ',
}

// keyBuffer is a fixed-capacity FIFO of decoded characters. The producer
// side runs in interrupt context and the consumer side in normal context so
// every access must happen under bufMutex.
type keyBuffer struct {
	buf      [bufferSize]byte
	readPos  int
	writePos int
	count    int
}

// push appends a character to the buffer. Pushing into a full buffer is a
// no-op: the oldest buffered input is retained and the new character is
// dropped as there is no way to apply back-pressure to the hardware.
func (b *keyBuffer) push(ch byte) {
	if b.count == bufferSize {
		return
	}

	b.buf[b.writePos] = ch
	b.writePos = (b.writePos + 1) % bufferSize
	b.count++
}

// pop removes and returns the oldest buffered character. The second return
// value is false if the buffer is empty.
func (b *keyBuffer) pop() (byte, bool) {
	if b.count == 0 {
		return 0, false
	}

	ch := b.buf[b.readPos]
	b.readPos = (b.readPos + 1) % bufferSize
	b.count--
	return ch, true
}

var (
	portReadByteFn = cpu.PortReadByte

	// bufMutex guards buffer together with shiftHeld. Normal-context
	// consumers must hold it with interrupts masked or the keyboard ISR
	// can spin forever on a lock its own interrupted context owns. The
	// acquire/release pair is swappable so tests can run it without
	// masking host interrupts.
	bufMutex       sync.IRQSpinlock
	acquireMutexFn = acquireBufMutex
	releaseMutexFn = releaseBufMutex

	buffer    keyBuffer
	shiftHeld bool
)

func acquireBufMutex() { bufMutex.AcquireIRQ() }
func releaseBufMutex() { bufMutex.ReleaseIRQ() }

// ServiceInterrupt reads the pending scancode off the keyboard controller
// and decodes it. It is invoked by the keyboard IRQ handler; the caller is
// responsible for acknowledging the interrupt afterwards.
func ServiceInterrupt() {
	HandleScancode(portReadByteFn(dataPort))
}

// HandleScancode decodes a single raw scancode. Shift keys update the shift
// state and emit nothing; key releases emit nothing; any other key press is
// translated through the shift-selected ASCII table and buffered unless the
// table has no mapping for it.
func HandleScancode(scancode uint8) {
	isRelease := scancode&releaseBit != 0
	key := scancode &^ releaseBit

	acquireMutexFn()
	defer releaseMutexFn()

	if key == scancodeLeftShift || key == scancodeRightShift {
		shiftHeld = !isRelease
		return
	}

	if isRelease {
		return
	}

	var ascii byte
	if shiftHeld {
		ascii = scancodeToASCIIShifted[key]
	} else {
		ascii = scancodeToASCII[key]
	}

	if ascii != 0 {
		buffer.push(ascii)
	}
}

// Pop removes and returns the oldest decoded character. The second return
// value is false if no input is buffered. Pop never blocks and is safe to
// call from a normal-context poll loop.
func Pop() (byte, bool) {
	acquireMutexFn()
	defer releaseMutexFn()

	return buffer.pop()
}

// Device implements the PS/2 keyboard driver.
type Device struct{}

// DriverName returns the name of this driver.
func (d *Device) DriverName() string {
	return "ps2_keyboard"
}

// DriverVersion returns the version of this driver.
func (d *Device) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver. Any scancodes that accumulated in the
// controller output buffer before the IRQ line was unmasked are drained so
// they cannot wedge further interrupt delivery.
func (d *Device) DriverInit(w io.Writer) *kernel.Error {
	var drained int
	for drained = 0; drained < 16 && portReadByteFn(statusPort)&statusOutputFull != 0; drained++ {
		portReadByteFn(dataPort)
	}

	kfmt.Fprintf(w, "drained %d stale scancodes\n", drained)
	return nil
}

func probeForKeyboard() device.Driver {
	return &Device{}
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderNormal,
		Probe: probeForKeyboard,
	})
}
