// Package uart drives a 16550-compatible UART. The first serial port is the
// earliest output device the kernel brings up and carries the boot log (and
// any panic reports) even when no framebuffer is available.
package uart

import (
	"io"

	"github.com/shadowm-mounarch/shadowos/device"
	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
)

// COM1 is the base I/O port of the first serial port.
const COM1 = 0x3f8

// Register offsets from the UART base port.
const (
	regData       = 0 // THR/RBR (DLL when DLAB is set)
	regIntEnable  = 1 // IER (DLM when DLAB is set)
	regFifoCtrl   = 2
	regLineCtrl   = 3
	regModemCtrl  = 4
	regLineStatus = 5
)

// Line status register bit indicating that the transmit holding register is
// empty and can accept the next byte.
const lineStatusTxEmpty = 1 << 5

var (
	portReadByteFn  = cpu.PortReadByte
	portWriteByteFn = cpu.PortWriteByte
)

// Device implements the driver for a 16550 UART.
type Device struct {
	basePort uint16
}

// NewDevice returns a UART device at the supplied base port.
func NewDevice(basePort uint16) *Device {
	return &Device{basePort: basePort}
}

// WriteByte implements io.ByteWriter. It busy-waits until the transmitter
// can accept a byte and expands '\n' to CRLF so the stream displays
// correctly on a raw terminal.
func (d *Device) WriteByte(b byte) error {
	if b == '\n' {
		d.putByte('\r')
	}
	d.putByte(b)
	return nil
}

// Write implements io.Writer.
func (d *Device) Write(p []byte) (int, error) {
	for _, b := range p {
		d.WriteByte(b)
	}
	return len(p), nil
}

func (d *Device) putByte(b byte) {
	for portReadByteFn(d.basePort+regLineStatus)&lineStatusTxEmpty == 0 {
	}
	portWriteByteFn(d.basePort+regData, b)
}

// DriverName returns the name of this driver.
func (d *Device) DriverName() string {
	return "uart16550"
}

// DriverVersion returns the version of this driver.
func (d *Device) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver: interrupts off, 115200 baud (divisor
// 1), 8 data bits, no parity, one stop bit, FIFOs enabled and cleared with a
// 14-byte threshold, then DTR/RTS asserted.
func (d *Device) DriverInit(w io.Writer) *kernel.Error {
	portWriteByteFn(d.basePort+regIntEnable, 0x00)
	portWriteByteFn(d.basePort+regLineCtrl, 0x80)  // DLAB on
	portWriteByteFn(d.basePort+regData, 0x01)      // divisor low
	portWriteByteFn(d.basePort+regIntEnable, 0x00) // divisor high
	portWriteByteFn(d.basePort+regLineCtrl, 0x03)  // 8n1, DLAB off
	portWriteByteFn(d.basePort+regFifoCtrl, 0xc7)
	portWriteByteFn(d.basePort+regModemCtrl, 0x0b)

	kfmt.Fprintf(w, "initialized port 0x%x at 115200 8n1\n", d.basePort)
	return nil
}

func probeForUART() device.Driver {
	return NewDevice(COM1)
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Probe: probeForUART,
	})
}
