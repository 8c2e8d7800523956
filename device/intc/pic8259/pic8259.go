// Package pic8259 drives the two cascaded 8259 programmable interrupt
// controllers found on PC-compatible hardware. The driver remaps the
// controllers away from the vector range reserved for CPU exceptions and
// starts with every interrupt line masked; lines are enabled one at a time
// via SetIRQMask once a handler has been installed for them.
package pic8259

import (
	"io"

	"github.com/shadowm-mounarch/shadowos/device"
	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/cpu"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
	"github.com/shadowm-mounarch/shadowos/kernel/sync"
)

// I/O ports for the master and slave controller.
const (
	masterCmdPort  = 0x20
	masterDataPort = 0x21
	slaveCmdPort   = 0xa0
	slaveDataPort  = 0xa1

	// Writes to this unused port introduce the delay that the 8259
	// requires between initialization command words.
	ioWaitPort = 0x80
)

// Initialization command words and commands understood by the 8259.
const (
	icw1Init       = 0x11
	icw4Mode8086   = 0x01
	cmdEOI         = 0x20
	maskAll        = 0xff
	cascadeMaskBit = 1 << CascadeIRQ
	cascadeSlaveID = 2
)

// Vector offsets programmed into the controllers. The master occupies the
// first 8 vectors after the CPU exception range with the slave immediately
// following it.
const (
	MasterVectorOffset = 32
	SlaveVectorOffset  = 40
)

// CascadeIRQ is the master line the slave controller cascades on. It must
// remain unmasked whenever any slave line is unmasked or the slave's
// interrupts never reach the CPU.
const CascadeIRQ = 2

// Well-known IRQ lines handled by this kernel.
const (
	TimerIRQ    = 0
	KeyboardIRQ = 1
)

var (
	portReadByteFn  = cpu.PortReadByte
	portWriteByteFn = cpu.PortWriteByte

	// maskMutex serializes the read-modify-write cycles on the controller
	// mask registers. The acquire/release pair is swappable so tests can
	// run it without masking host interrupts.
	maskMutex      sync.IRQSpinlock
	acquireMutexFn = acquireMaskMutex
	releaseMutexFn = releaseMaskMutex
)

func acquireMaskMutex() { maskMutex.AcquireIRQ() }
func releaseMaskMutex() { maskMutex.ReleaseIRQ() }

// PIC implements the driver for the cascaded 8259 controller pair.
type PIC struct{}

// remap runs the four-word initialization sequence on both controllers and
// masks every interrupt line. Each programming byte is followed by an I/O
// wait as older controllers need time to settle between words.
func (p *PIC) remap() {
	// ICW1: begin initialization, ICW4 follows.
	outByte(masterCmdPort, icw1Init)
	outByte(slaveCmdPort, icw1Init)

	// ICW2: vector offsets.
	outByte(masterDataPort, MasterVectorOffset)
	outByte(slaveDataPort, SlaveVectorOffset)

	// ICW3: the master learns which line the slave cascades on; the slave
	// learns its cascade identity.
	outByte(masterDataPort, cascadeMaskBit)
	outByte(slaveDataPort, cascadeSlaveID)

	// ICW4: 8086 mode.
	outByte(masterDataPort, icw4Mode8086)
	outByte(slaveDataPort, icw4Mode8086)

	// Mask all interrupt lines on both controllers.
	outByte(masterDataPort, maskAll)
	outByte(slaveDataPort, maskAll)
}

// outByte writes a programming byte to the controller at port followed by an
// I/O wait.
func outByte(port uint16, val uint8) {
	portWriteByteFn(port, val)
	portWriteByteFn(ioWaitPort, 0)
}

// SetIRQMask masks or unmasks a single interrupt line. Unmasking a line on
// the slave controller also unmasks the cascade line on the master; without
// it the slave's interrupts are silently blocked regardless of the slave's
// own mask register. Masking never touches the cascade line.
func SetIRQMask(irq uint8, masked bool) {
	acquireMutexFn()
	defer releaseMutexFn()

	port, bit := uint16(masterDataPort), irq
	if irq >= 8 {
		port, bit = slaveDataPort, irq-8
	}

	mask := portReadByteFn(port)
	if masked {
		mask |= 1 << bit
	} else {
		mask &^= 1 << bit
	}
	portWriteByteFn(port, mask)

	if irq >= 8 && !masked {
		portWriteByteFn(masterDataPort, portReadByteFn(masterDataPort)&^cascadeMaskBit)
	}
}

// EOI signals end-of-interrupt for the supplied vector so the controllers
// resume delivering interrupts on that line. Vectors in the slave's range
// must acknowledge the slave before the master.
func EOI(vector uint8) {
	if vector >= SlaveVectorOffset {
		portWriteByteFn(slaveCmdPort, cmdEOI)
	}
	portWriteByteFn(masterCmdPort, cmdEOI)
}

// DriverName returns the name of this driver.
func (p *PIC) DriverName() string {
	return "pic8259"
}

// DriverVersion returns the version of this driver.
func (p *PIC) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver.
func (p *PIC) DriverInit(w io.Writer) *kernel.Error {
	p.remap()
	kfmt.Fprintf(w, "remapped IRQ0-15 to vectors %d-%d; all lines masked\n",
		MasterVectorOffset, SlaveVectorOffset+7)
	return nil
}

func probeForPIC() device.Driver {
	return &PIC{}
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderIntC,
		Probe: probeForPIC,
	})
}
