package device

import (
	"io"

	"github.com/shadowm-mounarch/shadowos/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that scans for the presence of a particular
// piece of hardware and returns a driver for it.
type ProbeFn func() Driver

// DetectOrder specifies when each driver probe is run relative to the other
// registered drivers.
type DetectOrder int8

const (
	// DetectOrderEarly drivers are probed before anything else. This order
	// is reserved for the drivers that carry the boot log output (the
	// serial port).
	DetectOrderEarly DetectOrder = -128

	// DetectOrderIntC drivers control interrupt delivery and must be
	// probed before any driver that expects to receive interrupts.
	DetectOrderIntC DetectOrder = -64

	// DetectOrderNormal is the default order for device probes.
	DetectOrderNormal DetectOrder = 0

	// DetectOrderLast drivers are probed after every other driver.
	DetectOrderLast DetectOrder = 127
)

// DriverInfo describes a driver and the order that its probe function should
// be invoked at.
type DriverInfo struct {
	// Order specifies the detection order for this driver.
	Order DetectOrder

	// Probe checks for the presence of the hardware driven by this driver
	// and returns a Driver instance for it or nil if the hardware is not
	// present.
	Probe ProbeFn
}

// DriverInfoList is a list of registered drivers that implements
// sort.Interface using the driver detection order as the sort key.
type DriverInfoList []*DriverInfo

// Len returns the length of the driver info list.
func (l DriverInfoList) Len() int { return len(l) }

// Less compares two driver info list entries by their detection order.
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }

// Swap exchanges two driver info list entries.
func (l DriverInfoList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

var registeredDrivers DriverInfoList

// RegisterDriver adds the supplied driver info to the list of registered
// drivers. Drivers are expected to call RegisterDriver from an init block.
func RegisterDriver(info *DriverInfo) {
	registeredDrivers = append(registeredDrivers, info)
}

// DriverList returns the list of registered drivers.
func DriverList() DriverInfoList {
	return registeredDrivers
}
