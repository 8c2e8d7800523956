package hal

import (
	"bytes"
	"io"
	"sort"

	"github.com/shadowm-mounarch/shadowos/device"
	"github.com/shadowm-mounarch/shadowos/device/storage"

	// Pulled in for the driver registration in its init block.
	_ "github.com/shadowm-mounarch/shadowos/device/storage/ramdisk"
	"github.com/shadowm-mounarch/shadowos/device/uart"
	"github.com/shadowm-mounarch/shadowos/device/video/console"
	"github.com/shadowm-mounarch/shadowos/device/video/console/font"
	"github.com/shadowm-mounarch/shadowos/kernel/hal/bootinfo"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	activeConsole  *console.FbConsole
	activeSerial   *uart.Device
	activeBlockDev storage.Device

	// activeDrivers tracks all initialized device drivers.
	activeDrivers []device.Driver
}

var (
	devices managedDevices
	strBuf  bytes.Buffer
	fanout  sinkFanout
)

// sinkFanout duplicates kernel output to the serial port and the console.
type sinkFanout struct {
	serial io.Writer
	cons   io.Writer
}

func (f *sinkFanout) Write(p []byte) (int, error) {
	f.serial.Write(p)
	return f.cons.Write(p)
}

// ActiveConsole returns the currently active console or nil when the system
// runs headless.
func ActiveConsole() *console.FbConsole {
	return devices.activeConsole
}

// ActiveSerial returns the currently active serial port device.
func ActiveSerial() *uart.Device {
	return devices.activeSerial
}

// ActiveBlockDevice returns the currently active block device or nil when no
// storage driver attached.
func ActiveBlockDevice() storage.Device {
	return devices.activeBlockDev
}

// DetectHardware probes for hardware devices and initializes the appropriate
// drivers.
func DetectHardware() {
	// Get driver list and sort by detection priority
	drivers := device.DriverList()
	sort.Sort(drivers)

	probe(drivers)
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver.
func probe(driverInfoList device.DriverInfoList) {
	var w = kfmt.PrefixWriter{Sink: kfmt.GetOutputSink()}

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		onDriverInit(drv)
		devices.activeDrivers = append(devices.activeDrivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is detected
// and successfully initialized.
func onDriverInit(drv device.Driver) {
	switch drvImpl := drv.(type) {
	case *uart.Device:
		onSerialInit(drvImpl)
	case *console.FbConsole:
		onConsoleInit(drvImpl)
	case storage.Device:
		if devices.activeBlockDev == nil {
			devices.activeBlockDev = drvImpl
		}
	}
}

// onSerialInit is invoked whenever a serial port is initialized. The first
// found port claims the kernel output sink so buffered early output gets
// flushed to it; once a console also attaches the sink becomes a fanout over
// both devices.
func onSerialInit(serial *uart.Device) {
	if devices.activeSerial != nil {
		return
	}

	devices.activeSerial = serial
	updateOutputSink()
}

// onConsoleInit is invoked whenever a console is initialized. If this is the
// first found console it automatically becomes the active console. A font is
// attached to it before any output is routed its way: the boot command line
// may request one by name via the consoleFont key, otherwise the best fit
// for the framebuffer geometry is selected.
func onConsoleInit(cons *console.FbConsole) {
	if devices.activeConsole != nil {
		return
	}

	consW, consH := cons.Dimensions(console.Pixels)

	// Check boot cmdline for a font request
	var selFont *font.Font
	for k, v := range bootinfo.GetCmdLine() {
		if k != "consoleFont" {
			continue
		}

		if selFont = font.FindByName(v); selFont != nil {
			break
		}
	}

	if selFont == nil {
		selFont = font.BestFit(consW, consH)
	}

	if selFont == nil {
		// Without a font the console cannot render anything.
		return
	}

	cons.SetFont(selFont)
	devices.activeConsole = cons
	updateOutputSink()
}

// updateOutputSink points the kernel output sink at the devices discovered so
// far: the fanout when both a serial port and a console attached, otherwise
// whichever of the two is present.
func updateOutputSink() {
	switch {
	case devices.activeSerial != nil && devices.activeConsole != nil:
		fanout.serial = devices.activeSerial
		fanout.cons = devices.activeConsole
		kfmt.SetOutputSink(&fanout)
	case devices.activeSerial != nil:
		kfmt.SetOutputSink(devices.activeSerial)
	case devices.activeConsole != nil:
		kfmt.SetOutputSink(devices.activeConsole)
	}
}
