package console

import (
	"github.com/shadowm-mounarch/shadowos/device"
	"github.com/shadowm-mounarch/shadowos/kernel/hal/bootinfo"
)

var getFramebufferInfoFn = bootinfo.GetFramebufferInfo

// probeForFbConsole checks whether the boot stage handed over a usable
// linear framebuffer. Only 32bpp direct-color modes are supported; a
// headless boot simply leaves the kernel without a console.
func probeForFbConsole() device.Driver {
	fbInfo := getFramebufferInfoFn()
	if fbInfo == nil || fbInfo.Bpp != 32 {
		return nil
	}

	return NewFbConsole(
		fbInfo.Width, fbInfo.Height, fbInfo.Bpp, fbInfo.Pitch,
		fbInfo.RedPosition, fbInfo.GreenPosition, fbInfo.BluePosition,
		uintptr(fbInfo.VirtAddr),
	)
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderNormal,
		Probe: probeForFbConsole,
	})
}
