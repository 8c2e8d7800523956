// Package ramdisk provides a memory-backed block device. The backing array
// is allocated at link time so the device is usable before any allocator
// exists; its contents do not survive a reboot.
package ramdisk

import (
	"io"

	"github.com/shadowm-mounarch/shadowos/device"
	"github.com/shadowm-mounarch/shadowos/device/storage"
	"github.com/shadowm-mounarch/shadowos/kernel"
	"github.com/shadowm-mounarch/shadowos/kernel/kfmt"
	"github.com/shadowm-mounarch/shadowos/kernel/mem"
	"github.com/shadowm-mounarch/shadowos/kernel/sync"
)

// diskSize is the capacity of the ramdisk backing array.
const diskSize = 1 * mem.Mb

var (
	errOutOfBounds = &kernel.Error{Module: "ramdisk", Message: "block id out of bounds"}
	errShortBuffer = &kernel.Error{Module: "ramdisk", Message: "buffer shorter than one block"}

	diskStorage [diskSize]byte
)

// RamDisk implements storage.Device over a statically allocated byte array.
type RamDisk struct {
	mutex sync.Spinlock

	data       []byte
	blockCount uint64
}

// NewRamDisk returns a ramdisk over the supplied backing slice. The slice
// length must be a multiple of the block size; any trailing partial block is
// not addressable.
func NewRamDisk(data []byte) *RamDisk {
	return &RamDisk{
		data:       data,
		blockCount: uint64(len(data) / storage.BlockSize),
	}
}

// ReadBlock copies the contents of the requested block into dst.
func (d *RamDisk) ReadBlock(id uint64, dst []byte) error {
	if id >= d.blockCount {
		return errOutOfBounds
	}

	if len(dst) < storage.BlockSize {
		return errShortBuffer
	}

	d.mutex.Acquire()
	copy(dst, d.data[id*storage.BlockSize:(id+1)*storage.BlockSize])
	d.mutex.Release()

	return nil
}

// WriteBlock overwrites the requested block with the first BlockSize bytes
// of src.
func (d *RamDisk) WriteBlock(id uint64, src []byte) error {
	if id >= d.blockCount {
		return errOutOfBounds
	}

	if len(src) < storage.BlockSize {
		return errShortBuffer
	}

	d.mutex.Acquire()
	copy(d.data[id*storage.BlockSize:(id+1)*storage.BlockSize], src[:storage.BlockSize])
	d.mutex.Release()

	return nil
}

// BlockCount returns the total number of addressable blocks.
func (d *RamDisk) BlockCount() uint64 {
	return d.blockCount
}

// DriverName returns the name of this driver.
func (d *RamDisk) DriverName() string {
	return "ramdisk"
}

// DriverVersion returns the version of this driver.
func (d *RamDisk) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver.
func (d *RamDisk) DriverInit(w io.Writer) *kernel.Error {
	kfmt.Fprintf(w, "%d blocks of %d bytes (%d KB)\n",
		d.blockCount, storage.BlockSize, uint64(len(d.data))/1024)
	return nil
}

func probeForRamDisk() device.Driver {
	return NewRamDisk(diskStorage[:])
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderLast,
		Probe: probeForRamDisk,
	})
}
