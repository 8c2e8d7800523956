package ramdisk

import (
	"bytes"
	"testing"

	"github.com/shadowm-mounarch/shadowos/device/storage"
)

func TestReadWriteRoundTrip(t *testing.T) {
	disk := NewRamDisk(make([]byte, 8*storage.BlockSize))

	if exp, got := uint64(8), disk.BlockCount(); got != exp {
		t.Fatalf("expected block count %d; got %d", exp, got)
	}

	src := make([]byte, storage.BlockSize)
	for i := range src {
		src[i] = byte(i)
	}

	if err := disk.WriteBlock(3, src); err != nil {
		t.Fatalf("WriteBlock returned error: %v", err)
	}

	dst := make([]byte, storage.BlockSize)
	if err := disk.ReadBlock(3, dst); err != nil {
		t.Fatalf("ReadBlock returned error: %v", err)
	}

	if !bytes.Equal(dst, src) {
		t.Error("expected read back block to match the written data")
	}

	// Neighboring blocks must remain untouched.
	if err := disk.ReadBlock(2, dst); err != nil {
		t.Fatalf("ReadBlock returned error: %v", err)
	}
	if !bytes.Equal(dst, make([]byte, storage.BlockSize)) {
		t.Error("expected block 2 to remain zeroed")
	}
}

func TestOutOfBoundsAccess(t *testing.T) {
	disk := NewRamDisk(make([]byte, 4*storage.BlockSize))
	buf := make([]byte, storage.BlockSize)

	if err := disk.ReadBlock(4, buf); err != errOutOfBounds {
		t.Errorf("expected ReadBlock(4) to fail with %v; got %v", errOutOfBounds, err)
	}

	if err := disk.WriteBlock(100, buf); err != errOutOfBounds {
		t.Errorf("expected WriteBlock(100) to fail with %v; got %v", errOutOfBounds, err)
	}
}

func TestShortBuffer(t *testing.T) {
	disk := NewRamDisk(make([]byte, 4*storage.BlockSize))
	short := make([]byte, storage.BlockSize-1)

	if err := disk.ReadBlock(0, short); err != errShortBuffer {
		t.Errorf("expected ReadBlock with a short buffer to fail with %v; got %v", errShortBuffer, err)
	}

	if err := disk.WriteBlock(0, short); err != errShortBuffer {
		t.Errorf("expected WriteBlock with a short buffer to fail with %v; got %v", errShortBuffer, err)
	}
}

func TestTrailingPartialBlockIsNotAddressable(t *testing.T) {
	disk := NewRamDisk(make([]byte, 2*storage.BlockSize+100))

	if exp, got := uint64(2), disk.BlockCount(); got != exp {
		t.Errorf("expected block count %d; got %d", exp, got)
	}
}
