// Package storage defines the contract implemented by block storage devices.
package storage

// BlockSize is the fixed size in bytes of every block exchanged with a
// storage device.
const BlockSize = 512

// Device is the interface implemented by all block storage devices. Blocks
// are addressed by a zero-based id; accessing an id at or beyond BlockCount
// fails with an out-of-bounds error.
type Device interface {
	// ReadBlock copies the contents of the requested block into dst. The
	// destination buffer must be at least BlockSize bytes long.
	ReadBlock(id uint64, dst []byte) error

	// WriteBlock overwrites the requested block with the first BlockSize
	// bytes of src. The source buffer must be at least BlockSize bytes
	// long.
	WriteBlock(id uint64, src []byte) error

	// BlockCount returns the total number of addressable blocks.
	BlockCount() uint64
}
