package device

import . "github.com/weberc2/newfs/pkg/types"

// Driver is a raw block device. Reads and writes transfer exactly one I/O
// unit at the current position and advance it.
type Driver interface {
	Seek(offset Byte) error
	Read(p []byte) error
	Write(p []byte) error
	Size() Byte
	IOUnit() Byte
	Close() error
}

// Opener opens the device at `path`.
type Opener func(path string) (Driver, error)
