package types

type Byte uint64

const (
	// IOUnitDefault is the transfer unit assumed for devices that can't
	// report one (e.g., regular image files).
	IOUnitDefault Byte = 512
)
