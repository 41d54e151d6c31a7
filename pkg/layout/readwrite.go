package layout

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/encode"
	"github.com/weberc2/newfs/pkg/io"
	"github.com/weberc2/newfs/pkg/types"
)

// Read loads the superblock from the start of `volume`. If the magic number
// doesn't match, the device is uninitialized and `initialized` is false.
func Read(volume io.Volume, geometry Geometry) (
	sb Superblock,
	initialized bool,
	err error,
) {
	buf := new([encode.SuperblockSize]byte)
	if err := volume.ReadAt(0, buf[:]); err != nil {
		return Superblock{}, false, fmt.Errorf("reading superblock: %w", err)
	}

	sb.Geometry = geometry
	encode.DecodeSuperblock(&sb.Superblock, buf)
	if sb.Magic != types.Magic {
		return Superblock{Geometry: geometry}, false, nil
	}
	if err := sb.Validate(); err != nil {
		return Superblock{}, false, fmt.Errorf("reading superblock: %w", err)
	}
	return sb, true, nil
}

func Write(volume io.Volume, sb *Superblock) error {
	buf := new([encode.SuperblockSize]byte)
	encode.EncodeSuperblock(&sb.Superblock, buf)
	if err := volume.WriteAt(0, buf[:]); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}
	return nil
}
