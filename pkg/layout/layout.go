package layout

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/device"
	"github.com/weberc2/newfs/pkg/encode"
	"github.com/weberc2/newfs/pkg/math"
	"github.com/weberc2/newfs/pkg/types"
)

const superblockBlocks = 1

// Params are the capacities chosen when a virgin device is initialized. They
// are ignored for devices which are already initialized.
type Params struct {
	InodeCount     uint64 `yaml:"inodeCount"`
	DataBlockCount uint64 `yaml:"dataBlockCount"`
}

func DefaultParams() Params {
	return Params{
		InodeCount:     types.InodeCountDefault,
		DataBlockCount: types.DataBlockCountDefault,
	}
}

// Geometry describes the device. It is never persisted.
type Geometry struct {
	DeviceSize types.Byte `json:"deviceSize" yaml:"deviceSize"`
	IOUnit     types.Byte `json:"ioUnit" yaml:"ioUnit"`
}

func GeometryOf(driver device.Driver) Geometry {
	return Geometry{DeviceSize: driver.Size(), IOUnit: driver.IOUnit()}
}

// BlockSize is always twice the I/O unit.
func (g Geometry) BlockSize() types.Byte { return 2 * g.IOUnit }

func (g Geometry) Validate() error {
	if g.IOUnit == 0 {
		return fmt.Errorf("validating geometry: zero I/O unit: %w", types.InvalidArgumentErr)
	}
	for _, record := range []struct {
		name string
		size types.Byte
	}{
		{"superblock", encode.SuperblockSize},
		{"inode", encode.InodeSize},
		{"directory entry", encode.DirEntrySize},
	} {
		if g.BlockSize() < record.size {
			return fmt.Errorf(
				"validating geometry: block size `%d` can't hold a `%d`-byte "+
					"%s record: %w",
				g.BlockSize(),
				record.size,
				record.name,
				types.InvalidArgumentErr,
			)
		}
	}
	return nil
}

// Superblock is the persisted superblock plus the geometry of the device it
// was read from.
type Superblock struct {
	types.Superblock `yaml:",inline"`
	Geometry         `yaml:",inline"`
}

// Compute lays out a virgin device: the superblock, the inode bitmap, the
// data bitmap, the inode table (one block per inode) and the data area, in
// that order and without gaps.
func Compute(geometry Geometry, params Params) (Superblock, error) {
	if err := geometry.Validate(); err != nil {
		return Superblock{}, fmt.Errorf("computing layout: %w", err)
	}
	if params.InodeCount == 0 || params.DataBlockCount == 0 {
		return Superblock{}, fmt.Errorf(
			"computing layout for `%d` inodes and `%d` data blocks: %w",
			params.InodeCount,
			params.DataBlockCount,
			types.InvalidArgumentErr,
		)
	}

	blockSize := geometry.BlockSize()
	bitsPerBlock := uint64(blockSize) * 8
	inodeMapBlocks := types.Block(math.DivRoundUp(params.InodeCount, bitsPerBlock))
	dataMapBlocks := types.Block(math.DivRoundUp(params.DataBlockCount, bitsPerBlock))

	var sb Superblock
	sb.Geometry = geometry
	sb.Magic = types.Magic
	sb.InodeCount = params.InodeCount
	sb.DataBlockCount = params.DataBlockCount
	sb.InodeMapBlocks = inodeMapBlocks
	sb.InodeMapOffset = superblockBlocks * blockSize
	sb.DataMapBlocks = dataMapBlocks
	sb.DataMapOffset = sb.InodeMapOffset + types.Byte(inodeMapBlocks)*blockSize
	sb.InodeOffset = sb.DataMapOffset + types.Byte(dataMapBlocks)*blockSize
	sb.DataOffset = sb.InodeOffset + types.Byte(params.InodeCount)*blockSize

	if err := sb.Validate(); err != nil {
		return Superblock{}, fmt.Errorf("computing layout: %w", err)
	}
	return sb, nil
}

func (sb *Superblock) Validate() error {
	if err := sb.Geometry.Validate(); err != nil {
		return err
	}
	blockSize := sb.BlockSize()
	offsets := []types.Byte{
		0,
		sb.InodeMapOffset,
		sb.DataMapOffset,
		sb.InodeOffset,
		sb.DataOffset,
		sb.End(),
	}
	for i, offset := range offsets {
		if offset%blockSize != 0 {
			return fmt.Errorf(
				"validating superblock: offset `%d` not aligned to block "+
					"size `%d`: %w",
				offset,
				blockSize,
				types.InvalidArgumentErr,
			)
		}
		if i > 0 && offset <= offsets[i-1] {
			return fmt.Errorf(
				"validating superblock: offset `%d` follows offset `%d`: %w",
				offset,
				offsets[i-1],
				types.InvalidArgumentErr,
			)
		}
	}
	if sb.InodeMapSize() < types.Byte(math.DivRoundUp(sb.InodeCount, 8)) ||
		sb.DataMapSize() < types.Byte(math.DivRoundUp(sb.DataBlockCount, 8)) {
		return fmt.Errorf(
			"validating superblock: bitmap regions too small: %w",
			types.InvalidArgumentErr,
		)
	}
	if sb.End() > sb.DeviceSize {
		return fmt.Errorf(
			"validating superblock: layout needs `%d` bytes; device has "+
				"`%d`: %w",
			sb.End(),
			sb.DeviceSize,
			types.InvalidArgumentErr,
		)
	}
	return nil
}

// End is the offset just past the data area.
func (sb Superblock) End() types.Byte {
	return sb.DataOffset + types.Byte(sb.DataBlockCount)*sb.BlockSize()
}

func (sb Superblock) InodeMapSize() types.Byte {
	return types.Byte(sb.InodeMapBlocks) * sb.BlockSize()
}

func (sb Superblock) DataMapSize() types.Byte {
	return types.Byte(sb.DataMapBlocks) * sb.BlockSize()
}

// InodeAt is the offset of the inode record for `ino`.
func (sb Superblock) InodeAt(ino types.Ino) types.Byte {
	return sb.InodeOffset + types.Byte(ino)*sb.BlockSize()
}

// BlockAt is the offset of data block `b`.
func (sb Superblock) BlockAt(b types.Block) types.Byte {
	return sb.DataOffset + types.Byte(b)*sb.BlockSize()
}

// EntriesPerBlock is the number of directory entry records which fit in one
// data block. Records never straddle blocks.
func (sb Superblock) EntriesPerBlock() int {
	return int(sb.BlockSize() / encode.DirEntrySize)
}

// EntriesPerDir is the most children a directory can hold.
func (sb Superblock) EntriesPerDir() int {
	return types.BlocksPerFile * sb.EntriesPerBlock()
}

// FileCapacity is the most bytes a regular file can hold.
func (sb Superblock) FileCapacity() types.Byte {
	return types.BlocksPerFile * sb.BlockSize()
}
