package filesystem

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/weberc2/newfs/pkg/alloc"
	"github.com/weberc2/newfs/pkg/device"
	inodestore "github.com/weberc2/newfs/pkg/inode/store"
	"github.com/weberc2/newfs/pkg/io"
	"github.com/weberc2/newfs/pkg/layout"
	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

type Options struct {
	// Params size a virgin device. The zero value means
	// `layout.DefaultParams()`.
	Params layout.Params

	// Logger defaults to `slog.Default()`.
	Logger *slog.Logger
}

// FileSystem is a mounted device. It is not safe for concurrent use.
type FileSystem struct {
	ID     uuid.UUID
	Logger *slog.Logger

	driver     device.Driver
	volume     io.Volume
	superblock layout.Superblock
	inodeMap   *alloc.Bitmap
	dataMap    *alloc.Bitmap
	inodes     alloc.InoAllocator
	blocks     alloc.BlockAllocator
	store      *inodestore.Store
	root       *tree.Dentry
	mounted    bool
}

type Stats struct {
	BlockSize      Byte   `json:"blockSize" yaml:"blockSize"`
	Usage          Byte   `json:"usage" yaml:"usage"`
	InodesUsed     uint64 `json:"inodesUsed" yaml:"inodesUsed"`
	InodeCount     uint64 `json:"inodeCount" yaml:"inodeCount"`
	DataBlocksUsed uint64 `json:"dataBlocksUsed" yaml:"dataBlocksUsed"`
	DataBlockCount uint64 `json:"dataBlockCount" yaml:"dataBlockCount"`
}

func (fs *FileSystem) Root() *tree.Dentry { return fs.root }

func (fs *FileSystem) Mounted() bool { return fs.mounted }

func (fs *FileSystem) Superblock() layout.Superblock { return fs.superblock }

func (fs *FileSystem) Stats() Stats {
	stats := Stats{
		BlockSize:      fs.superblock.BlockSize(),
		Usage:          fs.superblock.Usage,
		InodeCount:     fs.superblock.InodeCount,
		DataBlockCount: fs.superblock.DataBlockCount,
	}
	if fs.inodeMap != nil {
		stats.InodesUsed = fs.inodeMap.Count()
	}
	if fs.dataMap != nil {
		stats.DataBlocksUsed = fs.dataMap.Count()
	}
	return stats
}

// InodeMap and DataMap expose the allocation bitmaps for inspection.
func (fs *FileSystem) InodeMap() *alloc.Bitmap { return fs.inodeMap }

func (fs *FileSystem) DataMap() *alloc.Bitmap { return fs.dataMap }

func (fs *FileSystem) checkMounted() error {
	if !fs.mounted {
		return NotMountedErr
	}
	return nil
}

func (fs *FileSystem) setBitmaps(inodeMap, dataMap *alloc.Bitmap) {
	fs.inodeMap = inodeMap
	fs.dataMap = dataMap
	fs.inodes = alloc.InoAllocator{Allocator: inodeMap}
	fs.blocks = alloc.BlockAllocator{Allocator: dataMap}
}

func (fs *FileSystem) String() string {
	return fmt.Sprintf("FileSystem{ID: %s, Mounted: %t}", fs.ID, fs.mounted)
}
