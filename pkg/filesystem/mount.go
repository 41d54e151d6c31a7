package filesystem

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/weberc2/newfs/pkg/alloc"
	bitmapstore "github.com/weberc2/newfs/pkg/alloc/store"
	"github.com/weberc2/newfs/pkg/device"
	inodestore "github.com/weberc2/newfs/pkg/inode/store"
	"github.com/weberc2/newfs/pkg/io"
	"github.com/weberc2/newfs/pkg/layout"
	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

// MountPath opens the device at `path` and mounts it. The device is closed
// if mounting fails.
func MountPath(
	open device.Opener,
	path string,
	options Options,
) (*FileSystem, error) {
	driver, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("mounting `%s`: %w", path, err)
	}
	fs, err := Mount(driver, options)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("mounting `%s`: %w", path, err),
			driver.Close(),
		)
	}
	return fs, nil
}

// Mount reads the superblock from `driver`. A virgin device is laid out
// according to `options.Params` and given an empty root directory; an
// initialized device has its bitmaps loaded. Either way, the root inode is
// then read from disk.
func Mount(driver device.Driver, options Options) (*FileSystem, error) {
	if options.Params == (layout.Params{}) {
		options.Params = layout.DefaultParams()
	}
	if options.Logger == nil {
		options.Logger = slog.Default().With("component", "filesystem")
	}

	id := uuid.New()
	fs := &FileSystem{
		ID:     id,
		Logger: options.Logger.With("mount", id.String()),
		driver: driver,
		root:   tree.NewRoot(),
	}

	geometry := layout.GeometryOf(driver)
	if err := geometry.Validate(); err != nil {
		return nil, fmt.Errorf("mounting: %w", err)
	}
	fs.volume = io.NewBlockVolume(driver, geometry.BlockSize())

	sb, initialized, err := layout.Read(fs.volume, geometry)
	if err != nil {
		return nil, fmt.Errorf("mounting: %w", err)
	}

	if initialized {
		fs.superblock = sb
		fs.store = inodestore.New(fs.volume, &fs.superblock)
		if err := fs.loadBitmaps(); err != nil {
			return nil, fmt.Errorf("mounting: %w", err)
		}
	} else {
		if sb, err = layout.Compute(geometry, options.Params); err != nil {
			return nil, fmt.Errorf("mounting virgin device: %w", err)
		}
		fs.superblock = sb
		fs.store = inodestore.New(fs.volume, &fs.superblock)
		fs.setBitmaps(alloc.New(sb.InodeCount), alloc.New(sb.DataBlockCount))
		if err := fs.createRoot(); err != nil {
			return nil, fmt.Errorf("mounting virgin device: %w", err)
		}
		fs.Logger.Info(
			"initialized device",
			"inodes", sb.InodeCount,
			"dataBlocks", sb.DataBlockCount,
			"blockSize", sb.BlockSize(),
		)
	}

	if _, err := fs.store.ReadInode(fs.root); err != nil {
		return nil, fmt.Errorf("mounting: loading root: %w", err)
	}
	fs.mounted = true
	fs.Logger.Info(
		"mounted",
		"deviceSize", geometry.DeviceSize,
		"ioUnit", geometry.IOUnit,
		"rootEntries", fs.root.Inode.DirCount,
	)
	return fs, nil
}

func (fs *FileSystem) bitmapStores() (
	inodeMap bitmapstore.VolumeBitmapStore,
	dataMap bitmapstore.VolumeBitmapStore,
) {
	inodeMap = bitmapstore.NewVolumeBitmapStore(
		io.NewOffsetVolume(fs.volume, fs.superblock.InodeMapOffset),
		fs.superblock.InodeMapSize(),
	)
	dataMap = bitmapstore.NewVolumeBitmapStore(
		io.NewOffsetVolume(fs.volume, fs.superblock.DataMapOffset),
		fs.superblock.DataMapSize(),
	)
	return
}

func (fs *FileSystem) loadBitmaps() error {
	inodeStore, dataStore := fs.bitmapStores()
	inodeMap, err := inodeStore.Get(fs.superblock.InodeCount)
	if err != nil {
		return fmt.Errorf("loading inode bitmap: %w", err)
	}
	dataMap, err := dataStore.Get(fs.superblock.DataBlockCount)
	if err != nil {
		return fmt.Errorf("loading data bitmap: %w", err)
	}
	fs.setBitmaps(inodeMap, dataMap)
	return nil
}

// createRoot allocates the root inode on a virgin device and writes it out.
// The in-memory copy is discarded so that the root is read back from disk
// like on any other mount.
func (fs *FileSystem) createRoot() error {
	inode, err := fs.allocInode(fs.root)
	if err != nil {
		return fmt.Errorf("creating root: %w", err)
	}
	if inode.Ino != InoRoot {
		return fmt.Errorf(
			"creating root: allocated inode `%d`; wanted `%d`: %w",
			inode.Ino,
			InoRoot,
			InvalidArgumentErr,
		)
	}
	if err := fs.store.SyncInode(inode); err != nil {
		return fmt.Errorf("creating root: %w", err)
	}
	fs.root.Inode = nil
	return nil
}

// Sync flushes the loaded tree, the superblock and both bitmaps.
func (fs *FileSystem) Sync() error {
	if err := fs.checkMounted(); err != nil {
		return fmt.Errorf("syncing: %w", err)
	}
	if err := fs.flush(); err != nil {
		return fmt.Errorf("syncing: %w", err)
	}
	return nil
}

// Unmount flushes everything and closes the device. The device is closed
// even if flushing fails. Unmounting an unmounted file system does nothing.
func (fs *FileSystem) Unmount() error {
	if !fs.mounted {
		return nil
	}
	fs.mounted = false

	err := fs.flush()
	fs.inodeMap, fs.dataMap = nil, nil
	if closeErr := fs.driver.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("closing device: %w", closeErr))
	}
	if err != nil {
		fs.Logger.Error("unmounting", "err", err.Error())
		return fmt.Errorf("unmounting: %w", err)
	}
	fs.Logger.Info("unmounted", "usage", fs.superblock.Usage)
	return nil
}

func (fs *FileSystem) flush() error {
	if err := fs.store.SyncInode(fs.root.Inode); err != nil {
		return fmt.Errorf("flushing tree: %w", err)
	}
	if err := layout.Write(fs.volume, &fs.superblock); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	inodeStore, dataStore := fs.bitmapStores()
	if err := inodeStore.Put(fs.inodeMap); err != nil {
		return fmt.Errorf("flushing inode bitmap: %w", err)
	}
	if err := dataStore.Put(fs.dataMap); err != nil {
		return fmt.Errorf("flushing data bitmap: %w", err)
	}
	return nil
}
