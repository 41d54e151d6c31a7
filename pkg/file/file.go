package file

import (
	"errors"
	"fmt"
	"io"

	"github.com/weberc2/newfs/pkg/directory"
	"github.com/weberc2/newfs/pkg/math"
	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

type FileSystem = directory.FileSystem

// Create makes an empty regular file at `path`.
func Create(fs *FileSystem, path string) (*tree.Dentry, error) {
	return directory.Add(fs, path, FileTypeRegular)
}

// Open resolves `path` to a regular file.
func Open(fs *FileSystem, path string) (*tree.Inode, error) {
	d, err := directory.Resolve(fs, path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	if d.Inode.FileType != FileTypeRegular {
		return nil, fmt.Errorf("opening file `%s`: %w", path, NotARegularFileErr)
	}
	return d.Inode, nil
}

// Read copies file content starting at `offset` into `b`. It returns io.EOF
// once `offset` reaches the end of the file.
func Read(fs *FileSystem, inode *tree.Inode, offset Byte, b []byte) (Byte, error) {
	if offset >= inode.Size {
		return 0, io.EOF
	}
	end := math.Min(inode.Size, offset+Byte(len(b)))
	blockSize := fs.Superblock().BlockSize()
	var n Byte
	for pos := offset; pos < end; {
		block, within := pos/blockSize, pos%blockSize
		size := math.Min(blockSize-within, end-pos)
		copy(b[n:n+size], inode.Data[block][within:within+size])
		n += size
		pos += size
	}
	return n, nil
}

// Write copies `b` into the file at `offset`, growing it if needed. Files
// can't grow past their preallocated blocks. Nothing reaches the device
// until the inode is synced.
func Write(fs *FileSystem, inode *tree.Inode, offset Byte, b []byte) (Byte, error) {
	blockSize := fs.Superblock().BlockSize()
	end := offset + Byte(len(b))
	if capacity := fs.Superblock().FileCapacity(); end > capacity {
		return 0, fmt.Errorf(
			"writing `%d` bytes at offset `%d` to inode `%d` with capacity "+
				"`%d`: %w",
			len(b),
			offset,
			inode.Ino,
			capacity,
			FileTooLargeErr,
		)
	}
	var n Byte
	for pos := offset; pos < end; {
		block, within := pos/blockSize, pos%blockSize
		size := math.Min(blockSize-within, end-pos)
		copy(inode.Data[block][within:within+size], b[n:n+size])
		n += size
		pos += size
	}
	if end > inode.Size {
		inode.Size = end
	}
	return n, nil
}

// Truncate sets the file size. Bytes past the new size are zeroed; the
// file's blocks stay allocated.
func Truncate(fs *FileSystem, inode *tree.Inode, size Byte) error {
	if capacity := fs.Superblock().FileCapacity(); size > capacity {
		return fmt.Errorf(
			"truncating inode `%d` to `%d` bytes with capacity `%d`: %w",
			inode.Ino,
			size,
			capacity,
			FileTooLargeErr,
		)
	}
	blockSize := fs.Superblock().BlockSize()
	for pos := size; pos < inode.Size; {
		block, within := pos/blockSize, pos%blockSize
		end := math.Min(inode.Size, (block+1)*blockSize)
		clear(inode.Data[block][within : end-block*blockSize])
		pos = end
	}
	inode.Size = size
	return nil
}

// ReadFile returns the content of the regular file at `path`.
func ReadFile(fs *FileSystem, path string) ([]byte, error) {
	inode, err := Open(fs, path)
	if err != nil {
		return nil, err
	}
	data := make([]byte, inode.Size)
	if _, err := Read(fs, inode, 0, data); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading `%s`: %w", path, err)
	}
	return data, nil
}

// WriteFile replaces the content of the regular file at `path`, creating it
// if it doesn't exist, and syncs it.
func WriteFile(fs *FileSystem, path string, data []byte) error {
	if Byte(len(data)) > fs.Superblock().FileCapacity() {
		return fmt.Errorf(
			"writing `%d` bytes to `%s`: %w",
			len(data),
			path,
			FileTooLargeErr,
		)
	}
	inode, err := Open(fs, path)
	if errors.Is(err, NotFoundErr) {
		d, createErr := Create(fs, path)
		if createErr != nil {
			return fmt.Errorf("writing `%s`: %w", path, createErr)
		}
		inode = d.Inode
	} else if err != nil {
		return fmt.Errorf("writing `%s`: %w", path, err)
	}
	if err := Truncate(fs, inode, 0); err != nil {
		return fmt.Errorf("writing `%s`: %w", path, err)
	}
	if _, err := Write(fs, inode, 0, data); err != nil {
		return fmt.Errorf("writing `%s`: %w", path, err)
	}
	if err := fs.SyncInode(inode); err != nil {
		return fmt.Errorf("writing `%s`: %w", path, err)
	}
	return nil
}

const (
	NotARegularFileErr ConstError = "not a regular file"
)
