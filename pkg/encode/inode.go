package encode

import (
	"fmt"

	. "github.com/weberc2/newfs/pkg/types"
)

func EncodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]
	putU64(p, inodeInoStart, uint64(inode.Ino))
	putU64(p, inodeSizeStart, uint64(inode.Size))
	putU8(p, inodeFileTypeStart, uint8(inode.FileType))
	putU32(p, inodeDirCountStart, inode.DirCount)
	for i := range inode.Blocks {
		putU64(p, inodeBlocksStart+Byte(i)*8, uint64(inode.Blocks[i]))
	}
}

func DecodeInode(inode *Inode, b *[InodeSize]byte) error {
	p := b[:]

	// validate before mutating `inode` so callers never observe a partially
	// decoded record
	ft := FileType(getU8(p, inodeFileTypeStart))
	if err := ft.Validate(); err != nil {
		return fmt.Errorf("decoding inode: %w", err)
	}

	inode.Ino = Ino(getU64(p, inodeInoStart))
	inode.Size = Byte(getU64(p, inodeSizeStart))
	inode.FileType = ft
	inode.DirCount = getU32(p, inodeDirCountStart)
	for i := range inode.Blocks {
		inode.Blocks[i] = Block(getU64(p, inodeBlocksStart+Byte(i)*8))
	}
	return nil
}

const (
	inodeInoStart = 0
	inodeInoEnd   = inodeInoStart + 8

	inodeSizeStart = inodeInoEnd
	inodeSizeEnd   = inodeSizeStart + 8

	inodeFileTypeStart = inodeSizeEnd
	inodeFileTypeSize  = 4 // 1 byte + padding
	inodeFileTypeEnd   = inodeFileTypeStart + inodeFileTypeSize

	inodeDirCountStart = inodeFileTypeEnd
	inodeDirCountEnd   = inodeDirCountStart + 4

	inodeBlocksStart = inodeDirCountEnd
	inodeBlocksEnd   = inodeBlocksStart + BlocksPerFile*8

	InodeSize Byte = inodeBlocksEnd
)
