package encode

import (
	"bytes"
	"fmt"

	. "github.com/weberc2/newfs/pkg/types"
)

func EncodeDirEntry(entry *DirEntry, b *[DirEntrySize]byte) error {
	if len(entry.Name) > NameMax {
		return fmt.Errorf(
			"encoding directory entry `%s`: %w",
			entry.Name,
			NameTooLongErr,
		)
	}
	*b = [DirEntrySize]byte{}
	p := b[:]
	copy(p[dirEntryNameStart:dirEntryNameEnd], entry.Name)
	putU64(p, dirEntryInoStart, uint64(entry.Ino))
	putU8(p, dirEntryFileTypeStart, uint8(entry.FileType))
	return nil
}

func DecodeDirEntry(entry *DirEntry, b *[DirEntrySize]byte) error {
	p := b[:]
	ft := FileType(getU8(p, dirEntryFileTypeStart))
	if err := ft.Validate(); err != nil {
		return fmt.Errorf("decoding directory entry: %w", err)
	}

	name := p[dirEntryNameStart:dirEntryNameEnd]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	entry.Name = string(name)
	entry.Ino = Ino(getU64(p, dirEntryInoStart))
	entry.FileType = ft
	return nil
}

const (
	dirEntryNameStart = 0
	dirEntryNameEnd   = dirEntryNameStart + NameMax

	dirEntryInoStart = dirEntryNameEnd
	dirEntryInoEnd   = dirEntryInoStart + 8

	dirEntryFileTypeStart = dirEntryInoEnd
	dirEntryFileTypeSize  = 8 // 1 byte + padding
	dirEntryFileTypeEnd   = dirEntryFileTypeStart + dirEntryFileTypeSize

	DirEntrySize Byte = dirEntryFileTypeEnd
)
