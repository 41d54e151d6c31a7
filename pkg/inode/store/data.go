package store

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

func (store *Store) readData(inode *tree.Inode) error {
	for i, b := range inode.Blocks {
		data := make([]byte, store.superblock.BlockSize())
		if err := store.volume.ReadAt(
			store.superblock.BlockAt(b),
			data,
		); err != nil {
			return fmt.Errorf("reading data block `%d`: %w", b, err)
		}
		inode.Data[i] = data
	}
	return nil
}

func (store *Store) checkData(inode *tree.Inode) error {
	for i := range inode.Data {
		if Byte(len(inode.Data[i])) > store.superblock.BlockSize() {
			return fmt.Errorf(
				"`%d` bytes cached for a `%d`-byte block: %w",
				len(inode.Data[i]),
				store.superblock.BlockSize(),
				FileTooLargeErr,
			)
		}
	}
	return nil
}

// writeData writes every addressed block in full. Missing or short cached
// blocks are zero-padded.
func (store *Store) writeData(inode *tree.Inode) error {
	buf := make([]byte, store.superblock.BlockSize())
	for i, b := range inode.Blocks {
		clear(buf)
		copy(buf, inode.Data[i])
		if err := store.volume.WriteAt(
			store.superblock.BlockAt(b),
			buf,
		); err != nil {
			return fmt.Errorf("writing data block `%d`: %w", b, err)
		}
	}
	return nil
}
