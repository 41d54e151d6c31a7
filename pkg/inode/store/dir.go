package store

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/encode"
	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

// Entries are packed from the start of each block. When the space left in
// a block can't hold another full record, packing continues at the start of
// the next addressed block.

func (store *Store) readChildren(dentry *tree.Dentry, inode *tree.Inode) error {
	count := int(inode.DirCount)
	if count > store.superblock.EntriesPerDir() {
		return fmt.Errorf(
			"`%d` entries exceed directory capacity `%d`: %w",
			count,
			store.superblock.EntriesPerDir(),
			InvalidArgumentErr,
		)
	}

	perBlock := store.superblock.EntriesPerBlock()
	buf := make([]byte, store.superblock.BlockSize())
	children := make([]*tree.Dentry, 0, count)
	for i := 0; i < count; i++ {
		slot := i % perBlock
		if slot == 0 {
			b := inode.Blocks[i/perBlock]
			if err := store.volume.ReadAt(
				store.superblock.BlockAt(b),
				buf,
			); err != nil {
				return fmt.Errorf("reading entries from block `%d`: %w", b, err)
			}
		}

		child := &tree.Dentry{Parent: dentry}
		start := Byte(slot) * encode.DirEntrySize
		if err := encode.DecodeDirEntry(
			&child.DirEntry,
			(*[encode.DirEntrySize]byte)(buf[start:]),
		); err != nil {
			return fmt.Errorf("reading entry `%d`: %w", i, err)
		}
		children = append(children, child)
	}
	inode.Children = children
	return nil
}

func (store *Store) checkChildren(inode *tree.Inode) error {
	if len(inode.Children) != int(inode.DirCount) {
		return fmt.Errorf(
			"directory has `%d` entries but a count of `%d`: %w",
			len(inode.Children),
			inode.DirCount,
			InvalidArgumentErr,
		)
	}
	if len(inode.Children) > store.superblock.EntriesPerDir() {
		return fmt.Errorf(
			"`%d` entries exceed directory capacity `%d`: %w",
			len(inode.Children),
			store.superblock.EntriesPerDir(),
			NoSpaceErr,
		)
	}
	return nil
}

func (store *Store) writeChildren(inode *tree.Inode) error {
	perBlock := store.superblock.EntriesPerBlock()
	buf := make([]byte, store.superblock.BlockSize())
	for i, b := range inode.Blocks {
		clear(buf)
		for slot := 0; slot < perBlock; slot++ {
			n := i*perBlock + slot
			if n >= len(inode.Children) {
				break
			}
			start := Byte(slot) * encode.DirEntrySize
			if err := encode.EncodeDirEntry(
				&inode.Children[n].DirEntry,
				(*[encode.DirEntrySize]byte)(buf[start:]),
			); err != nil {
				return fmt.Errorf("writing entry `%d`: %w", n, err)
			}
		}
		if err := store.volume.WriteAt(
			store.superblock.BlockAt(b),
			buf,
		); err != nil {
			return fmt.Errorf("writing entries to block `%d`: %w", b, err)
		}
	}
	return nil
}
