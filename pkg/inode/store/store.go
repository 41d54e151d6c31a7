package store

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/encode"
	"github.com/weberc2/newfs/pkg/io"
	"github.com/weberc2/newfs/pkg/layout"
	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

// Store moves inodes between the tree and the inode table. Every sync is a
// full write of the inode and, recursively, of every loaded descendant.
type Store struct {
	volume     io.Volume
	superblock *layout.Superblock
}

func New(volume io.Volume, superblock *layout.Superblock) *Store {
	return &Store{volume: volume, superblock: superblock}
}

func (store *Store) Put(inode *Inode) error {
	if err := store.checkIno(inode.Ino); err != nil {
		return err
	}
	buf := new([encode.InodeSize]byte)
	encode.EncodeInode(inode, buf)
	offset := store.superblock.InodeAt(inode.Ino)
	if err := store.volume.WriteAt(offset, buf[:]); err != nil {
		return fmt.Errorf(
			"writing inode `%d` to volume at offset `%d`: %w",
			inode.Ino,
			offset,
			err,
		)
	}
	return nil
}

func (store *Store) Get(ino Ino, output *Inode) error {
	if err := store.checkIno(ino); err != nil {
		return err
	}
	buf := new([encode.InodeSize]byte)
	offset := store.superblock.InodeAt(ino)
	if err := store.volume.ReadAt(offset, buf[:]); err != nil {
		return fmt.Errorf(
			"reading inode `%d` from volume at offset `%d`: %w",
			ino,
			offset,
			err,
		)
	}
	if err := encode.DecodeInode(output, buf); err != nil {
		return fmt.Errorf("reading inode `%d`: %w", ino, err)
	}
	output.Ino = ino
	return nil
}

// ReadInode loads the inode named by `dentry` and attaches it. Directory
// children are loaded unattached, in the order they were synced; regular
// files have every addressed block read into memory.
func (store *Store) ReadInode(dentry *tree.Dentry) (*tree.Inode, error) {
	inode := new(tree.Inode)
	if err := store.Get(dentry.Ino, &inode.Inode); err != nil {
		return nil, fmt.Errorf("loading `%s`: %w", dentry.Name, err)
	}
	if inode.FileType != dentry.FileType {
		return nil, fmt.Errorf(
			"loading `%s`: entry has type `%s` but inode `%d` has type "+
				"`%s`: %w",
			dentry.Name,
			dentry.FileType,
			inode.Ino,
			inode.FileType,
			InvalidFileTypeErr,
		)
	}
	for _, b := range inode.Blocks {
		if err := store.checkBlock(b); err != nil {
			return nil, fmt.Errorf("loading `%s`: %w", dentry.Name, err)
		}
	}
	if capacity := store.superblock.FileCapacity(); inode.Size > capacity {
		return nil, fmt.Errorf(
			"loading `%s`: inode `%d` has size `%d` past capacity `%d`: %w",
			dentry.Name,
			inode.Ino,
			inode.Size,
			capacity,
			InvalidArgumentErr,
		)
	}

	switch inode.FileType {
	case FileTypeDir:
		if err := store.readChildren(dentry, inode); err != nil {
			return nil, fmt.Errorf("loading directory `%s`: %w", dentry.Name, err)
		}
	case FileTypeRegular:
		if err := store.readData(inode); err != nil {
			return nil, fmt.Errorf("loading file `%s`: %w", dentry.Name, err)
		}
	}

	dentry.Attach(inode)
	return inode, nil
}

// SyncInode writes the inode record and its content. For directories this
// is every child's entry followed by every loaded child, recursively.
// Unloaded children can't have changed and are skipped. A failure part way
// through leaves the rest unwritten.
func (store *Store) SyncInode(inode *tree.Inode) error {
	switch inode.FileType {
	case FileTypeDir:
		if err := store.checkChildren(inode); err != nil {
			return fmt.Errorf("syncing inode `%d`: %w", inode.Ino, err)
		}
	case FileTypeRegular:
		if err := store.checkData(inode); err != nil {
			return fmt.Errorf("syncing inode `%d`: %w", inode.Ino, err)
		}
	}

	if err := store.Put(&inode.Inode); err != nil {
		return fmt.Errorf("syncing inode `%d`: %w", inode.Ino, err)
	}

	switch inode.FileType {
	case FileTypeDir:
		if err := store.writeChildren(inode); err != nil {
			return fmt.Errorf("syncing directory inode `%d`: %w", inode.Ino, err)
		}
		for _, child := range inode.Children {
			if child.Inode == nil {
				continue
			}
			if err := store.SyncInode(child.Inode); err != nil {
				return fmt.Errorf(
					"syncing directory inode `%d`: child `%s`: %w",
					inode.Ino,
					child.Name,
					err,
				)
			}
		}
	case FileTypeRegular:
		if err := store.writeData(inode); err != nil {
			return fmt.Errorf("syncing file inode `%d`: %w", inode.Ino, err)
		}
	}
	return nil
}

func (store *Store) checkIno(ino Ino) error {
	if uint64(ino) >= store.superblock.InodeCount {
		return fmt.Errorf(
			"inode `%d` out of range for `%d` inodes: %w",
			ino,
			store.superblock.InodeCount,
			InvalidArgumentErr,
		)
	}
	return nil
}

func (store *Store) checkBlock(b Block) error {
	if uint64(b) >= store.superblock.DataBlockCount {
		return fmt.Errorf(
			"data block `%d` out of range for `%d` blocks: %w",
			b,
			store.superblock.DataBlockCount,
			InvalidArgumentErr,
		)
	}
	return nil
}
