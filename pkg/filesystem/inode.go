package filesystem

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

// AllocInode allocates an inode and its data blocks for `d` and attaches it.
// If the data blocks can't be allocated, the inode is released again.
func (fs *FileSystem) AllocInode(d *tree.Dentry) (*tree.Inode, error) {
	if err := fs.checkMounted(); err != nil {
		return nil, fmt.Errorf("allocating inode for `%s`: %w", d.Name, err)
	}
	return fs.allocInode(d)
}

func (fs *FileSystem) allocInode(d *tree.Dentry) (*tree.Inode, error) {
	if err := d.FileType.Validate(); err != nil {
		return nil, fmt.Errorf("allocating inode for `%s`: %w", d.Name, err)
	}
	ino, err := fs.inodes.Alloc()
	if err != nil {
		return nil, fmt.Errorf("allocating inode for `%s`: %w", d.Name, err)
	}
	blocks, err := fs.blocks.AllocN(BlocksPerFile)
	if err != nil {
		fs.inodes.Free(ino)
		return nil, fmt.Errorf("allocating inode for `%s`: %w", d.Name, err)
	}

	inode := &tree.Inode{Inode: Inode{Ino: ino, FileType: d.FileType}}
	copy(inode.Blocks[:], blocks)
	if d.FileType == FileTypeRegular {
		for i := range inode.Data {
			inode.Data[i] = make([]byte, fs.superblock.BlockSize())
		}
	}
	d.Ino = ino
	d.Attach(inode)
	fs.superblock.Usage += BlocksPerFile * fs.superblock.BlockSize()
	return inode, nil
}

// SyncInode writes `inode` and its loaded descendants to disk.
func (fs *FileSystem) SyncInode(inode *tree.Inode) error {
	if err := fs.checkMounted(); err != nil {
		return fmt.Errorf("syncing inode `%d`: %w", inode.Ino, err)
	}
	return fs.store.SyncInode(inode)
}

// DropInode releases `inode`. Directories drop every descendant first,
// loading them as needed, and are left empty. The inode's bitmap bit is
// cleared and its entry is left unloaded. The data blocks addressed by
// dropped inodes stay allocated; block reclamation isn't supported. The
// root can't be dropped.
func (fs *FileSystem) DropInode(inode *tree.Inode) error {
	if err := fs.checkMounted(); err != nil {
		return fmt.Errorf("dropping inode `%d`: %w", inode.Ino, err)
	}
	if inode.Ino == InoRoot || inode.Dentry == fs.root {
		return fmt.Errorf("dropping root inode: %w", InvalidArgumentErr)
	}
	if err := fs.dropInode(inode); err != nil {
		return fmt.Errorf("dropping inode `%d`: %w", inode.Ino, err)
	}
	return nil
}

func (fs *FileSystem) dropInode(inode *tree.Inode) error {
	if inode.IsDir() {
		for len(inode.Children) > 0 {
			child := inode.Children[0]
			childInode, err := fs.LoadInode(child)
			if err != nil {
				return fmt.Errorf("dropping child `%s`: %w", child.Name, err)
			}
			if err := fs.dropInode(childInode); err != nil {
				return fmt.Errorf("dropping child `%s`: %w", child.Name, err)
			}
			if _, err := tree.DropChild(inode, child); err != nil {
				return err
			}
		}
	}
	fs.inodes.Free(inode.Ino)
	if inode.Dentry != nil {
		inode.Dentry.Inode = nil
	}
	return nil
}

// AllocChild adds `d` to the directory `parent`, failing with NoSpaceErr if
// the directory's blocks can't hold another entry.
func (fs *FileSystem) AllocChild(parent *tree.Inode, d *tree.Dentry) (int, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, fmt.Errorf("adding `%s`: %w", d.Name, err)
	}
	if len(parent.Children) >= fs.superblock.EntriesPerDir() {
		return 0, fmt.Errorf(
			"adding `%s` to inode `%d`: directory holds `%d` entries: %w",
			d.Name,
			parent.Ino,
			len(parent.Children),
			NoSpaceErr,
		)
	}
	return tree.AllocChild(parent, d)
}

func (fs *FileSystem) DropChild(parent *tree.Inode, d *tree.Dentry) (int, error) {
	if err := fs.checkMounted(); err != nil {
		return 0, fmt.Errorf("removing `%s`: %w", d.Name, err)
	}
	return tree.DropChild(parent, d)
}
