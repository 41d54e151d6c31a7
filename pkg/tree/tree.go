package tree

import (
	"fmt"
	"path"

	"github.com/weberc2/newfs/pkg/types"
)

// Dentry names an inode. `Parent` is a back-reference used for navigation
// only; the parent inode's `Children` owns the entry. `Inode` is nil until
// the inode is loaded and is never evicted afterwards.
type Dentry struct {
	types.DirEntry
	Parent *Dentry
	Inode  *Inode
}

// Inode is a loaded inode. Regular files cache the content of every addressed
// block in `Data`; directories own their entries in `Children`, most recently
// added first. `Dentry` is a back-reference to the entry naming the inode.
type Inode struct {
	types.Inode
	Data     [types.BlocksPerFile][]byte
	Children []*Dentry
	Dentry   *Dentry
}

func NewDentry(name string, fileType types.FileType) (*Dentry, error) {
	if err := types.ValidateName(name); err != nil {
		return nil, fmt.Errorf("creating directory entry: %w", err)
	}
	if err := fileType.Validate(); err != nil {
		return nil, fmt.Errorf("creating directory entry `%s`: %w", name, err)
	}
	return &Dentry{DirEntry: types.DirEntry{Name: name, FileType: fileType}}, nil
}

// NewRoot returns the entry for the root directory. Its inode is unloaded.
func NewRoot() *Dentry {
	return &Dentry{DirEntry: types.DirEntry{
		Name:     "/",
		Ino:      types.InoRoot,
		FileType: types.FileTypeDir,
	}}
}

func (d *Dentry) IsRoot() bool { return d.Parent == nil }

func (d *Dentry) Loaded() bool { return d.Inode != nil }

// Path returns the absolute path of the entry.
func (d *Dentry) Path() string {
	if d.IsRoot() {
		return "/"
	}
	return path.Join(d.Parent.Path(), d.Name)
}

// Attach links a loaded inode with the entry that names it.
func (d *Dentry) Attach(inode *Inode) {
	d.Inode = inode
	inode.Dentry = d
}

func (inode *Inode) IsDir() bool { return inode.FileType == types.FileTypeDir }

// Child returns the child entry with exactly the name `name`, or nil.
func (inode *Inode) Child(name string) *Dentry {
	for _, child := range inode.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// AllocChild adds `d` to the front of `parent`'s children and returns the
// new child count.
func AllocChild(parent *Inode, d *Dentry) (int, error) {
	if !parent.IsDir() {
		return 0, fmt.Errorf(
			"adding `%s` to inode `%d`: %w",
			d.Name,
			parent.Ino,
			types.NotADirErr,
		)
	}
	if parent.Child(d.Name) != nil {
		return 0, fmt.Errorf(
			"adding `%s` to inode `%d`: %w",
			d.Name,
			parent.Ino,
			types.ExistsErr,
		)
	}
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[1:], parent.Children)
	parent.Children[0] = d
	parent.DirCount++
	d.Parent = parent.Dentry
	return int(parent.DirCount), nil
}

// DropChild removes `d` from `parent`'s children by identity and returns the
// new child count.
func DropChild(parent *Inode, d *Dentry) (int, error) {
	for i, child := range parent.Children {
		if child == d {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			parent.DirCount--
			return int(parent.DirCount), nil
		}
	}
	return 0, fmt.Errorf(
		"removing `%s` from inode `%d`: %w",
		d.Name,
		parent.Ino,
		types.NotFoundErr,
	)
}
