package directory

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

// Resolve returns the entry at `p`, failing with NotFoundErr if it doesn't
// exist.
func Resolve(fs *FileSystem, p string) (*tree.Dentry, error) {
	resolution, err := fs.Lookup(p)
	if err != nil {
		return nil, err
	}
	if !resolution.Found {
		return nil, fmt.Errorf("resolving `%s`: %w", p, NotFoundErr)
	}
	return resolution.Dentry, nil
}

// ReadDir lists the entries of the directory at `p`, most recently added
// first.
func ReadDir(fs *FileSystem, p string) ([]DirEntry, error) {
	d, err := Resolve(fs, p)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	if !d.Inode.IsDir() {
		return nil, fmt.Errorf("reading directory `%s`: %w", p, NotADirErr)
	}
	entries := make([]DirEntry, len(d.Inode.Children))
	for i, child := range d.Inode.Children {
		entries[i] = child.DirEntry
	}
	return entries, nil
}

// Walk visits `d` and every entry below it depth-first, loading directories
// as needed. `depth` is 0 for `d`.
func Walk(
	fs *FileSystem,
	d *tree.Dentry,
	visit func(d *tree.Dentry, depth int) error,
) error {
	return walk(fs, d, 0, visit)
}

func walk(
	fs *FileSystem,
	d *tree.Dentry,
	depth int,
	visit func(*tree.Dentry, int) error,
) error {
	if err := visit(d, depth); err != nil {
		return err
	}
	if d.FileType != FileTypeDir {
		return nil
	}
	inode, err := fs.LoadInode(d)
	if err != nil {
		return fmt.Errorf("walking `%s`: %w", d.Path(), err)
	}
	for _, child := range inode.Children {
		if err := walk(fs, child, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}
