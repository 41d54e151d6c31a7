package directory

import (
	"fmt"
	"strings"

	. "github.com/weberc2/newfs/pkg/types"
)

// Remove deletes the entry at `p`. Non-empty directories are only removed
// when `recursive` is set.
func Remove(fs *FileSystem, p string, recursive bool) error {
	d, err := Resolve(fs, p)
	if err != nil {
		return fmt.Errorf("removing: %w", err)
	}
	if d == fs.Root() {
		return fmt.Errorf("removing `%s`: %w", p, InvalidArgumentErr)
	}
	if d.Inode.IsDir() && len(d.Inode.Children) > 0 && !recursive {
		return fmt.Errorf("removing `%s`: %w", p, DirNotEmptyErr)
	}

	// the entry stays linked until its subtree is released so that a failed
	// drop leaves whatever remains reachable
	parent := d.Parent.Inode
	if err := fs.DropInode(d.Inode); err != nil {
		return fmt.Errorf("removing `%s`: %w", p, err)
	}
	if _, err := fs.DropChild(parent, d); err != nil {
		return fmt.Errorf("removing `%s`: %w", p, err)
	}
	fs.Logger.Debug("removed entry", "path", p, "ino", d.Ino)
	return nil
}

// Rename moves the entry at `src` to `dst`. `dst` must not exist and its
// parent must be a directory outside of `src`.
func Rename(fs *FileSystem, src, dst string) error {
	d, err := Resolve(fs, src)
	if err != nil {
		return fmt.Errorf("renaming: %w", err)
	}
	if d == fs.Root() {
		return fmt.Errorf("renaming `%s`: %w", src, InvalidArgumentErr)
	}

	parent, name, err := lookupParent(fs, dst)
	if err != nil {
		return fmt.Errorf("renaming `%s` to `%s`: %w", src, dst, err)
	}
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("renaming `%s` to `%s`: %w", src, dst, err)
	}
	if parent.Inode.Child(name) != nil {
		return fmt.Errorf("renaming `%s` to `%s`: %w", src, dst, ExistsErr)
	}
	if parentPath := parent.Path(); parentPath == d.Path() ||
		strings.HasPrefix(parentPath, d.Path()+"/") {
		return fmt.Errorf(
			"renaming `%s` into its own subtree `%s`: %w",
			src,
			dst,
			InvalidArgumentErr,
		)
	}

	oldParent, oldName := d.Parent, d.Name
	if _, err := fs.DropChild(oldParent.Inode, d); err != nil {
		return fmt.Errorf("renaming `%s` to `%s`: %w", src, dst, err)
	}
	d.Name = name
	if _, err := fs.AllocChild(parent.Inode, d); err != nil {
		d.Name = oldName
		if _, restoreErr := fs.AllocChild(oldParent.Inode, d); restoreErr != nil {
			return fmt.Errorf(
				"renaming `%s` to `%s`: %w (restoring: %v)",
				src,
				dst,
				err,
				restoreErr,
			)
		}
		return fmt.Errorf("renaming `%s` to `%s`: %w", src, dst, err)
	}
	return nil
}
