package directory

import (
	"fmt"
	"path"
	"strings"

	"github.com/weberc2/newfs/pkg/filesystem"
	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

type FileSystem = filesystem.FileSystem

// Add creates an entry of type `fileType` at `p`. The parent directory must
// exist and must not already have a child with the same name.
func Add(fs *FileSystem, p string, fileType FileType) (*tree.Dentry, error) {
	parent, name, err := lookupParent(fs, p)
	if err != nil {
		return nil, fmt.Errorf("adding `%s`: %w", p, err)
	}
	if parent.Inode.Child(name) != nil {
		return nil, fmt.Errorf("adding `%s`: %w", p, ExistsErr)
	}

	d, err := tree.NewDentry(name, fileType)
	if err != nil {
		return nil, fmt.Errorf("adding `%s`: %w", p, err)
	}

	// link the entry first so that a full directory doesn't cost an inode
	if _, err := fs.AllocChild(parent.Inode, d); err != nil {
		return nil, fmt.Errorf("adding `%s`: %w", p, err)
	}
	if _, err := fs.AllocInode(d); err != nil {
		if _, dropErr := fs.DropChild(parent.Inode, d); dropErr != nil {
			return nil, fmt.Errorf("adding `%s`: %w (rollback: %v)", p, err, dropErr)
		}
		return nil, fmt.Errorf("adding `%s`: %w", p, err)
	}
	fs.Logger.Debug("added entry", "path", p, "ino", d.Ino, "type", fileType.String())
	return d, nil
}

func Mkdir(fs *FileSystem, p string) (*tree.Dentry, error) {
	return Add(fs, p, FileTypeDir)
}

// lookupParent resolves the directory which contains (or would contain) `p`
// and returns it along with the final path component.
func lookupParent(fs *FileSystem, p string) (*tree.Dentry, string, error) {
	if !strings.HasPrefix(p, "/") {
		return nil, "", fmt.Errorf("resolving parent of `%s`: %w", p, NotAbsolutePathErr)
	}
	components := filesystem.SplitPath(p)
	if len(components) == 0 {
		return nil, "", fmt.Errorf("resolving parent of root: %w", InvalidArgumentErr)
	}
	parentPath := "/" + path.Join(components[:len(components)-1]...)
	resolution, err := fs.Lookup(parentPath)
	if err != nil {
		return nil, "", err
	}
	if !resolution.Found {
		return nil, "", fmt.Errorf("resolving `%s`: %w", parentPath, NotFoundErr)
	}
	if !resolution.Dentry.Inode.IsDir() {
		return nil, "", fmt.Errorf("resolving `%s`: %w", parentPath, NotADirErr)
	}
	return resolution.Dentry, components[len(components)-1], nil
}
