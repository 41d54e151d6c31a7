package filesystem

import (
	"fmt"
	"strings"

	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

// Resolution is the outcome of a lookup. When `Found` is false, `Dentry` is
// the deepest entry that was resolved: the directory lacking the next
// component, or a regular file with components left over. `IsRoot` is set
// only when the path itself names the root; a miss directly below the root
// resolves to the root entry with `IsRoot` false.
type Resolution struct {
	Dentry *tree.Dentry
	Found  bool
	IsRoot bool
}

// Lookup walks `path` from the root, loading inodes as it goes. Names must
// match exactly. The returned entry's inode is always loaded.
func (fs *FileSystem) Lookup(path string) (Resolution, error) {
	if err := fs.checkMounted(); err != nil {
		return Resolution{}, fmt.Errorf("looking up path `%s`: %w", path, err)
	}
	if !strings.HasPrefix(path, "/") {
		return Resolution{}, fmt.Errorf(
			"looking up path `%s`: %w",
			path,
			NotAbsolutePathErr,
		)
	}

	current := fs.root
	components := SplitPath(path)
	for _, component := range components {
		inode, err := fs.LoadInode(current)
		if err != nil {
			return Resolution{}, fmt.Errorf("looking up path `%s`: %w", path, err)
		}
		if !inode.IsDir() {
			fs.Logger.Debug(
				"lookup stopped at regular file",
				"path", path,
				"at", current.Path(),
			)
			return fs.resolve(path, current, false, false)
		}
		child := inode.Child(component)
		if child == nil {
			fs.Logger.Debug(
				"lookup miss",
				"path", path,
				"at", current.Path(),
				"component", component,
			)
			return fs.resolve(path, current, false, false)
		}
		current = child
	}
	return fs.resolve(path, current, true, len(components) == 0)
}

func (fs *FileSystem) resolve(
	path string,
	d *tree.Dentry,
	found bool,
	isRoot bool,
) (Resolution, error) {
	if _, err := fs.LoadInode(d); err != nil {
		return Resolution{}, fmt.Errorf("looking up path `%s`: %w", path, err)
	}
	return Resolution{Dentry: d, Found: found, IsRoot: isRoot}, nil
}

// LoadInode returns the inode named by `d`, reading it from disk if it isn't
// loaded yet.
func (fs *FileSystem) LoadInode(d *tree.Dentry) (*tree.Inode, error) {
	if d.Inode != nil {
		return d.Inode, nil
	}
	inode, err := fs.store.ReadInode(d)
	if err != nil {
		return nil, err
	}
	return inode, nil
}

// SplitPath returns the non-empty components of `path`.
func SplitPath(path string) []string {
	var components []string
	for _, component := range strings.Split(path, "/") {
		if component != "" {
			components = append(components, component)
		}
	}
	return components
}
