package directory

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/weberc2/newfs/pkg/device"
	"github.com/weberc2/newfs/pkg/filesystem"
	"github.com/weberc2/newfs/pkg/layout"
	"github.com/weberc2/newfs/pkg/testsupport"
	"github.com/weberc2/newfs/pkg/tree"
	. "github.com/weberc2/newfs/pkg/types"
)

func newFileSystem(t *testing.T) (*FileSystem, *device.Memory) {
	mem := device.NewMemory(256*1024, 512)
	fs, err := filesystem.Mount(mem, filesystem.Options{
		Params: layout.Params{InodeCount: 16, DataBlockCount: 128},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("filesystem.Mount(): unexpected err: %v", err)
	}
	return fs, mem
}

func mustAdd(t *testing.T, fs *FileSystem, p string, fileType FileType) {
	if _, err := Add(fs, p, fileType); err != nil {
		t.Fatalf("Add(`%s`): unexpected err: %v", p, err)
	}
}

func listing(t *testing.T, fs *FileSystem, p string) string {
	entries, err := ReadDir(fs, p)
	if err != nil {
		t.Fatalf("ReadDir(`%s`): unexpected err: %v", p, err)
	}
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	return strings.Join(names, ",")
}

func TestAdd(t *testing.T) {
	fs, _ := newFileSystem(t)
	mustAdd(t, fs, "/a", FileTypeDir)
	mustAdd(t, fs, "/a/b", FileTypeDir)
	mustAdd(t, fs, "/a/f", FileTypeRegular)

	for _, testCase := range []struct {
		path   string
		wanted error
	}{
		{"/a", ExistsErr},
		{"/missing/x", NotFoundErr},
		{"/a/f/x", NotADirErr},
		{"/", InvalidArgumentErr},
		{"relative", NotAbsolutePathErr},
		{"/" + strings.Repeat("n", NameMax+1), NameTooLongErr},
	} {
		if _, err := Add(fs, testCase.path, FileTypeDir); !errors.Is(err, testCase.wanted) {
			t.Fatalf(
				"Add(`%s`): wanted `%v`; found `%v`",
				testCase.path,
				testCase.wanted,
				err,
			)
		}
	}

	if found := listing(t, fs, "/a"); found != "f,b" {
		t.Fatalf("ReadDir(`/a`): wanted `f,b`; found `%s`", found)
	}
	if _, err := ReadDir(fs, "/a/f"); !errors.Is(err, NotADirErr) {
		t.Fatalf("ReadDir(`/a/f`): wanted `%v`; found `%v`", NotADirErr, err)
	}
}

func TestAddFullDirectoryKeepsInode(t *testing.T) {
	fs, _ := newFileSystem(t)
	capacity := fs.Superblock().EntriesPerDir()
	for i := 0; i < capacity; i++ {
		d, _ := tree.NewDentry(string(rune('A'+i)), FileTypeRegular)
		if _, err := fs.AllocChild(fs.Root().Inode, d); err != nil {
			t.Fatalf("FileSystem.AllocChild(): unexpected err: %v", err)
		}
	}
	used := fs.Stats().InodesUsed
	if _, err := Mkdir(fs, "/overflow"); !errors.Is(err, NoSpaceErr) {
		t.Fatalf("Mkdir(): wanted `%v`; found `%v`", NoSpaceErr, err)
	}
	if found := fs.Stats().InodesUsed; found != used {
		t.Fatalf("Mkdir(): wanted `%d` inodes used; found `%d`", used, found)
	}
}

func TestAddOutOfInodesUnlinks(t *testing.T) {
	fs, _ := newFileSystem(t)
	for i := 1; i < 16; i++ {
		d, _ := tree.NewDentry("x", FileTypeRegular)
		if _, err := fs.AllocInode(d); err != nil {
			t.Fatalf("FileSystem.AllocInode(): unexpected err: %v", err)
		}
	}
	if _, err := Mkdir(fs, "/a"); !errors.Is(err, NoSpaceErr) {
		t.Fatalf("Mkdir(): wanted `%v`; found `%v`", NoSpaceErr, err)
	}
	if found := listing(t, fs, "/"); found != "" {
		t.Fatalf("ReadDir(`/`): wanted no entries; found `%s`", found)
	}
}

func TestRemove(t *testing.T) {
	fs, _ := newFileSystem(t)
	mustAdd(t, fs, "/a", FileTypeDir)
	mustAdd(t, fs, "/a/b", FileTypeDir)
	mustAdd(t, fs, "/a/b/f", FileTypeRegular)
	mustAdd(t, fs, "/g", FileTypeRegular)

	if err := Remove(fs, "/a", false); !errors.Is(err, DirNotEmptyErr) {
		t.Fatalf("Remove(`/a`): wanted `%v`; found `%v`", DirNotEmptyErr, err)
	}
	if err := Remove(fs, "/", true); !errors.Is(err, InvalidArgumentErr) {
		t.Fatalf("Remove(`/`): wanted `%v`; found `%v`", InvalidArgumentErr, err)
	}
	if err := Remove(fs, "/nope", false); !errors.Is(err, NotFoundErr) {
		t.Fatalf("Remove(`/nope`): wanted `%v`; found `%v`", NotFoundErr, err)
	}
	if err := Remove(fs, "/g", false); err != nil {
		t.Fatalf("Remove(`/g`): unexpected err: %v", err)
	}
	if err := Remove(fs, "/a", true); err != nil {
		t.Fatalf("Remove(`/a`): unexpected err: %v", err)
	}
	if found := listing(t, fs, "/"); found != "" {
		t.Fatalf("ReadDir(`/`): wanted no entries; found `%s`", found)
	}
	if found := fs.Stats().InodesUsed; found != 1 {
		t.Fatalf("Remove(): wanted `1` inode used; found `%d`", found)
	}
}

func TestRename(t *testing.T) {
	fs, mem := newFileSystem(t)
	mustAdd(t, fs, "/a", FileTypeDir)
	mustAdd(t, fs, "/a/f", FileTypeRegular)
	mustAdd(t, fs, "/b", FileTypeDir)

	for _, testCase := range []struct {
		src    string
		dst    string
		wanted error
	}{
		{"/a", "/a/inside", InvalidArgumentErr},
		{"/a/f", "/b", ExistsErr},
		{"/", "/c", InvalidArgumentErr},
		{"/nope", "/c", NotFoundErr},
	} {
		if err := Rename(fs, testCase.src, testCase.dst); !errors.Is(err, testCase.wanted) {
			t.Fatalf(
				"Rename(`%s`, `%s`): wanted `%v`; found `%v`",
				testCase.src,
				testCase.dst,
				testCase.wanted,
				err,
			)
		}
	}

	if err := Rename(fs, "/a/f", "/b/g"); err != nil {
		t.Fatalf("Rename(): unexpected err: %v", err)
	}
	if err := fs.Unmount(); err != nil {
		t.Fatalf("FileSystem.Unmount(): unexpected err: %v", err)
	}

	fs, err := filesystem.Mount(
		device.NewMemoryFrom(mem.Bytes(), 512),
		filesystem.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
	)
	if err != nil {
		t.Fatalf("filesystem.Mount(): unexpected err: %v", err)
	}
	if found := listing(t, fs, "/a"); found != "" {
		t.Fatalf("ReadDir(`/a`): wanted no entries; found `%s`", found)
	}
	if found := listing(t, fs, "/b"); found != "g" {
		t.Fatalf("ReadDir(`/b`): wanted `g`; found `%s`", found)
	}
}

func TestWalk(t *testing.T) {
	fs, _ := newFileSystem(t)
	mustAdd(t, fs, "/a", FileTypeDir)
	mustAdd(t, fs, "/a/f", FileTypeRegular)
	mustAdd(t, fs, "/b", FileTypeRegular)

	var visited []string
	if err := Walk(fs, fs.Root(), func(d *tree.Dentry, depth int) error {
		visited = append(visited, strings.Repeat(" ", depth)+d.Path())
		return nil
	}); err != nil {
		t.Fatalf("Walk(): unexpected err: %v", err)
	}
	wanted := "/| /b| /a|  /a/f"
	if found := strings.Join(visited, "|"); found != wanted {
		t.Fatalf("Walk(): wanted `%s`; found `%s`", wanted, found)
	}
}

func TestRemoveFailureKeepsEntryLinked(t *testing.T) {
	fs, mem := newFileSystem(t)
	mustAdd(t, fs, "/a", FileTypeDir)
	mustAdd(t, fs, "/a/b", FileTypeDir)
	if err := fs.Unmount(); err != nil {
		t.Fatalf("FileSystem.Unmount(): unexpected err: %v", err)
	}

	driver := &testsupport.FaultyDriver{
		Driver:    device.NewMemoryFrom(mem.Bytes(), 512),
		FailAfter: -1,
	}
	fs, err := filesystem.Mount(driver, filesystem.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("filesystem.Mount(): unexpected err: %v", err)
	}
	a, err := Resolve(fs, "/a")
	if err != nil {
		t.Fatalf("Resolve(): unexpected err: %v", err)
	}

	// loading `/a/b` is the next transfer
	driver.FailAfter = len(driver.Transfers)
	if err := Remove(fs, "/a", true); !errors.Is(err, IOErr) {
		t.Fatalf("Remove(): wanted `%v`; found `%v`", IOErr, err)
	}
	driver.FailAfter = -1

	if fs.Root().Inode.Child("a") != a {
		t.Fatal("Remove(): unlinked `/a` after a failed drop")
	}
	if !fs.InodeMap().IsSet(uint64(a.Ino)) {
		t.Fatalf("Remove(): freed inode `%d` after a failed drop", a.Ino)
	}

	if err := Remove(fs, "/a", true); err != nil {
		t.Fatalf("Remove(): unexpected err: %v", err)
	}
	if fs.Root().Inode.Child("a") != nil {
		t.Fatal("Remove(): `/a` still linked")
	}
	if found := fs.Stats().InodesUsed; found != 1 {
		t.Fatalf("FileSystem.Stats().InodesUsed: wanted `1`; found `%d`", found)
	}
}
