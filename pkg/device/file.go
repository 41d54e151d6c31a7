package device

import (
	"errors"
	"fmt"
	"io"
	"os"

	. "github.com/weberc2/newfs/pkg/types"
)

// File is a Driver over an image file or a block device node.
type File struct {
	file   *os.File
	size   Byte
	ioUnit Byte
}

var _ Opener = OpenFile

func OpenFile(path string) (Driver, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening device `%s`: %w", path, err)
	}

	size, ioUnit, err := geometry(file)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("opening device `%s`: %w", path, err),
			file.Close(),
		)
	}
	return &File{file: file, size: size, ioUnit: ioUnit}, nil
}

// CreateFile creates (or truncates) a zero-filled image file of the given
// size.
func CreateFile(path string, size Byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image `%s`: %w", path, err)
	}
	if err := file.Truncate(int64(size)); err != nil {
		return errors.Join(
			fmt.Errorf("sizing image `%s` to `%d` bytes: %w", path, size, err),
			file.Close(),
		)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing image `%s`: %w", path, err)
	}
	return nil
}

func geometry(file *os.File) (Byte, Byte, error) {
	info, err := file.Stat()
	if err != nil {
		return 0, 0, fmt.Errorf("stat: %w", err)
	}
	if info.Mode()&os.ModeDevice != 0 {
		return blockDeviceGeometry(file)
	}
	return Byte(info.Size()), IOUnitDefault, nil
}

func (f *File) Size() Byte { return f.size }

func (f *File) IOUnit() Byte { return f.ioUnit }

func (f *File) Seek(offset Byte) error {
	if _, err := f.file.Seek(int64(offset), io.SeekStart); err != nil {
		return fmt.Errorf(
			"seeking `%s` to offset `%d`: %w",
			f.file.Name(),
			offset,
			err,
		)
	}
	return nil
}

func (f *File) Read(p []byte) error {
	if _, err := io.ReadFull(f.file, p); err != nil {
		return fmt.Errorf("reading `%d` bytes from `%s`: %w", len(p), f.file.Name(), err)
	}
	return nil
}

func (f *File) Write(p []byte) error {
	if _, err := f.file.Write(p); err != nil {
		return fmt.Errorf("writing `%d` bytes to `%s`: %w", len(p), f.file.Name(), err)
	}
	return nil
}

func (f *File) Close() error {
	if err := f.file.Sync(); err != nil {
		return errors.Join(
			fmt.Errorf("syncing `%s`: %w", f.file.Name(), err),
			f.file.Close(),
		)
	}
	return f.file.Close()
}
