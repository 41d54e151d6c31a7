package device

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	. "github.com/weberc2/newfs/pkg/types"
)

func blockDeviceGeometry(file *os.File) (Byte, Byte, error) {
	fd := int(file.Fd())
	size, err := unix.IoctlGetInt(fd, unix.BLKGETSIZE64)
	if err != nil {
		return 0, 0, fmt.Errorf("querying block device size: %w", err)
	}
	ioUnit, err := unix.IoctlGetInt(fd, unix.BLKSSZGET)
	if err != nil {
		return 0, 0, fmt.Errorf("querying block device sector size: %w", err)
	}
	return Byte(size), Byte(ioUnit), nil
}
