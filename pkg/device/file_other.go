//go:build !linux

package device

import (
	"fmt"
	"os"

	. "github.com/weberc2/newfs/pkg/types"
)

func blockDeviceGeometry(file *os.File) (Byte, Byte, error) {
	return 0, 0, fmt.Errorf(
		"querying geometry of block device `%s`: %w",
		file.Name(),
		InvalidArgumentErr,
	)
}
