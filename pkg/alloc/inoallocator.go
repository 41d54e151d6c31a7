package alloc

import (
	"fmt"

	. "github.com/weberc2/newfs/pkg/types"
)

type InoAllocator struct {
	Allocator
}

func (ia InoAllocator) Alloc() (Ino, error) {
	if ino, ok := ia.Allocator.Alloc(); ok {
		return Ino(ino), nil
	}
	return 0, fmt.Errorf("allocating inode: %w", NoSpaceErr)
}

func (ia InoAllocator) Free(ino Ino) {
	ia.Allocator.Free(uint64(ino))
}

func (ia InoAllocator) Reserve(ino Ino) {
	ia.Allocator.Reserve(uint64(ino))
}

func (ia InoAllocator) IsSet(ino Ino) bool {
	return ia.Allocator.IsSet(uint64(ino))
}
