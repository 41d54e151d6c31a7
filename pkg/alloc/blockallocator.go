package alloc

import (
	"fmt"

	. "github.com/weberc2/newfs/pkg/types"
)

type BlockAllocator struct {
	Allocator
}

// AllocN allocates exactly `n` data blocks or, on failure, none at all.
func (ba BlockAllocator) AllocN(n int) ([]Block, error) {
	values, ok := ba.Allocator.AllocN(n)
	if !ok {
		return nil, fmt.Errorf("allocating `%d` data blocks: %w", n, NoSpaceErr)
	}
	blocks := make([]Block, len(values))
	for i, value := range values {
		blocks[i] = Block(value)
	}
	return blocks, nil
}

func (ba BlockAllocator) Free(b Block) {
	ba.Allocator.Free(uint64(b))
}

func (ba BlockAllocator) Reserve(b Block) {
	ba.Allocator.Reserve(uint64(b))
}

func (ba BlockAllocator) IsSet(b Block) bool {
	return ba.Allocator.IsSet(uint64(b))
}
