package alloc

import (
	"fmt"
	"math/bits"

	"github.com/weberc2/newfs/pkg/math"
	. "github.com/weberc2/newfs/pkg/types"
)

const bitsPerByte = 8

// Bitmap is a fixed-capacity bit set. Bit `i` lives in byte `i/8` at bit
// position `i%8`, least significant bit first. Allocation scans byte-major,
// then bit-minor, from index 0; on-disk layouts depend on this order.
type Bitmap struct {
	bytes    []byte
	capacity uint64
}

func New(capacity uint64) *Bitmap {
	return &Bitmap{
		bytes:    make([]byte, math.DivRoundUp(capacity, bitsPerByte)),
		capacity: capacity,
	}
}

// Load builds a bitmap of the given capacity from a copy of the leading
// bytes of `data`.
func Load(capacity uint64, data []byte) (*Bitmap, error) {
	size := math.DivRoundUp(capacity, bitsPerByte)
	if uint64(len(data)) < size {
		return nil, fmt.Errorf(
			"loading bitmap with capacity `%d` from `%d` bytes: %w",
			capacity,
			len(data),
			InvalidArgumentErr,
		)
	}
	bm := New(capacity)
	copy(bm.bytes, data[:size])
	return bm, nil
}

func (bm *Bitmap) Capacity() uint64 { return bm.capacity }

func (bm *Bitmap) Bytes() []byte { return bm.bytes }

func (bm *Bitmap) Alloc() (uint64, bool) {
	for i, byt := range bm.bytes {
		if byt == 0xff {
			continue
		}
		bit := uint64(bits.TrailingZeros8(^byt))
		value := uint64(i)*bitsPerByte + bit
		if value >= bm.capacity {
			return 0, false
		}
		bm.bytes[i] = byt | 1<<bit
		return value, true
	}
	return 0, false
}

// AllocN allocates `n` bits in scan order. If fewer than `n` bits are free,
// nothing is allocated.
func (bm *Bitmap) AllocN(n int) ([]uint64, bool) {
	values := make([]uint64, 0, n)
	for len(values) < n {
		value, ok := bm.Alloc()
		if !ok {
			for _, v := range values {
				bm.Free(v)
			}
			return nil, false
		}
		values = append(values, value)
	}
	return values, true
}

func (bm *Bitmap) Free(value uint64) {
	bm.check(value)
	bm.bytes[value/bitsPerByte] &^= 1 << (value % bitsPerByte)
}

func (bm *Bitmap) Reserve(value uint64) {
	bm.check(value)
	bm.bytes[value/bitsPerByte] |= 1 << (value % bitsPerByte)
}

func (bm *Bitmap) IsSet(value uint64) bool {
	bm.check(value)
	return bm.bytes[value/bitsPerByte]&(1<<(value%bitsPerByte)) != 0
}

// Count returns the number of set bits.
func (bm *Bitmap) Count() uint64 {
	var count int
	for _, byt := range bm.bytes {
		count += bits.OnesCount8(byt)
	}
	return uint64(count)
}

func (bm *Bitmap) check(value uint64) {
	if value >= bm.capacity {
		panic(fmt.Sprintf(
			"bit `%d` out of range for bitmap with capacity `%d`",
			value,
			bm.capacity,
		))
	}
}
