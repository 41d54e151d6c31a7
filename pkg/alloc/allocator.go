package alloc

type Allocator interface {
	Alloc() (uint64, bool)
	AllocN(n int) ([]uint64, bool)
	Reserve(uint64)
	Free(uint64)
	IsSet(uint64) bool
}

var _ Allocator = (*Bitmap)(nil)

type BitmapStore interface {
	Put(*Bitmap) error
}
