package store

import (
	"fmt"

	"github.com/weberc2/newfs/pkg/alloc"
	"github.com/weberc2/newfs/pkg/io"
	. "github.com/weberc2/newfs/pkg/types"
)

var _ alloc.BitmapStore = VolumeBitmapStore{}

// VolumeBitmapStore persists a bitmap to a region of `size` bytes. The
// region is always written in full; bytes past the bitmap are zeroed.
type VolumeBitmapStore struct {
	volume io.Volume
	size   Byte
}

func NewVolumeBitmapStore(volume io.Volume, size Byte) VolumeBitmapStore {
	return VolumeBitmapStore{volume: volume, size: size}
}

func (store VolumeBitmapStore) Put(bitmap *alloc.Bitmap) error {
	if Byte(len(bitmap.Bytes())) > store.size {
		return fmt.Errorf(
			"storing bitmap of `%d` bytes in region of `%d` bytes: %w",
			len(bitmap.Bytes()),
			store.size,
			InvalidArgumentErr,
		)
	}
	buf := make([]byte, store.size)
	copy(buf, bitmap.Bytes())
	if err := store.volume.WriteAt(0, buf); err != nil {
		return fmt.Errorf("storing bitmap: %w", err)
	}
	return nil
}

func (store VolumeBitmapStore) Get(capacity uint64) (*alloc.Bitmap, error) {
	buf := make([]byte, store.size)
	if err := store.volume.ReadAt(0, buf); err != nil {
		return nil, fmt.Errorf("loading bitmap: %w", err)
	}
	bitmap, err := alloc.Load(capacity, buf)
	if err != nil {
		return nil, fmt.Errorf("loading bitmap: %w", err)
	}
	return bitmap, nil
}
