package store

import (
	"testing"

	"github.com/weberc2/newfs/pkg/alloc"
	"github.com/weberc2/newfs/pkg/device"
	"github.com/weberc2/newfs/pkg/io"
)

func TestVolumeBitmapStoreRoundTrip(t *testing.T) {
	mem := device.NewMemory(8192, 512)
	for i := range mem.Bytes() {
		mem.Bytes()[i] = 0xff
	}
	store := NewVolumeBitmapStore(
		io.NewOffsetVolume(io.NewBlockVolume(mem, 1024), 1024),
		1024,
	)

	bitmap := alloc.New(100)
	for i := 0; i < 13; i++ {
		bitmap.Alloc()
	}
	if err := store.Put(bitmap); err != nil {
		t.Fatalf("VolumeBitmapStore.Put(): unexpected err: %v", err)
	}

	// the rest of the region is zeroed, the neighbors are not touched
	region := mem.Bytes()[1024:2048]
	if region[0] != 0xff || region[1] != 0x1f || region[2] != 0 || region[1023] != 0 {
		t.Fatalf("VolumeBitmapStore.Put(): unexpected region contents `%v`", region[:4])
	}
	if mem.Bytes()[1023] != 0xff || mem.Bytes()[2048] != 0xff {
		t.Fatal("VolumeBitmapStore.Put(): clobbered neighboring blocks")
	}

	found, err := store.Get(100)
	if err != nil {
		t.Fatalf("VolumeBitmapStore.Get(): unexpected err: %v", err)
	}
	if found.Count() != 13 {
		t.Fatalf("VolumeBitmapStore.Get(): wanted `13` set bits; found `%d`", found.Count())
	}
	if next, _ := found.Alloc(); next != 13 {
		t.Fatalf("Bitmap.Alloc(): wanted `13`; found `%d`", next)
	}
}
