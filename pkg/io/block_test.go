package io

import (
	"bytes"
	"errors"
	"testing"

	"github.com/weberc2/newfs/pkg/device"
	"github.com/weberc2/newfs/pkg/testsupport"
	. "github.com/weberc2/newfs/pkg/types"
)

func TestBlockVolumeWritePreservesSurroundingBytes(t *testing.T) {
	mem := device.NewMemory(8192, 512)
	for i := range mem.Bytes() {
		mem.Bytes()[i] = 0xee
	}
	driver := &testsupport.FaultyDriver{Driver: mem, FailAfter: -1}
	volume := NewBlockVolume(driver, 1024)

	if err := volume.WriteAt(1500, []byte("hello")); err != nil {
		t.Fatalf("BlockVolume.WriteAt(): unexpected err: %v", err)
	}

	for _, size := range driver.Transfers {
		if size != 512 {
			t.Fatalf("BlockVolume.WriteAt(): wanted only `512` byte transfers; found `%d`", size)
		}
	}

	// one block read (2 units) plus one block written (2 units)
	if len(driver.Transfers) != 4 {
		t.Fatalf("BlockVolume.WriteAt(): wanted `4` transfers; found `%d`", len(driver.Transfers))
	}

	data := mem.Bytes()
	if string(data[1500:1505]) != "hello" {
		t.Fatalf("BlockVolume.WriteAt(): wanted `hello`; found `%s`", data[1500:1505])
	}
	if data[1499] != 0xee || data[1505] != 0xee || data[1024] != 0xee || data[2047] != 0xee {
		t.Fatal("BlockVolume.WriteAt(): clobbered surrounding bytes")
	}
}

func TestBlockVolumeAlignedWriteSkipsRead(t *testing.T) {
	mem := device.NewMemory(8192, 512)
	driver := &testsupport.FaultyDriver{Driver: mem, FailAfter: -1}
	volume := NewBlockVolume(driver, 1024)

	block := bytes.Repeat([]byte{7}, 2048)
	if err := volume.WriteAt(2048, block); err != nil {
		t.Fatalf("BlockVolume.WriteAt(): unexpected err: %v", err)
	}
	if len(driver.Transfers) != 4 {
		t.Fatalf("BlockVolume.WriteAt(): wanted `4` transfers; found `%d`", len(driver.Transfers))
	}

	found := make([]byte, 10)
	if err := volume.ReadAt(4090, found); err != nil {
		t.Fatalf("BlockVolume.ReadAt(): unexpected err: %v", err)
	}
	wanted := []byte{7, 7, 7, 7, 7, 7, 0, 0, 0, 0}
	if !bytes.Equal(found, wanted) {
		t.Fatalf("BlockVolume.ReadAt(): wanted `%v`; found `%v`", wanted, found)
	}
}

func TestBlockVolumeIOErr(t *testing.T) {
	driver := &testsupport.FaultyDriver{
		Driver:    device.NewMemory(8192, 512),
		FailAfter: 1,
	}
	volume := NewBlockVolume(driver, 1024)
	err := volume.ReadAt(0, make([]byte, 1024))
	if !errors.Is(err, IOErr) {
		t.Fatalf("BlockVolume.ReadAt(): wanted `%v`; found `%v`", IOErr, err)
	}
	if !errors.Is(err, testsupport.InjectedErr) {
		t.Fatalf("BlockVolume.ReadAt(): wanted `%v`; found `%v`", testsupport.InjectedErr, err)
	}
}

func TestOffsetVolume(t *testing.T) {
	mem := device.NewMemory(8192, 512)
	volume := NewOffsetVolume(NewBlockVolume(mem, 1024), 3072)
	if err := volume.WriteAt(10, []byte("x")); err != nil {
		t.Fatalf("OffsetVolume.WriteAt(): unexpected err: %v", err)
	}
	if found := mem.Bytes()[3082]; found != 'x' {
		t.Fatalf("OffsetVolume.WriteAt(): wanted `x`; found `%c`", found)
	}
}
