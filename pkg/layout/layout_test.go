package layout

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/weberc2/newfs/pkg/device"
	"github.com/weberc2/newfs/pkg/io"
	"github.com/weberc2/newfs/pkg/types"
)

func TestComputeDefaults(t *testing.T) {
	geometry := Geometry{DeviceSize: 4 * 1024 * 1024, IOUnit: 512}
	found, err := Compute(geometry, DefaultParams())
	if err != nil {
		t.Fatalf("Compute(): unexpected err: %v", err)
	}

	var wanted Superblock
	wanted.Geometry = geometry
	wanted.Magic = types.Magic
	wanted.InodeCount = 512
	wanted.DataBlockCount = 2048
	wanted.InodeMapBlocks = 1
	wanted.InodeMapOffset = 1024
	wanted.DataMapBlocks = 1
	wanted.DataMapOffset = 2048
	wanted.InodeOffset = 3072
	wanted.DataOffset = 3072 + 512*1024

	if wanted != found {
		wantedData, _ := json.Marshal(&wanted)
		foundData, _ := json.Marshal(&found)
		t.Fatalf("Compute(): wanted `%s`; found `%s`", wantedData, foundData)
	}
	if found.EntriesPerBlock() != 7 {
		t.Fatalf("EntriesPerBlock(): wanted `7`; found `%d`", found.EntriesPerBlock())
	}
	if found.BlockAt(3) != wanted.DataOffset+3*1024 {
		t.Fatalf("BlockAt(3): wanted `%d`; found `%d`", wanted.DataOffset+3*1024, found.BlockAt(3))
	}
	if found.InodeAt(2) != 3072+2*1024 {
		t.Fatalf("InodeAt(2): wanted `%d`; found `%d`", 3072+2*1024, found.InodeAt(2))
	}
}

func TestComputeInvalid(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		geometry Geometry
		params   Params
	}{
		{
			name:     "device-too-small",
			geometry: Geometry{DeviceSize: 1024 * 1024, IOUnit: 512},
			params:   DefaultParams(),
		},
		{
			name:     "zero-io-unit",
			geometry: Geometry{DeviceSize: 1024 * 1024},
			params:   DefaultParams(),
		},
		{
			name:     "block-smaller-than-dir-entry",
			geometry: Geometry{DeviceSize: 1024 * 1024, IOUnit: 64},
			params:   Params{InodeCount: 8, DataBlockCount: 8},
		},
		{
			name:     "no-inodes",
			geometry: Geometry{DeviceSize: 1024 * 1024, IOUnit: 512},
			params:   Params{DataBlockCount: 8},
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Compute(testCase.geometry, testCase.params)
			if !errors.Is(err, types.InvalidArgumentErr) {
				t.Fatalf(
					"Compute(): wanted `%v`; found `%v`",
					types.InvalidArgumentErr,
					err,
				)
			}
		})
	}
}

func TestReadWrite(t *testing.T) {
	mem := device.NewMemory(256*1024, 512)
	volume := io.NewBlockVolume(mem, 1024)
	geometry := GeometryOf(mem)

	if _, initialized, err := Read(volume, geometry); err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	} else if initialized {
		t.Fatal("Read(): wanted virgin device; found initialized")
	}

	wrote, err := Compute(geometry, Params{InodeCount: 16, DataBlockCount: 128})
	if err != nil {
		t.Fatalf("Compute(): unexpected err: %v", err)
	}
	wrote.Usage = 4096
	if err := Write(volume, &wrote); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}

	read, initialized, err := Read(volume, geometry)
	if err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if !initialized {
		t.Fatal("Read(): wanted initialized device; found virgin")
	}
	if read != wrote {
		wroteData, _ := json.Marshal(&wrote)
		readData, _ := json.Marshal(&read)
		t.Fatalf("wrote superblock `%s`; read superblock `%s`", wroteData, readData)
	}
}

func TestDerivedSizesOnReturnedValue(t *testing.T) {
	compute := func() Superblock {
		sb, err := Compute(
			Geometry{DeviceSize: 4 * 1024 * 1024, IOUnit: 512},
			DefaultParams(),
		)
		if err != nil {
			t.Fatalf("Compute(): unexpected err: %v", err)
		}
		return sb
	}

	for _, testCase := range []struct {
		name   string
		wanted uint64
		found  uint64
	}{
		{"FileCapacity", 4 * 1024, uint64(compute().FileCapacity())},
		{"EntriesPerDir", 28, uint64(compute().EntriesPerDir())},
		{"InodeMapSize", 1024, uint64(compute().InodeMapSize())},
		{"DataMapSize", 1024, uint64(compute().DataMapSize())},
		{"End", 3072 + 512*1024 + 2048*1024, uint64(compute().End())},
	} {
		if testCase.wanted != testCase.found {
			t.Fatalf(
				"Superblock.%s(): wanted `%d`; found `%d`",
				testCase.name,
				testCase.wanted,
				testCase.found,
			)
		}
	}
}
