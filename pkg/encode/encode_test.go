package encode

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/weberc2/newfs/pkg/types"
)

func TestRecordSizes(t *testing.T) {
	for _, testCase := range []struct {
		name   string
		wanted Byte
		found  Byte
	}{
		{"superblock", 80, SuperblockSize},
		{"inode", 56, InodeSize},
		{"dirEntry", 144, DirEntrySize},
	} {
		if testCase.wanted != testCase.found {
			t.Fatalf(
				"%s size: wanted `%d`; found `%d`",
				testCase.name,
				testCase.wanted,
				testCase.found,
			)
		}
	}
}

func TestSuperblockEncodeDecode(t *testing.T) {
	wanted := Superblock{
		Magic:          Magic,
		Usage:          4096,
		InodeMapBlocks: 1,
		InodeMapOffset: 1024,
		DataMapBlocks:  1,
		DataMapOffset:  2048,
		InodeOffset:    3072,
		DataOffset:     527360,
		InodeCount:     512,
		DataBlockCount: 2048,
	}
	var buf [SuperblockSize]byte
	EncodeSuperblock(&wanted, &buf)
	var found Superblock
	DecodeSuperblock(&found, &buf)
	if wanted != found {
		wantedData, err := json.Marshal(&wanted)
		if err != nil {
			t.Fatalf("marshaling `wanted` Superblock: %v", err)
		}
		foundData, err := json.Marshal(&found)
		if err != nil {
			t.Fatalf("marshaling `found` Superblock: %v", err)
		}
		t.Fatalf(
			"DecodeSuperblock(): wanted `%s`; found `%s`",
			wantedData,
			foundData,
		)
	}
}

func TestInodeEncodeDecode(t *testing.T) {
	wanted := Inode{
		Ino:      37,
		FileType: FileTypeDir,
		Size:     432,
		DirCount: 3,
		Blocks:   [BlocksPerFile]Block{8, 9, 10, 11},
	}
	var buf [InodeSize]byte
	EncodeInode(&wanted, &buf)
	var found Inode
	if err := DecodeInode(&found, &buf); err != nil {
		t.Fatalf("DecodeInode(): unexpected err: %v", err)
	}
	if wanted != found {
		wantedData, _ := json.Marshal(&wanted)
		foundData, _ := json.Marshal(&found)
		t.Fatalf("DecodeInode(): wanted `%s`; found `%s`", wantedData, foundData)
	}
}

func TestDecodeInodeRejectsZeroedRecord(t *testing.T) {
	var buf [InodeSize]byte
	found := Inode{Ino: 5}
	if err := DecodeInode(&found, &buf); !errors.Is(err, InvalidFileTypeErr) {
		t.Fatalf("DecodeInode(): wanted `%v`; found `%v`", InvalidFileTypeErr, err)
	}
	if found.Ino != 5 {
		t.Fatalf("DecodeInode(): mutated inode on failure: `%d`", found.Ino)
	}
}

func TestDirEntryEncodeDecode(t *testing.T) {
	for _, wanted := range []DirEntry{
		{Name: "a", Ino: 1, FileType: FileTypeRegular},
		{Name: "some directory", Ino: 511, FileType: FileTypeDir},
		{Name: strings.Repeat("x", NameMax), Ino: 3, FileType: FileTypeRegular},
	} {
		buf := [DirEntrySize]byte{}
		for i := range buf {
			buf[i] = 0xff
		}
		if err := EncodeDirEntry(&wanted, &buf); err != nil {
			t.Fatalf("EncodeDirEntry(): unexpected err: %v", err)
		}
		var found DirEntry
		if err := DecodeDirEntry(&found, &buf); err != nil {
			t.Fatalf("DecodeDirEntry(): unexpected err: %v", err)
		}
		if wanted != found {
			t.Fatalf("DecodeDirEntry(): wanted `%+v`; found `%+v`", wanted, found)
		}
	}
}

func TestEncodeDirEntryNameTooLong(t *testing.T) {
	var buf [DirEntrySize]byte
	err := EncodeDirEntry(
		&DirEntry{Name: strings.Repeat("x", NameMax+1), FileType: FileTypeDir},
		&buf,
	)
	if !errors.Is(err, NameTooLongErr) {
		t.Fatalf("EncodeDirEntry(): wanted `%v`; found `%v`", NameTooLongErr, err)
	}
}
