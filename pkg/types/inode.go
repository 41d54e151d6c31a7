package types

import (
	"encoding/json"
	"fmt"
)

type Ino uint64

const (
	InoRoot           Ino    = 0
	InodeCountDefault uint64 = 512

	// ModeDefault is the permission mode reported for every file. There is
	// no ownership or permission model.
	ModeDefault uint32 = 0o777
)

// Inode is the persisted portion of an inode.
type Inode struct {
	Ino      Ino
	FileType FileType
	Size     Byte
	DirCount uint32
	Blocks   [BlocksPerFile]Block
}

type FileType uint8

const (
	FileTypeInvalid FileType = iota
	FileTypeRegular
	FileTypeDir
)

func (ft FileType) String() string {
	switch ft {
	case FileTypeInvalid:
		return "Invalid"
	case FileTypeRegular:
		return "Regular"
	case FileTypeDir:
		return "Dir"
	default:
		panic(fmt.Sprintf("invalid file type: `%d`", ft))
	}
}

func (ft FileType) MarshalJSON() ([]byte, error) {
	return json.Marshal(ft.String())
}

func (ft FileType) MarshalYAML() (interface{}, error) {
	return ft.String(), nil
}

func (ft FileType) Validate() error {
	if ft <= FileTypeInvalid || ft > FileTypeDir {
		return fmt.Errorf(
			"validating file type `%d`: %w",
			ft,
			InvalidFileTypeErr,
		)
	}
	return nil
}

const (
	InvalidFileTypeErr ConstError = "invalid file type"
)
