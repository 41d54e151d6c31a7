package types

import (
	"fmt"
	"strings"
)

// NameMax is the longest name, in bytes, a directory entry can hold.
const NameMax = 128

// DirEntry is the persisted portion of a directory entry. The file type is a
// copy of the referenced inode's so that listings don't need to load it.
type DirEntry struct {
	Name     string
	Ino      Ino
	FileType FileType
}

func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("validating name `%s`: %w", name, InvalidNameErr)
	}
	if len(name) > NameMax {
		return fmt.Errorf(
			"validating name `%s` (`%d` bytes): %w",
			name,
			len(name),
			NameTooLongErr,
		)
	}
	return nil
}
