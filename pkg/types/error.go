package types

type ConstError string

func (err ConstError) Error() string { return string(err) }

const (
	IOErr              ConstError = "input/output error"
	NoSpaceErr         ConstError = "no space left on device"
	NotFoundErr        ConstError = "no such file or directory"
	InvalidArgumentErr ConstError = "invalid argument"
	NotADirErr         ConstError = "not a directory"
	NameTooLongErr     ConstError = "file name too long"
	InvalidNameErr     ConstError = "invalid file name"
	ExistsErr          ConstError = "file exists"
	DirNotEmptyErr     ConstError = "directory not empty"
	NotAbsolutePathErr ConstError = "not an absolute path"
	NotMountedErr      ConstError = "file system not mounted"
	FileTooLargeErr    ConstError = "file too large"
)
