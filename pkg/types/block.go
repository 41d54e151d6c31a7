package types

type Block uint64

const (
	// BlocksPerFile is the number of data blocks addressed by every inode.
	// Blocks are allocated eagerly when the inode is allocated and files
	// never grow beyond them.
	BlocksPerFile = 4

	DataBlockCountDefault uint64 = 2048
)
