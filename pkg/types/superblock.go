package types

// Magic marks an initialized device. Anything else in the superblock's
// first word means the device is virgin.
const Magic uint32 = 200110132

// Superblock is the persisted portion of the superblock. Offsets are in
// bytes from the start of the device and are block-aligned.
type Superblock struct {
	Magic          uint32 `json:"magic" yaml:"magic"`
	Usage          Byte   `json:"usage" yaml:"usage"`
	InodeMapBlocks Block  `json:"inodeMapBlocks" yaml:"inodeMapBlocks"`
	InodeMapOffset Byte   `json:"inodeMapOffset" yaml:"inodeMapOffset"`
	DataMapBlocks  Block  `json:"dataMapBlocks" yaml:"dataMapBlocks"`
	DataMapOffset  Byte   `json:"dataMapOffset" yaml:"dataMapOffset"`
	InodeOffset    Byte   `json:"inodeOffset" yaml:"inodeOffset"`
	DataOffset     Byte   `json:"dataOffset" yaml:"dataOffset"`
	InodeCount     uint64 `json:"inodeCount" yaml:"inodeCount"`
	DataBlockCount uint64 `json:"dataBlockCount" yaml:"dataBlockCount"`
}
