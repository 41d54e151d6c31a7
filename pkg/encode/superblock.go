package encode

import (
	. "github.com/weberc2/newfs/pkg/types"
)

func EncodeSuperblock(sb *Superblock, b *[SuperblockSize]byte) {
	p := b[:]
	putU32(p, superblockMagicStart, sb.Magic)
	putU64(p, superblockUsageStart, uint64(sb.Usage))
	putU64(p, superblockInodeMapBlocksStart, uint64(sb.InodeMapBlocks))
	putU64(p, superblockInodeMapOffsetStart, uint64(sb.InodeMapOffset))
	putU64(p, superblockDataMapBlocksStart, uint64(sb.DataMapBlocks))
	putU64(p, superblockDataMapOffsetStart, uint64(sb.DataMapOffset))
	putU64(p, superblockInodeOffsetStart, uint64(sb.InodeOffset))
	putU64(p, superblockDataOffsetStart, uint64(sb.DataOffset))
	putU64(p, superblockInodeCountStart, sb.InodeCount)
	putU64(p, superblockDataBlockCountStart, sb.DataBlockCount)
}

// DecodeSuperblock doesn't check the magic number; a mismatch means the
// device is uninitialized, which is for the caller to handle.
func DecodeSuperblock(sb *Superblock, b *[SuperblockSize]byte) {
	p := b[:]
	sb.Magic = getU32(p, superblockMagicStart)
	sb.Usage = Byte(getU64(p, superblockUsageStart))
	sb.InodeMapBlocks = Block(getU64(p, superblockInodeMapBlocksStart))
	sb.InodeMapOffset = Byte(getU64(p, superblockInodeMapOffsetStart))
	sb.DataMapBlocks = Block(getU64(p, superblockDataMapBlocksStart))
	sb.DataMapOffset = Byte(getU64(p, superblockDataMapOffsetStart))
	sb.InodeOffset = Byte(getU64(p, superblockInodeOffsetStart))
	sb.DataOffset = Byte(getU64(p, superblockDataOffsetStart))
	sb.InodeCount = getU64(p, superblockInodeCountStart)
	sb.DataBlockCount = getU64(p, superblockDataBlockCountStart)
}

const (
	superblockMagicStart = 0
	superblockMagicSize  = 8 // 4 bytes + padding
	superblockMagicEnd   = superblockMagicStart + superblockMagicSize

	superblockUsageStart = superblockMagicEnd
	superblockUsageEnd   = superblockUsageStart + 8

	superblockInodeMapBlocksStart = superblockUsageEnd
	superblockInodeMapBlocksEnd   = superblockInodeMapBlocksStart + 8

	superblockInodeMapOffsetStart = superblockInodeMapBlocksEnd
	superblockInodeMapOffsetEnd   = superblockInodeMapOffsetStart + 8

	superblockDataMapBlocksStart = superblockInodeMapOffsetEnd
	superblockDataMapBlocksEnd   = superblockDataMapBlocksStart + 8

	superblockDataMapOffsetStart = superblockDataMapBlocksEnd
	superblockDataMapOffsetEnd   = superblockDataMapOffsetStart + 8

	superblockInodeOffsetStart = superblockDataMapOffsetEnd
	superblockInodeOffsetEnd   = superblockInodeOffsetStart + 8

	superblockDataOffsetStart = superblockInodeOffsetEnd
	superblockDataOffsetEnd   = superblockDataOffsetStart + 8

	superblockInodeCountStart = superblockDataOffsetEnd
	superblockInodeCountEnd   = superblockInodeCountStart + 8

	superblockDataBlockCountStart = superblockInodeCountEnd
	superblockDataBlockCountEnd   = superblockDataBlockCountStart + 8

	SuperblockSize Byte = superblockDataBlockCountEnd
)
