package disklayout

const (
	BlockShift = 12
	BlockSize  = 1 << BlockShift // 4096

	SuperblockBlockNr = 0

	// "WICH" read as a little-endian uint32
	Magic uint32 = 0x48434957

	MagicString = "WICH"

	MaxFileSize = 1 << 22 // 4 MiB
	FilenameLen = 28
	MaxSubfiles = 128

	SuperblockLen  = 4 * 8 // magic + 7 counters
	PaddingLen     = BlockSize - SuperblockLen
	InodeLen       = 4 * 10
	InodesPerBlock = BlockSize / InodeLen // 102

	WordBits      = 64
	WordsPerBlock = BlockSize / 8
	BitsPerBlock  = BlockSize * 8

	// smallest device accepted by the formatter
	MinBlocks     = 100
	MinDeviceSize = MinBlocks * BlockSize
)

func RoundToBlock(size int64) int64 {
	return Align(size, BlockSize)
}

func Align(size, boundary int64) int64 {
	return ((size) + ((boundary) - 1)) & ^((boundary) - 1)
}

// DivCeil returns ceil(a/b).
func DivCeil(a, b uint64) uint64 {
	ret := a / b
	if a%b != 0 {
		return ret + 1
	}
	return ret
}

// RoundUp rounds n up to the next multiple of m.
func RoundUp(n, m uint64) uint64 {
	return DivCeil(n, m) * m
}
