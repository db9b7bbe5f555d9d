package disklayout

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// ClearFirstBits clears the k lowest bits of words, bit 0 being the least
// significant bit of words[0]. It stops at the end of words and returns the
// number of bits it cleared.
func ClearFirstBits(words []uint64, k uint64) uint64 {
	var cleared uint64
	for i := range words {
		if k == 0 {
			break
		}
		if k >= WordBits {
			words[i] = 0
			k -= WordBits
			cleared += WordBits
			continue
		}
		words[i] &^= (uint64(1) << k) - 1
		cleared += k
		k = 0
	}
	return cleared
}

// Bitmap is one block of a free bitmap: 64-bit words, bit set means free.
type Bitmap struct {
	Words [WordsPerBlock]uint64
}

// NewBitmap returns a block with every bit free.
func NewBitmap() *Bitmap {
	bm := &Bitmap{}
	bm.Fill()
	return bm
}

func (bm *Bitmap) Fill() {
	for i := range bm.Words {
		bm.Words[i] = ^uint64(0)
	}
}

// ClearFirst marks the k lowest bits of the block used, at most BitsPerBlock.
func (bm *Bitmap) ClearFirst(k uint64) uint64 {
	return ClearFirstBits(bm.Words[:], k)
}

func (bm *Bitmap) IsFree(bit uint32) bool {
	return bm.Words[bit/WordBits]&(uint64(1)<<(bit%WordBits)) != 0
}

func (bm *Bitmap) CountFree() int {
	n := 0
	for _, w := range bm.Words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (bm *Bitmap) CountUsed() int {
	return BitsPerBlock - bm.CountFree()
}

// Bytes encodes the words little-endian.
func (bm *Bitmap) Bytes() []byte {
	b := make([]byte, BlockSize)
	for i, w := range bm.Words {
		binary.LittleEndian.PutUint64(b[i*8:], w)
	}
	return b
}

func LoadBitmap(buffer []byte) (*Bitmap, error) {
	if len(buffer) < BlockSize {
		return nil, fmt.Errorf("%w: bitmap needs %d bytes, got %d", ErrShortBuffer, BlockSize, len(buffer))
	}
	bm := &Bitmap{}
	for i := range bm.Words {
		bm.Words[i] = binary.LittleEndian.Uint64(buffer[i*8:])
	}
	return bm, nil
}

// FreeBitmap is a bitmap region of NrBlocks blocks whose NrUsed lowest bits
// are in use and all others free.
type FreeBitmap struct {
	Name     string `json:"name"`
	NrBlocks uint32 `json:"nr_blocks"`
	NrUsed   uint64 `json:"nr_used"`
}

func NewFreeBitmap(name string, nrBlocks uint32, nrUsed uint64) (*FreeBitmap, error) {
	if capacity := uint64(nrBlocks) * BitsPerBlock; nrUsed > capacity {
		return nil, fmt.Errorf("%s: %d used bits exceed %d blocks", name, nrUsed, nrBlocks)
	}
	return &FreeBitmap{Name: name, NrBlocks: nrBlocks, NrUsed: nrUsed}, nil
}

// InodeFreeBitmap reserves the root inode and inode 1.
func InodeFreeBitmap(lo *Layout) (*FreeBitmap, error) {
	return NewFreeBitmap("ifree", lo.NrIfreeBlocks, ReservedIno+1)
}

// BlockFreeBitmap marks the superblock, the inode store, both bitmaps and the
// root directory block used.
func BlockFreeBitmap(lo *Layout) (*FreeBitmap, error) {
	return NewFreeBitmap("bfree", lo.NrBfreeBlocks, uint64(lo.NrUsedBlocks()))
}

// Block builds the i-th block of the region.
func (fb *FreeBitmap) Block(i uint32) *Bitmap {
	bm := NewBitmap()
	start := uint64(i) * BitsPerBlock
	if fb.NrUsed > start {
		bm.ClearFirst(fb.NrUsed - start)
	}
	return bm
}
