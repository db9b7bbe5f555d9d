package disklayout

import (
	"fmt"
	"math"
)

/*
wichfs partition layout

	+---------------+
	|  superblock   |  1 block
	+---------------+
	|  inode store  |  NrIstoreBlocks blocks
	+---------------+
	| ifree bitmap  |  NrIfreeBlocks blocks
	+---------------+
	| bfree bitmap  |  NrBfreeBlocks blocks
	+---------------+
	|    data       |
	|      blocks   |  rest of the blocks
	+---------------+
*/
type Layout struct {
	DeviceSize     int64  `json:"device_size"`
	NrBlocks       uint32 `json:"nr_blocks"`
	NrInodes       uint32 `json:"nr_inodes"`
	NrIstoreBlocks uint32 `json:"nr_istore_blocks"`
	NrIfreeBlocks  uint32 `json:"nr_ifree_blocks"`
	NrBfreeBlocks  uint32 `json:"nr_bfree_blocks"`
	NrDataBlocks   uint32 `json:"nr_data_blocks"`
}

// CheckDeviceSize refuses devices below MinDeviceSize.
func CheckDeviceSize(deviceSize int64) error {
	if deviceSize < MinDeviceSize {
		return fmt.Errorf("%w (size=%d, min size=%d)", ErrDeviceTooSmall, deviceSize, int64(MinDeviceSize))
	}
	return nil
}

// NewLayout computes the region sizes for a device of deviceSize bytes.
// Bytes past the last full block are not used.
func NewLayout(deviceSize int64) (*Layout, error) {
	if deviceSize < BlockSize {
		return nil, ErrZeroBlocks
	}

	nrBlocks := uint64(deviceSize) / BlockSize
	if nrBlocks > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d blocks", ErrTooManyBlocks, nrBlocks)
	}

	// one inode per block, padded to fill the last inode store block
	nrInodes := RoundUp(nrBlocks, InodesPerBlock)
	if nrInodes > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d inodes", ErrTooManyBlocks, nrInodes)
	}

	nrIstore := DivCeil(nrInodes, InodesPerBlock)
	nrIfree := DivCeil(nrInodes, BitsPerBlock)
	nrBfree := DivCeil(nrBlocks, BitsPerBlock)

	meta := 1 + nrIstore + nrIfree + nrBfree
	if nrBlocks <= meta {
		return nil, fmt.Errorf("%w: %d blocks, %d used by metadata", ErrNoDataBlocks, nrBlocks, meta)
	}

	lo := &Layout{
		DeviceSize:     deviceSize,
		NrBlocks:       uint32(nrBlocks),
		NrInodes:       uint32(nrInodes),
		NrIstoreBlocks: uint32(nrIstore),
		NrIfreeBlocks:  uint32(nrIfree),
		NrBfreeBlocks:  uint32(nrBfree),
		NrDataBlocks:   uint32(nrBlocks - meta),
	}
	return lo, nil
}

// FirstDataBlock is the block right after the bfree bitmap. The root
// directory owns it.
func (lo *Layout) FirstDataBlock() uint32 {
	return 1 + lo.NrBfreeBlocks + lo.NrIfreeBlocks + lo.NrIstoreBlocks
}

// NrUsedBlocks counts the blocks taken at format time: superblock, inode
// store, both bitmaps and the root directory block.
func (lo *Layout) NrUsedBlocks() uint32 {
	return lo.NrIstoreBlocks + lo.NrIfreeBlocks + lo.NrBfreeBlocks + 2
}

// NrFreeInodes excludes the root inode.
func (lo *Layout) NrFreeInodes() uint32 {
	return lo.NrInodes - 1
}

// NrFreeBlocks excludes the root directory block.
func (lo *Layout) NrFreeBlocks() uint32 {
	return lo.NrDataBlocks - 1
}

// MetadataBytes is the number of bytes the formatter writes.
func (lo *Layout) MetadataBytes() int64 {
	return int64(lo.FirstDataBlock()) * BlockSize
}

func (lo *Layout) WastedBytes() int64 {
	return lo.DeviceSize - int64(lo.NrBlocks)*BlockSize
}

func (lo *Layout) Regions() []*Region {
	sb := newRegion("superblock", SuperblockBlockNr, 1)
	istore := newRegion("inode store", sb.EndBlock(), lo.NrIstoreBlocks)
	ifree := newRegion("ifree bitmap", istore.EndBlock(), lo.NrIfreeBlocks)
	bfree := newRegion("bfree bitmap", ifree.EndBlock(), lo.NrBfreeBlocks)
	data := newRegion("data", bfree.EndBlock(), lo.NrDataBlocks)
	return []*Region{sb, istore, ifree, bfree, data}
}

func (lo *Layout) Dump() string {
	ret := fmt.Sprintf("Layout: device %d bytes, %d blocks of %d bytes (%d bytes wasted)\n",
		lo.DeviceSize, lo.NrBlocks, BlockSize, lo.WastedBytes())
	for _, r := range lo.Regions() {
		ret += "\t" + r.String() + "\n"
	}
	ret += fmt.Sprintf("\tinodes=%d (%d per block), free inodes=%d, free blocks=%d\n",
		lo.NrInodes, InodesPerBlock, lo.NrFreeInodes(), lo.NrFreeBlocks())
	return ret
}
