package disklayout

import "fmt"

// DataPos is a region of the device, in bytes.
type DataPos struct {
	Offset int64 `json:"offset"`
	Size   int64 `json:"size"`
}

// Region is one contiguous run of blocks.
type Region struct {
	Name       string `json:"name"`
	StartBlock uint32 `json:"start_block"`
	Blocks     uint32 `json:"blocks"`
	*DataPos
}

func newRegion(name string, start, blocks uint32) *Region {
	return &Region{
		Name:       name,
		StartBlock: start,
		Blocks:     blocks,
		DataPos: &DataPos{
			Offset: int64(start) * BlockSize,
			Size:   int64(blocks) * BlockSize,
		},
	}
}

// EndBlock is the first block past the region.
func (r *Region) EndBlock() uint32 {
	return r.StartBlock + r.Blocks
}

func (r *Region) String() string {
	return fmt.Sprintf("%-12s blocks [%d, %d)  bytes [%#x, %#x)",
		r.Name, r.StartBlock, r.EndBlock(), r.Offset, r.Offset+r.Size)
}
