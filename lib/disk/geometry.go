package disk

import (
	"errors"
	"fmt"
)

var ErrUnsupportedDevice = errors.New("unsupported device type")

// Geometry of a block device as reported by the kernel.
type Geometry struct {
	TotalSZ int64  `json:"total_sz"` // bytes
	BlockSZ int64  `json:"block_sz"` // logical sector size
	AlignSZ uint32 `json:"align_sz"`
}

func (geo *Geometry) String() string {
	return fmt.Sprintf("total=%d sector=%d align=%d", geo.TotalSZ, geo.BlockSZ, geo.AlignSZ)
}
