package disklayout

import (
	"errors"
	"strings"
	"testing"
)

func TestNewLayoutMinimumDevice(t *testing.T) {
	lo, err := NewLayout(100 * BlockSize)
	if err != nil {
		t.Fatal(err)
	}

	want := Layout{
		DeviceSize:     100 * BlockSize,
		NrBlocks:       100,
		NrInodes:       102,
		NrIstoreBlocks: 1,
		NrIfreeBlocks:  1,
		NrBfreeBlocks:  1,
		NrDataBlocks:   96,
	}
	if *lo != want {
		t.Errorf("NewLayout(100 blocks) = %+v; want %+v", *lo, want)
	}
	if lo.NrFreeInodes() != 101 {
		t.Errorf("NrFreeInodes() = %d; want 101", lo.NrFreeInodes())
	}
	if lo.NrFreeBlocks() != 95 {
		t.Errorf("NrFreeBlocks() = %d; want 95", lo.NrFreeBlocks())
	}
	if lo.FirstDataBlock() != 4 {
		t.Errorf("FirstDataBlock() = %d; want 4", lo.FirstDataBlock())
	}
	if lo.NrUsedBlocks() != 5 {
		t.Errorf("NrUsedBlocks() = %d; want 5", lo.NrUsedBlocks())
	}
}

func TestNewLayoutInvariants(t *testing.T) {
	sizes := []int64{
		100 * BlockSize,
		101 * BlockSize,
		102 * BlockSize,
		103 * BlockSize,
		1 << 20,
		10 << 20,
		(BitsPerBlock - 1) * BlockSize,
		BitsPerBlock * BlockSize,
		(BitsPerBlock + 1) * BlockSize,
		1 << 30,
		3<<30 + 5*BlockSize,
		16 << 30,
		1 << 40,
	}

	for _, size := range sizes {
		lo, err := NewLayout(size)
		if err != nil {
			t.Errorf("NewLayout(%d) error: %v", size, err)
			continue
		}
		sum := uint64(1) + uint64(lo.NrIstoreBlocks) + uint64(lo.NrIfreeBlocks) +
			uint64(lo.NrBfreeBlocks) + uint64(lo.NrDataBlocks)
		if sum != uint64(lo.NrBlocks) {
			t.Errorf("size %d: regions sum to %d, nr_blocks %d", size, sum, lo.NrBlocks)
		}
		if lo.NrDataBlocks < 1 {
			t.Errorf("size %d: no data block", size)
		}
		if uint64(lo.NrIstoreBlocks)*InodesPerBlock < uint64(lo.NrInodes) {
			t.Errorf("size %d: %d istore blocks cannot hold %d inodes", size, lo.NrIstoreBlocks, lo.NrInodes)
		}
		if lo.NrInodes < lo.NrBlocks {
			t.Errorf("size %d: %d inodes < %d blocks", size, lo.NrInodes, lo.NrBlocks)
		}
		if lo.NrInodes%InodesPerBlock != 0 {
			t.Errorf("size %d: %d inodes not a multiple of %d", size, lo.NrInodes, InodesPerBlock)
		}
		if uint64(lo.NrIfreeBlocks)*BitsPerBlock < uint64(lo.NrInodes) {
			t.Errorf("size %d: ifree bitmap too small", size)
		}
		if uint64(lo.NrBfreeBlocks)*BitsPerBlock < uint64(lo.NrBlocks) {
			t.Errorf("size %d: bfree bitmap too small", size)
		}
		if lo.FirstDataBlock() != 1+lo.NrBfreeBlocks+lo.NrIfreeBlocks+lo.NrIstoreBlocks {
			t.Errorf("size %d: first data block %d", size, lo.FirstDataBlock())
		}
	}
}

func TestNewLayoutBitmapBoundaries(t *testing.T) {
	tests := []struct {
		blocks     int64
		bfree      uint32
		istore     uint32
		totalInode uint32
	}{
		{BitsPerBlock, 1, 322, 32844},
		{BitsPerBlock + 1, 2, 322, 32844},
		{2 * BitsPerBlock, 2, 643, 65586},
	}

	for _, test := range tests {
		lo, err := NewLayout(test.blocks * BlockSize)
		if err != nil {
			t.Fatal(err)
		}
		if lo.NrBfreeBlocks != test.bfree || lo.NrIstoreBlocks != test.istore || lo.NrInodes != test.totalInode {
			t.Errorf("blocks %d: bfree=%d istore=%d inodes=%d; want %d %d %d", test.blocks,
				lo.NrBfreeBlocks, lo.NrIstoreBlocks, lo.NrInodes, test.bfree, test.istore, test.totalInode)
		}
		if lo.NrIfreeBlocks != uint32(DivCeil(uint64(lo.NrInodes), BitsPerBlock)) {
			t.Errorf("blocks %d: ifree=%d", test.blocks, lo.NrIfreeBlocks)
		}
	}
}

func TestNewLayoutWastesTail(t *testing.T) {
	lo, err := NewLayout(200*BlockSize + 1234)
	if err != nil {
		t.Fatal(err)
	}
	if lo.NrBlocks != 200 {
		t.Errorf("NrBlocks = %d; want 200", lo.NrBlocks)
	}
	if lo.WastedBytes() != 1234 {
		t.Errorf("WastedBytes() = %d; want 1234", lo.WastedBytes())
	}
}

func TestNewLayoutErrors(t *testing.T) {
	tests := []struct {
		size int64
		want error
	}{
		{0, ErrZeroBlocks},
		{BlockSize - 1, ErrZeroBlocks},
		{BlockSize, ErrNoDataBlocks},
		{4 * BlockSize, ErrNoDataBlocks},
		{(1 << 32) * BlockSize, ErrTooManyBlocks},
		{((1 << 32) - 1) * BlockSize, ErrTooManyBlocks},
	}

	for _, test := range tests {
		_, err := NewLayout(test.size)
		if !errors.Is(err, test.want) {
			t.Errorf("NewLayout(%d) error = %v; want %v", test.size, err, test.want)
		}
	}

	if _, err := NewLayout(5 * BlockSize); err != nil {
		t.Errorf("NewLayout(5 blocks) error: %v", err)
	}
}

func TestCheckDeviceSize(t *testing.T) {
	if err := CheckDeviceSize(MinDeviceSize); err != nil {
		t.Errorf("CheckDeviceSize(min) = %v; want nil", err)
	}
	for _, size := range []int64{0, 1, MinDeviceSize - 1, 99 * BlockSize} {
		if err := CheckDeviceSize(size); !errors.Is(err, ErrDeviceTooSmall) {
			t.Errorf("CheckDeviceSize(%d) = %v; want ErrDeviceTooSmall", size, err)
		}
	}
}

func TestRegions(t *testing.T) {
	lo, err := NewLayout(1 << 30)
	if err != nil {
		t.Fatal(err)
	}
	regions := lo.Regions()
	if len(regions) != 5 {
		t.Fatalf("got %d regions; want 5", len(regions))
	}

	next := uint32(0)
	for _, r := range regions {
		if r.StartBlock != next {
			t.Errorf("%s starts at %d; want %d", r.Name, r.StartBlock, next)
		}
		if r.Offset != int64(r.StartBlock)*BlockSize || r.Size != int64(r.Blocks)*BlockSize {
			t.Errorf("%s: bad byte range %+v", r.Name, *r.DataPos)
		}
		next = r.EndBlock()
	}
	if next != lo.NrBlocks {
		t.Errorf("regions end at %d; want %d", next, lo.NrBlocks)
	}
	if regions[4].StartBlock != lo.FirstDataBlock() {
		t.Errorf("data region starts at %d; want %d", regions[4].StartBlock, lo.FirstDataBlock())
	}
	if lo.MetadataBytes() != regions[4].Offset {
		t.Errorf("MetadataBytes() = %d; want %d", lo.MetadataBytes(), regions[4].Offset)
	}
}

func TestLayoutDump(t *testing.T) {
	lo, err := NewLayout(100*BlockSize + 10)
	if err != nil {
		t.Fatal(err)
	}
	dump := lo.Dump()
	for _, want := range []string{
		"100 blocks",
		"(10 bytes wasted)",
		"superblock   blocks [0, 1)",
		"data         blocks [4, 100)",
		"free inodes=101, free blocks=95",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("Dump() misses %q:\n%s", want, dump)
		}
	}
}

func TestDivCeil(t *testing.T) {
	tests := []struct {
		a, b, want uint64
	}{
		{0, 102, 0},
		{1, 102, 1},
		{102, 102, 1},
		{103, 102, 2},
		{32768, 32768, 1},
		{32769, 32768, 2},
	}

	for _, test := range tests {
		if got := DivCeil(test.a, test.b); got != test.want {
			t.Errorf("DivCeil(%d, %d) = %d; want %d", test.a, test.b, got, test.want)
		}
	}
}
