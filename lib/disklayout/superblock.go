package disklayout

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/golang/glog"
	"github.com/zhuangsirui/binpacker"
)

// Superblock lives in block 0. Every field is little-endian on disk and the
// rest of the block is zero padding.
type Superblock struct {
	Magic          uint32 `json:"magic"`
	NrBlocks       uint32 `json:"nr_blocks"`        // incl. superblock and metadata
	NrInodes       uint32 `json:"nr_inodes"`        // incl. reserved slots
	NrIstoreBlocks uint32 `json:"nr_istore_blocks"` // inode store blocks
	NrIfreeBlocks  uint32 `json:"nr_ifree_blocks"`  // free inodes bitmap blocks
	NrBfreeBlocks  uint32 `json:"nr_bfree_blocks"`  // free blocks bitmap blocks
	NrFreeInodes   uint32 `json:"nr_free_inodes"`
	NrFreeBlocks   uint32 `json:"nr_free_blocks"`
}

func NewSuperblock(lo *Layout) *Superblock {
	return &Superblock{
		Magic:          Magic,
		NrBlocks:       lo.NrBlocks,
		NrInodes:       lo.NrInodes,
		NrIstoreBlocks: lo.NrIstoreBlocks,
		NrIfreeBlocks:  lo.NrIfreeBlocks,
		NrBfreeBlocks:  lo.NrBfreeBlocks,
		NrFreeInodes:   lo.NrFreeInodes(),
		NrFreeBlocks:   lo.NrFreeBlocks(),
	}
}

// Pack serializes the superblock into exactly one block.
func (sb *Superblock) Pack() ([]byte, error) {
	buffer := bytes.NewBuffer(make([]byte, 0, BlockSize))
	packer := binpacker.NewPacker(binary.LittleEndian, buffer)

	packer.PushUint32(sb.Magic).PushUint32(sb.NrBlocks).PushUint32(sb.NrInodes).
		PushUint32(sb.NrIstoreBlocks).PushUint32(sb.NrIfreeBlocks).PushUint32(sb.NrBfreeBlocks).
		PushUint32(sb.NrFreeInodes).PushUint32(sb.NrFreeBlocks).
		PushBytes(make([]byte, PaddingLen))
	if err := packer.Error(); err != nil {
		return nil, fmt.Errorf("pack superblock: %w", err)
	}

	b := buffer.Bytes()
	if len(b) != BlockSize {
		return nil, fmt.Errorf("superblock length error: %d", len(b))
	}
	glog.V(4).Infof("Superblock <Offset 0>: \n %s\n", hex.Dump(b[:SuperblockLen]))
	return b, nil
}

// LoadSuperblock decodes the fixed fields of a superblock buffer.
func LoadSuperblock(buffer []byte) (*Superblock, error) {
	if len(buffer) < SuperblockLen {
		return nil, fmt.Errorf("%w: superblock needs %d bytes, got %d", ErrShortBuffer, SuperblockLen, len(buffer))
	}

	sb := &Superblock{}
	unpacker := binpacker.NewUnpacker(binary.LittleEndian, bytes.NewReader(buffer[:SuperblockLen]))
	unpacker.FetchUint32(&sb.Magic).FetchUint32(&sb.NrBlocks).FetchUint32(&sb.NrInodes).
		FetchUint32(&sb.NrIstoreBlocks).FetchUint32(&sb.NrIfreeBlocks).FetchUint32(&sb.NrBfreeBlocks).
		FetchUint32(&sb.NrFreeInodes).FetchUint32(&sb.NrFreeBlocks)
	if err := unpacker.Error(); err != nil {
		return nil, fmt.Errorf("unpack superblock: %w", err)
	}
	if sb.Magic != Magic {
		return nil, fmt.Errorf("%w: %#x", ErrBadMagic, sb.Magic)
	}
	meta := 1 + uint64(sb.NrIstoreBlocks) + uint64(sb.NrIfreeBlocks) + uint64(sb.NrBfreeBlocks)
	if uint64(sb.NrBlocks) <= meta {
		return nil, fmt.Errorf("%w: %d blocks, %d metadata blocks", ErrBadSuperblock, sb.NrBlocks, meta)
	}
	return sb, nil
}

// Layout rebuilds the layout the superblock was generated from. The
// superblock must come from NewSuperblock or LoadSuperblock.
func (sb *Superblock) Layout() *Layout {
	return &Layout{
		DeviceSize:     int64(sb.NrBlocks) * BlockSize,
		NrBlocks:       sb.NrBlocks,
		NrInodes:       sb.NrInodes,
		NrIstoreBlocks: sb.NrIstoreBlocks,
		NrIfreeBlocks:  sb.NrIfreeBlocks,
		NrBfreeBlocks:  sb.NrBfreeBlocks,
		NrDataBlocks:   sb.NrBlocks - 1 - sb.NrIstoreBlocks - sb.NrIfreeBlocks - sb.NrBfreeBlocks,
	}
}

func (sb *Superblock) Dump() string {
	return fmt.Sprintf("Superblock: (%d)\n"+
		"\tmagic=%#x\n"+
		"\tnr_blocks=%d\n"+
		"\tnr_inodes=%d (istore=%d blocks)\n"+
		"\tnr_ifree_blocks=%d\n"+
		"\tnr_bfree_blocks=%d\n"+
		"\tnr_free_inodes=%d\n"+
		"\tnr_free_blocks=%d\n",
		BlockSize,
		sb.Magic, sb.NrBlocks, sb.NrInodes, sb.NrIstoreBlocks,
		sb.NrIfreeBlocks, sb.NrBfreeBlocks, sb.NrFreeInodes,
		sb.NrFreeBlocks)
}
