package disklayout

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/zhuangsirui/binpacker"
)

// mode bits, same values as <sys/stat.h>
const (
	S_IFMT  = 0170000
	S_IFDIR = 0040000
	S_IFREG = 0100000

	S_IRUSR = 0400
	S_IWUSR = 0200
	S_IXUSR = 0100
	S_IRGRP = 0040
	S_IWGRP = 0020
	S_IXGRP = 0010
	S_IROTH = 0004
	S_IWOTH = 0002
	S_IXOTH = 0001
)

const (
	RootIno = 0

	// never handed out, kept for compatibility with the driver
	ReservedIno = 1

	RootMode = S_IFDIR |
		S_IRUSR | S_IRGRP | S_IROTH |
		S_IWUSR | S_IWGRP |
		S_IXUSR | S_IXGRP | S_IXOTH
)

// Inode is the 40 byte on-disk inode. A zeroed slot is a free inode.
type Inode struct {
	Mode       uint32 `json:"mode"`
	Uid        uint32 `json:"uid"`
	Gid        uint32 `json:"gid"`
	Size       uint32 `json:"size"`
	Ctime      uint32 `json:"ctime"`
	Atime      uint32 `json:"atime"`
	Mtime      uint32 `json:"mtime"`
	Blocks     uint32 `json:"blocks"` // subdir count for directories
	Nlink      uint32 `json:"nlink"`
	IndexBlock uint32 `json:"index_block"` // block holding the list of data blocks
}

// NewRootInode builds inode 0. Timestamps stay 0 so that two runs over the
// same device produce the same bytes.
func NewRootInode(lo *Layout) *Inode {
	return &Inode{
		Mode:       RootMode,
		Uid:        0,
		Gid:        0,
		Size:       BlockSize,
		Blocks:     1,
		Nlink:      2,
		IndexBlock: lo.FirstDataBlock(),
	}
}

func (in *Inode) IsDir() bool {
	return in.Mode&S_IFMT == S_IFDIR
}

func (in *Inode) IsReg() bool {
	return in.Mode&S_IFMT == S_IFREG
}

func (in *Inode) Perm() uint32 {
	return in.Mode &^ S_IFMT
}

func (in *Inode) Pack() ([]byte, error) {
	buffer := bytes.NewBuffer(make([]byte, 0, InodeLen))
	packer := binpacker.NewPacker(binary.LittleEndian, buffer)
	packer.PushUint32(in.Mode).PushUint32(in.Uid).PushUint32(in.Gid).PushUint32(in.Size).
		PushUint32(in.Ctime).PushUint32(in.Atime).PushUint32(in.Mtime).
		PushUint32(in.Blocks).PushUint32(in.Nlink).PushUint32(in.IndexBlock)
	if err := packer.Error(); err != nil {
		return nil, fmt.Errorf("pack inode: %w", err)
	}
	return buffer.Bytes(), nil
}

func LoadInode(buffer []byte) (*Inode, error) {
	if len(buffer) < InodeLen {
		return nil, fmt.Errorf("%w: inode needs %d bytes, got %d", ErrShortBuffer, InodeLen, len(buffer))
	}
	in := &Inode{}
	unpacker := binpacker.NewUnpacker(binary.LittleEndian, bytes.NewReader(buffer[:InodeLen]))
	unpacker.FetchUint32(&in.Mode).FetchUint32(&in.Uid).FetchUint32(&in.Gid).FetchUint32(&in.Size).
		FetchUint32(&in.Ctime).FetchUint32(&in.Atime).FetchUint32(&in.Mtime).
		FetchUint32(&in.Blocks).FetchUint32(&in.Nlink).FetchUint32(&in.IndexBlock)
	if err := unpacker.Error(); err != nil {
		return nil, fmt.Errorf("unpack inode: %w", err)
	}
	return in, nil
}

// InodeStoreBlock returns a zeroed block with the given inodes packed from
// slot 0.
func InodeStoreBlock(inodes ...*Inode) ([]byte, error) {
	if len(inodes) > InodesPerBlock {
		return nil, fmt.Errorf("%d inodes do not fit in one block", len(inodes))
	}
	block := make([]byte, BlockSize)
	for i, in := range inodes {
		b, err := in.Pack()
		if err != nil {
			return nil, err
		}
		copy(block[i*InodeLen:], b)
	}
	return block, nil
}

func (in *Inode) Dump() string {
	return fmt.Sprintf("mode=%#o uid=%d gid=%d size=%d blocks=%d nlink=%d index_block=%d",
		in.Mode, in.Uid, in.Gid, in.Size, in.Blocks, in.Nlink, in.IndexBlock)
}
