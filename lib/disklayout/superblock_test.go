package disklayout

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestSuperblockPack(t *testing.T) {
	lo, err := NewLayout(100 * BlockSize)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSuperblock(lo).Pack()
	if err != nil {
		t.Fatal(err)
	}

	if len(b) != BlockSize {
		t.Fatalf("superblock is %d bytes; want %d", len(b), BlockSize)
	}
	if string(b[:4]) != MagicString {
		t.Errorf("magic bytes = %q; want %q", b[:4], MagicString)
	}

	// fields in on-disk order
	want := []uint32{100, 102, 1, 1, 1, 101, 95}
	for i, v := range want {
		off := 4 + i*4
		if got := binary.LittleEndian.Uint32(b[off : off+4]); got != v {
			t.Errorf("field at offset %d = %d; want %d", off, got, v)
		}
	}
	if !bytes.Equal(b[SuperblockLen:], make([]byte, PaddingLen)) {
		t.Error("superblock padding is not zero")
	}
}

func TestSuperblockLittleEndianBytes(t *testing.T) {
	sb := &Superblock{Magic: Magic, NrBlocks: 0x01020304}
	b, err := sb.Pack()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b[4:8], []byte{0x04, 0x03, 0x02, 0x01}) {
		t.Errorf("nr_blocks bytes = % x; want 04 03 02 01", b[4:8])
	}
}

func TestSuperblockRoundTrip(t *testing.T) {
	for _, size := range []int64{100 * BlockSize, 1 << 30, 64 << 30, 5 << 40} {
		lo, err := NewLayout(size)
		if err != nil {
			t.Fatal(err)
		}
		b, err := NewSuperblock(lo).Pack()
		if err != nil {
			t.Fatal(err)
		}
		sb, err := LoadSuperblock(b)
		if err != nil {
			t.Fatal(err)
		}
		if *sb != *NewSuperblock(lo) {
			t.Errorf("size %d: decoded %+v; want %+v", size, *sb, *NewSuperblock(lo))
		}
		if got := sb.Layout(); *got != *lo {
			t.Errorf("size %d: layout round trip %+v; want %+v", size, *got, *lo)
		}
	}
}

func TestLoadSuperblockErrors(t *testing.T) {
	if _, err := LoadSuperblock(make([]byte, SuperblockLen-1)); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("short buffer error = %v; want ErrShortBuffer", err)
	}
	if _, err := LoadSuperblock(make([]byte, BlockSize)); !errors.Is(err, ErrBadMagic) {
		t.Errorf("zero block error = %v; want ErrBadMagic", err)
	}

	lo, err := NewLayout(100 * BlockSize)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		patch func(sb *Superblock)
	}{
		{"no data block", func(sb *Superblock) { sb.NrBlocks = 4 }},
		{"metadata past end", func(sb *Superblock) { sb.NrIstoreBlocks = 200 }},
		{"zero blocks", func(sb *Superblock) { sb.NrBlocks = 0 }},
		{"counts overflow", func(sb *Superblock) { sb.NrBfreeBlocks = ^uint32(0) }},
	}
	for _, test := range tests {
		sb := NewSuperblock(lo)
		test.patch(sb)
		b, err := sb.Pack()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSuperblock(b); !errors.Is(err, ErrBadSuperblock) {
			t.Errorf("%s: error = %v; want ErrBadSuperblock", test.name, err)
		}
	}
}
