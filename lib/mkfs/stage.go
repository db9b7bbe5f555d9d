package mkfs

import (
	"fmt"
	"io"

	"github.com/weiwei99/wichfs/lib/disklayout"
)

// blocks written per call when a block repeats
const batchBlocks = 256

// stage writes one region at the current stream offset.
type stage struct {
	name   string
	region int // index in Layout.Regions()
	run    func(f *Formatter, w io.Writer, lo *disklayout.Layout) error
}

var stages = []*stage{
	{name: "write superblock", region: 0, run: writeSuperblock},
	{name: "write inode store", region: 1, run: writeInodeStore},
	{name: "write ifree bitmap", region: 2, run: writeIfreeBlocks},
	{name: "write bfree bitmap", region: 3, run: writeBfreeBlocks},
}

func writeSuperblock(f *Formatter, w io.Writer, lo *disklayout.Layout) error {
	sb := disklayout.NewSuperblock(lo)
	b, err := sb.Pack()
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	f.printf("%s", sb.Dump())
	return nil
}

func writeInodeStore(f *Formatter, w io.Writer, lo *disklayout.Layout) error {
	root := disklayout.NewRootInode(lo)
	block, err := disklayout.InodeStoreBlock(root)
	if err != nil {
		return err
	}
	if _, err := w.Write(block); err != nil {
		return err
	}

	// the remaining slots are free inodes
	if err := writeRepeated(w, make([]byte, disklayout.BlockSize), uint64(lo.NrIstoreBlocks)-1); err != nil {
		return err
	}
	f.printf("Inode store: wrote %d blocks\n"+
		"\tinode size = %d B\n"+
		"\troot inode: %s\n",
		lo.NrIstoreBlocks, disklayout.InodeLen, root.Dump())
	return nil
}

func writeIfreeBlocks(f *Formatter, w io.Writer, lo *disklayout.Layout) error {
	fb, err := disklayout.InodeFreeBitmap(lo)
	if err != nil {
		return err
	}
	if err := writeFreeBitmap(w, fb); err != nil {
		return err
	}
	f.printf("Ifree blocks: wrote %d blocks\n", fb.NrBlocks)
	return nil
}

func writeBfreeBlocks(f *Formatter, w io.Writer, lo *disklayout.Layout) error {
	fb, err := disklayout.BlockFreeBitmap(lo)
	if err != nil {
		return err
	}
	if err := writeFreeBitmap(w, fb); err != nil {
		return err
	}
	f.printf("Bfree blocks: wrote %d blocks (%d used)\n", fb.NrBlocks, fb.NrUsed)
	return nil
}

// writeFreeBitmap writes the blocks holding used bits one by one, then the
// all-free tail in batches.
func writeFreeBitmap(w io.Writer, fb *disklayout.FreeBitmap) error {
	i := uint32(0)
	for ; i < fb.NrBlocks && uint64(i)*disklayout.BitsPerBlock < fb.NrUsed; i++ {
		if _, err := w.Write(fb.Block(i).Bytes()); err != nil {
			return fmt.Errorf("%s block %d: %w", fb.Name, i, err)
		}
	}
	return writeRepeated(w, disklayout.NewBitmap().Bytes(), uint64(fb.NrBlocks-i))
}

func writeRepeated(w io.Writer, block []byte, n uint64) error {
	if n == 0 {
		return nil
	}
	batch := uint64(batchBlocks)
	if n < batch {
		batch = n
	}
	buf := make([]byte, 0, batch*uint64(len(block)))
	for j := uint64(0); j < batch; j++ {
		buf = append(buf, block...)
	}

	for n > 0 {
		c := batch
		if n < c {
			c = n
		}
		if _, err := w.Write(buf[:c*uint64(len(block))]); err != nil {
			return err
		}
		n -= c
	}
	return nil
}
