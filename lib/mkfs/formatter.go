package mkfs

import (
	"fmt"
	"io"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/golang/glog"
	"github.com/weiwei99/wichfs/lib/disk"
	"github.com/weiwei99/wichfs/lib/disklayout"
)

// Formatter writes the superblock, the inode store and both free bitmaps
// of a fresh filesystem, in that order, without seeking.
type Formatter struct {
	// Out receives the human readable summary, nil discards it.
	Out io.Writer
}

func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{Out: out}
}

// Plan checks that a device of deviceSize bytes can hold the filesystem and
// computes its layout. Nothing is written.
func Plan(deviceSize int64) (*disklayout.Layout, error) {
	if err := disklayout.CheckDeviceSize(deviceSize); err != nil {
		return nil, err
	}
	lo, err := disklayout.NewLayout(deviceSize)
	if err != nil {
		return nil, err
	}
	if lo.WastedBytes() != 0 {
		glog.Warningf("device size %d is not a multiple of %d, %d bytes unused",
			deviceSize, disklayout.BlockSize, lo.WastedBytes())
	}
	return lo, nil
}

// Format plans the layout of a device of deviceSize bytes and writes the
// metadata regions to w, starting at w's current position. On a precondition
// failure nothing is written; a write error aborts the run and leaves the
// target partially formatted.
func (f *Formatter) Format(w io.Writer, deviceSize int64) (*disklayout.Layout, error) {
	lo, err := Plan(deviceSize)
	if err != nil {
		return nil, err
	}

	q := queue.New(int64(len(stages)))
	defer q.Dispose()
	for _, st := range stages {
		if err := q.Put(st); err != nil {
			return nil, err
		}
	}

	dio, ok := w.(*disk.DiskWriter)
	if !ok {
		dio = disk.NewDiskWriter("stream", w)
	}
	base := dio.Offset()

	regions := lo.Regions()
	for !q.Empty() {
		items, err := q.Get(1)
		if err != nil {
			return lo, err
		}
		st := items[0].(*stage)
		region := regions[st.region]

		if dio.Offset()-base != region.Offset {
			return lo, fmt.Errorf("%s: stream at %d, region starts at %d", st.name, dio.Offset()-base, region.Offset)
		}
		glog.V(2).Infof("%s: %s", st.name, region)

		if err := st.run(f, dio, lo); err != nil {
			return lo, fmt.Errorf("%s: %w", st.name, err)
		}
		if end := region.Offset + region.Size; dio.Offset()-base != end {
			return lo, fmt.Errorf("%s: wrote up to %d, region ends at %d", st.name, dio.Offset()-base, end)
		}
	}

	glog.V(2).Infof("format done: %d metadata bytes, %d data blocks", dio.Offset()-base, lo.NrDataBlocks)
	return lo, nil
}

func (f *Formatter) printf(format string, args ...interface{}) {
	if f.Out == nil {
		return
	}
	fmt.Fprintf(f.Out, format, args...)
}
