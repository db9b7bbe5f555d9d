package disk

import (
	"fmt"
	"os"

	"github.com/golang/glog"
)

type SpanType int

const (
	SpanFile SpanType = iota
	SpanBlockDevice
	SpanUnknown
)

func (t SpanType) String() string {
	switch t {
	case SpanFile:
		return "file"
	case SpanBlockDevice:
		return "block device"
	}
	return "unknown"
}

// Span is a format target: a regular image file or a block device.
type Span struct {
	Path     string    `json:"path"`
	Type     SpanType  `json:"type"`
	Size     int64     `json:"size"` // bytes available to the filesystem
	Geometry *Geometry `json:"geometry,omitempty"`
	Created  bool      `json:"created"`
}

// NewSpan resolves path and its length. A size > 0 asks for a regular file
// of exactly size bytes: it is created when missing and resized otherwise.
// Block devices always use the size reported by the kernel.
func NewSpan(path string, size int64) (*Span, error) {
	sp := &Span{
		Path: path,
		Type: SpanUnknown,
	}

	fi, err := os.Stat(path)
	if os.IsNotExist(err) && size > 0 {
		return sp, sp.createImage(size)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to stat '%s': %w", path, err)
	}

	mode := fi.Mode()
	switch {
	case mode.IsRegular():
		sp.Type = SpanFile
		sp.Size = fi.Size()
		if size > 0 && size != sp.Size {
			if size < sp.Size {
				glog.Warningf("shrinking %s from %d to %d bytes", path, sp.Size, size)
			}
			if err := os.Truncate(path, size); err != nil {
				return nil, fmt.Errorf("resize '%s': %w", path, err)
			}
			sp.Size = size
		}

	case mode&os.ModeDevice != 0 && mode&os.ModeCharDevice == 0:
		geo, err := GetGeometry(path)
		if err != nil {
			return nil, err
		}
		if size > 0 {
			glog.Warningf("%s is a block device, ignoring size %d", path, size)
		}
		sp.Type = SpanBlockDevice
		sp.Geometry = geo
		sp.Size = geo.TotalSZ

	case mode.IsDir():
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedDevice, path)

	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedDevice, path, mode.String())
	}

	glog.V(2).Infof("span '%s': type=%s size=%d", sp.Path, sp.Type, sp.Size)
	return sp, nil
}

func (sp *Span) createImage(size int64) error {
	f, err := os.OpenFile(sp.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create image '%s': %w", sp.Path, err)
	}
	defer f.Close()

	if err := f.Truncate(size); err != nil {
		return fmt.Errorf("create image '%s': %w", sp.Path, err)
	}
	sp.Type = SpanFile
	sp.Size = size
	sp.Created = true
	glog.V(2).Infof("span '%s': created image of %d bytes", sp.Path, size)
	return nil
}

func (sp *Span) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", sp.Path, sp.Type, sp.Size)
}
