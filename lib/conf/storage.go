package conf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// StorageConfig is one format target.
type StorageConfig struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"` // 0 keeps the current size of the target
	SizeStr string `json:"size_str"`
}

func (sc StorageConfig) String() string {
	if sc.Size == 0 {
		return sc.Path
	}
	return fmt.Sprintf("%s %s", sc.Path, sc.SizeStr)
}

// ParseSize parses a byte count with an optional K, M, G or T suffix
// (powers of 1024), e.g. "125M".
func ParseSize(s string) (int64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("empty size")
	}

	shift := uint(0)
	num := s
	switch s[len(s)-1] {
	case 'K', 'k':
		shift = 10
	case 'M', 'm':
		shift = 20
	case 'G', 'g':
		shift = 30
	case 'T', 't':
		shift = 40
	}
	if shift > 0 {
		num = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad size '%s', example: 125M", s)
	}
	if n > (1<<63-1)>>shift {
		return 0, fmt.Errorf("size '%s' overflows", s)
	}
	return n << shift, nil
}

// LoadStorage reads a storage.config file: one "path [size]" per line.
// Malformed lines are logged and skipped.
func LoadStorage(filename string) ([]StorageConfig, error) {
	cr, err := NewConfigReader(filename)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	storages := make([]StorageConfig, 0)
	for {
		b, err := cr.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		if len(b) == 0 {
			continue
		}

		words := strings.Fields(b)
		if len(words) > 2 {
			glog.Warningf("%s:%d: expected 'path [size]', got '%s'", filename, cr.Line(), b)
			continue
		}
		ins := StorageConfig{
			Path: words[0],
		}
		if len(words) == 2 {
			size, err := ParseSize(words[1])
			if err != nil {
				glog.Warningf("%s:%d: %s", filename, cr.Line(), err)
				continue
			}
			ins.Size = size
			ins.SizeStr = words[1]
		}
		storages = append(storages, ins)
	}
	return storages, nil
}
