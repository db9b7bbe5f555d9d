package disk

import (
	"fmt"
	"io"
	"os"
	"time"
)

// DiskWriter writes sequentially to a target and keeps I/O statistics.
type DiskWriter struct {
	Path             string    `json:"path"`
	File             *os.File  `json:"-"`
	Writer           io.Writer `json:"-"`
	StatWriteBytes   uint64    `json:"stat_write_bytes"`
	StatWriteCalls   uint64    `json:"stat_write_calls"`
	StatCostTimeNano int64     `json:"stat_cost_time_nano"`
	StatIoSpeed      float64   `json:"stat_io_speed"`
}

// NewDiskWriter wraps any writer.
func NewDiskWriter(path string, w io.Writer) *DiskWriter {
	dio := &DiskWriter{
		Path:   path,
		Writer: w,
	}
	// avoid a division by zero in DumpStat
	dio.StatCostTimeNano = 1
	return dio
}

// OpenDiskWriter opens the span for writing from offset 0. The target must
// already exist; nothing is truncated.
func OpenDiskWriter(sp *Span) (*DiskWriter, error) {
	file, err := os.OpenFile(sp.Path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open '%s' failed: %w", sp.Path, err)
	}
	dio := NewDiskWriter(sp.Path, file)
	dio.File = file
	return dio, nil
}

func (dio *DiskWriter) Write(p []byte) (int, error) {
	start := time.Now().UnixNano()
	n, err := dio.Writer.Write(p)
	dio.StatCostTimeNano += time.Now().UnixNano() - start
	dio.StatWriteBytes += uint64(n)
	dio.StatWriteCalls++
	if err != nil {
		return n, fmt.Errorf("write '%s' at %d: %w", dio.Path, dio.StatWriteBytes-uint64(n), err)
	}
	if n != len(p) {
		return n, fmt.Errorf("write '%s' at %d: %w", dio.Path, dio.StatWriteBytes-uint64(n), io.ErrShortWrite)
	}
	return n, nil
}

// Offset is the position of the next write.
func (dio *DiskWriter) Offset() int64 {
	return int64(dio.StatWriteBytes)
}

func (dio *DiskWriter) Sync() error {
	if dio.File == nil {
		return nil
	}
	return dio.File.Sync()
}

func (dio *DiskWriter) Close() error {
	if dio.File == nil {
		return nil
	}
	err := dio.File.Close()
	dio.File = nil
	return err
}

func (dio *DiskWriter) DumpStat() string {
	dio.StatIoSpeed = float64(dio.StatWriteBytes) / 1024 / 1024 / (float64(dio.StatCostTimeNano) / 1000 / 1000 / 1000)

	dumpStr := fmt.Sprintf("DIO info: %s\n"+
		"        Write Bytes:     %d byte\n"+
		"        Write Calls:     %d\n"+
		"        CostTime:        %.6f sec\n"+
		"        IoSpeed:         %f MB/s\n",
		dio.Path,
		dio.StatWriteBytes,
		dio.StatWriteCalls,
		float64(dio.StatCostTimeNano)/1000/1000/1000,
		dio.StatIoSpeed)

	return dumpStr
}
