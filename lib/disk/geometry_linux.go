package disk

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

const (
	BLKGETSIZE64 = 0x80081272
	BLKSSZGET    = 0x1268
	BLKALIGNOFF  = 0x127a
)

// GetGeometry asks the kernel for the size of the block device at path.
func GetGeometry(path string) (*Geometry, error) {
	dk, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dk.Close()

	ret := Geometry{}

	// BLKGETSIZE64 gets the block device size in bytes.
	var blksize64 uint64
	if err := ioctl(dk.Fd(), BLKGETSIZE64, uintptr(unsafe.Pointer(&blksize64))); err != nil {
		return nil, fmt.Errorf("BLKGETSIZE64: %w", err)
	}
	ret.TotalSZ = int64(blksize64)

	// BLKSSZGET gets the logical block size in bytes.
	var blksize int32
	if err := ioctl(dk.Fd(), BLKSSZGET, uintptr(unsafe.Pointer(&blksize))); err != nil {
		return nil, fmt.Errorf("BLKSSZGET: %w", err)
	}
	ret.BlockSZ = int64(blksize)

	var alignsz int32
	if err := ioctl(dk.Fd(), BLKALIGNOFF, uintptr(unsafe.Pointer(&alignsz))); err != nil {
		return nil, fmt.Errorf("BLKALIGNOFF: %w", err)
	}
	ret.AlignSZ = uint32(alignsz)

	if ret.TotalSZ == 0 || ret.BlockSZ == 0 {
		return nil, fmt.Errorf("can not get total size or block size of %s", path)
	}
	return &ret, nil
}

func ioctl(fd uintptr, request, argp uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, request, argp)
	if errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}
