package disklayout

import "errors"

var (
	ErrZeroBlocks     = errors.New("device holds no full block")
	ErrDeviceTooSmall = errors.New("device is not large enough")
	ErrNoDataBlocks   = errors.New("no data block left for the root directory")
	ErrTooManyBlocks  = errors.New("block count does not fit in 32 bits")
	ErrBadMagic       = errors.New("superblock magic not match")
	ErrShortBuffer    = errors.New("buffer shorter than record")
	ErrBadSuperblock  = errors.New("superblock counts are inconsistent")
)
