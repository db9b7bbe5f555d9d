//go:build !linux

package disk

import "fmt"

func GetGeometry(path string) (*Geometry, error) {
	return nil, fmt.Errorf("%w: block devices are only sized on linux (%s)", ErrUnsupportedDevice, path)
}
