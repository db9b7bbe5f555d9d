package main

import (
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/weiwei99/wichfs/lib/conf"
	"github.com/weiwei99/wichfs/lib/disk"
	"github.com/weiwei99/wichfs/lib/disklayout"
	"github.com/weiwei99/wichfs/lib/mkfs"
)

type MkfsClient struct {
	Conf      *conf.MkfsConfig   // targets
	Formatter *mkfs.Formatter    //
	Dio       []*disk.DiskWriter // one per formatted target

	initialize bool
}

func NewMkfsClient(out io.Writer) *MkfsClient {
	cli := &MkfsClient{
		Formatter:  mkfs.NewFormatter(out),
		initialize: false,
	}
	return cli
}

func (mc *MkfsClient) IsInitialize() bool {
	return mc.initialize
}

func (mc *MkfsClient) LoadConfiguration(device, sizeStr, confPath string) error {
	mc.initialize = false

	cnf, err := conf.NewMkfsConfig(device, sizeStr, confPath)
	if err != nil {
		return err
	}
	if len(cnf.Storages) == 0 {
		return fmt.Errorf("no device to format")
	}
	mc.Conf = cnf
	mc.initialize = true
	return nil
}

// Run formats every configured target in order and stops at the first
// failure.
func (mc *MkfsClient) Run() error {
	if !mc.initialize {
		return fmt.Errorf("configuration not loaded")
	}
	for _, sc := range mc.Conf.Storages {
		if _, err := mc.FormatTarget(sc); err != nil {
			return fmt.Errorf("%s: %w", sc.Path, err)
		}
	}
	return nil
}

// FormatTarget writes a fresh filesystem on one target. Size preconditions
// are checked before the target is created, resized or opened for writing.
func (mc *MkfsClient) FormatTarget(sc conf.StorageConfig) (*disklayout.Layout, error) {
	if sc.Size > 0 {
		if _, err := mkfs.Plan(sc.Size); err != nil {
			return nil, err
		}
	}

	sp, err := disk.NewSpan(sc.Path, sc.Size)
	if err != nil {
		return nil, err
	}
	if _, err := mkfs.Plan(sp.Size); err != nil {
		return nil, err
	}

	dio, err := disk.OpenDiskWriter(sp)
	if err != nil {
		return nil, err
	}
	defer dio.Close()

	lo, err := mc.Formatter.Format(dio, sp.Size)
	if err != nil {
		return nil, err
	}
	if err := dio.Sync(); err != nil {
		return nil, fmt.Errorf("sync '%s': %w", sp.Path, err)
	}
	if err := dio.Close(); err != nil {
		return nil, fmt.Errorf("close '%s': %w", sp.Path, err)
	}
	mc.Dio = append(mc.Dio, dio)

	glog.Infof("formatted %s: %d blocks, %d inodes, %d free data blocks",
		sp, lo.NrBlocks, lo.NrInodes, lo.NrFreeBlocks())
	return lo, nil
}

func (mc *MkfsClient) DumpStat() string {
	ret := ""
	for _, dio := range mc.Dio {
		ret += dio.DumpStat()
	}
	return ret
}
