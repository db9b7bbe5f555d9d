package conf

import "fmt"

// MkfsConfig collects what the command line asks for.
type MkfsConfig struct {
	ConfPath string          `json:"conf_path"`
	Storages []StorageConfig `json:"storages"`
}

// NewMkfsConfig builds the target list: the positional device with an
// optional size string, then every target of the storage.config file at
// confPath when it is set.
func NewMkfsConfig(device, sizeStr, confPath string) (*MkfsConfig, error) {
	mc := &MkfsConfig{
		ConfPath: confPath,
		Storages: []StorageConfig{},
	}

	if device != "" {
		sc := StorageConfig{Path: device}
		if sizeStr != "" {
			size, err := ParseSize(sizeStr)
			if err != nil {
				return nil, err
			}
			sc.Size = size
			sc.SizeStr = sizeStr
		}
		mc.Storages = append(mc.Storages, sc)
	} else if sizeStr != "" {
		return nil, fmt.Errorf("size %s given without a device", sizeStr)
	}

	if confPath != "" {
		storages, err := LoadStorage(confPath)
		if err != nil {
			return nil, fmt.Errorf("load config failed: %w", err)
		}
		mc.Storages = append(mc.Storages, storages...)
	}
	return mc, nil
}

func (mc *MkfsConfig) Dump() string {
	var ret string
	ret = "----Current mkfs config----\n"
	ret += "Disk Info: \n"
	for i, s := range mc.Storages {
		ret += fmt.Sprintf("\tID:%d:\t%s\n", i, s)
	}
	if mc.ConfPath != "" {
		ret += fmt.Sprintf("Config: %s\n", mc.ConfPath)
	}
	return ret
}
