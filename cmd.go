package main

import (
	"github.com/abiosoft/ishell"
	"github.com/weiwei99/wichfs/lib/conf"
	"github.com/weiwei99/wichfs/lib/disk"
	"github.com/weiwei99/wichfs/lib/mkfs"
)

var GMC *MkfsClient

// 计算布局，不写盘
var PlanCmd = &ishell.Cmd{
	Name: "plan",
	Help: "plan <size>, print the layout of a device of that size",
	Func: func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Println("must need one args")
			return
		}
		size, err := conf.ParseSize(c.Args[0])
		if err != nil {
			c.Printf("failed: %s\n", err.Error())
			return
		}
		lo, err := mkfs.Plan(size)
		if err != nil {
			c.Printf("failed: %s\n", err.Error())
			return
		}
		c.Println(lo.Dump())
	},
}

// 加载配置
var ConfCmd = &ishell.Cmd{
	Name: "conf",
	Help: "conf <storage.config>, load the targets to format",
	Func: func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Println("must need one args")
			return
		}
		if err := GMC.LoadConfiguration("", "", c.Args[0]); err != nil {
			c.Printf("failed: %s\n", err.Error())
			return
		}
		c.Println(GMC.Conf.Dump())
	},
}

// 格式化配置中的全部目标
var RunCmd = &ishell.Cmd{
	Name: "run",
	Help: "format every target loaded by conf",
	Func: func(c *ishell.Context) {
		if !GMC.IsInitialize() {
			c.Println("use conf command first")
			return
		}
		if err := GMC.Run(); err != nil {
			c.Printf("failed: %s\n", err.Error())
		}
	},
}

// 格式化单个目标
var FormatCmd = &ishell.Cmd{
	Name: "format",
	Help: "format <path> [size], format one device or image file",
	Func: func(c *ishell.Context) {
		if len(c.Args) < 1 || len(c.Args) > 2 {
			c.Println("usage: format <path> [size]")
			return
		}
		sc := conf.StorageConfig{Path: c.Args[0]}
		if len(c.Args) == 2 {
			size, err := conf.ParseSize(c.Args[1])
			if err != nil {
				c.Printf("failed: %s\n", err.Error())
				return
			}
			sc.Size = size
			sc.SizeStr = c.Args[1]
		}
		lo, err := GMC.FormatTarget(sc)
		if err != nil {
			c.Printf("failed: %s\n", err.Error())
			return
		}
		c.Printf("%s: %d data blocks, %d free inodes\n", sc.Path, lo.NrDataBlocks, lo.NrFreeInodes())
	},
}

// 查看目标设备
var SpanCmd = &ishell.Cmd{
	Name: "span",
	Help: "span <path>, show the type and size of a target",
	Func: func(c *ishell.Context) {
		if len(c.Args) != 1 {
			c.Println("must need one args")
			return
		}
		sp, err := disk.NewSpan(c.Args[0], 0)
		if err != nil {
			c.Printf("failed: %s\n", err.Error())
			return
		}
		c.Println(sp.String())
		if sp.Geometry != nil {
			c.Println(sp.Geometry.String())
		}
	},
}

// 查看DIO状态
var StatDIOCmd = &ishell.Cmd{
	Name: "dio_stat",
	Help: "show write statistics of the formatted targets",
	Func: func(c *ishell.Context) {
		if len(GMC.Dio) == 0 {
			c.Println("nothing formatted yet")
			return
		}
		for _, v := range GMC.Dio {
			c.Println(v.DumpStat())
			c.Println("-----------------------")
		}
	},
}

func MkfsCmd(cli *MkfsClient) {
	GMC = cli
	shell := ishell.New()
	shell.Println("WICH mkfs shell")
	if GMC.IsInitialize() {
		shell.Println(GMC.Conf.Dump())
	}
	shell.AddCmd(PlanCmd)
	shell.AddCmd(ConfCmd)
	shell.AddCmd(RunCmd)
	shell.AddCmd(FormatCmd)
	shell.AddCmd(SpanCmd)
	shell.AddCmd(StatDIOCmd)
	shell.Run()
}
