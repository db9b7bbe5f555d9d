package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/golang/glog"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage:\n"+
			"  %s [flags] disk\n"+
			"  %s [flags] -conf=storage.config\n"+
			"  %s -shell [flags] [disk]\n\nFlags:\n", os.Args[0], os.Args[0], os.Args[0])
	flag.PrintDefaults()
}

var errNoTarget = errors.New("no device to format")

// newClient loads the targets named on the command line. Only the shell
// may start without one; it then waits for the conf or format commands.
func newClient(out io.Writer, device, sizeStr, confPath string, shell bool) (*MkfsClient, error) {
	cli := NewMkfsClient(out)
	if device == "" && sizeStr == "" && confPath == "" {
		if shell {
			return cli, nil
		}
		return nil, errNoTarget
	}
	if err := cli.LoadConfiguration(device, sizeStr, confPath); err != nil {
		return nil, err
	}
	return cli, nil
}

func main() {
	os.Exit(run())
}

func run() (code int) {
	var sizeStr, confPath string
	var shell, quiet bool
	flag.StringVar(&sizeStr, "size", "", "-size=100M, create or resize the image file to this size")
	flag.StringVar(&confPath, "conf", "", "-conf=storage.config, format every 'path [size]' listed")
	flag.BoolVar(&shell, "shell", false, "start the interactive shell")
	flag.BoolVar(&quiet, "q", false, "do not print the summary")
	flag.Usage = usage
	flag.Parse()

	defer glog.Flush()

	defer func() {
		if err := recover(); err != nil {
			stack := debug.Stack()
			glog.Errorf("Ops!!! panic happened: %s", err)
			glog.Errorf("stack details: \n%s", string(stack))
			code = 2
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		os.Interrupt,
		syscall.SIGHUP,  // 1
		syscall.SIGQUIT, // 3
		syscall.SIGTERM, // 15
	)
	go func() {
		sig := <-sigChan
		glog.Errorf("catch signal: %s, target left partially formatted", sig.String())
		glog.Flush()
		os.Exit(1)
	}()

	var out io.Writer = os.Stdout
	if quiet {
		out = nil
	}

	if flag.NArg() > 1 {
		flag.Usage()
		return 1
	}
	cli, err := newClient(out, flag.Arg(0), sizeStr, confPath, shell)
	if errors.Is(err, errNoTarget) {
		flag.Usage()
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}

	if shell {
		MkfsCmd(cli)
		return 0
	}
	glog.V(1).Info(cli.Conf.Dump())

	if err := cli.Run(); err != nil {
		glog.Errorf("mkfs failed: %s", err)
		fmt.Fprintf(os.Stderr, "mkfs failed: %s\n", err)
		return 1
	}
	if !quiet {
		fmt.Print(cli.DumpStat())
	}
	return 0
}
