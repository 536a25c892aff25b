package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"tala/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon socket path")
	cli.Parse()

	cmd := "status"
	if args := cli.Args(); len(args) > 0 {
		cmd = args[0]
	}

	rep, err := ipc.SendCommand(*socket, cmd)
	if err != nil {
		fmt.Println("tala-daemon not running:", err)
		os.Exit(1)
	}
	if !rep.OK {
		fmt.Println("error:", rep.Text)
		os.Exit(1)
	}
	fmt.Println(rep.Text)
}
