package main

import (
	"os"

	"github.com/viant/toolproxy/cmd"
)

func main() {
	cmd.Run(os.Args[1:])
}
