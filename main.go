package main

import (
	"os"

	"github.com/sealer-cli/sealer/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
